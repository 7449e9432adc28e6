// Package resolve implements the multi-channel resolution protocol on top of
// the session registry: eligibility-gated single-channel lookup, and
// best-effort aggregation where the mandatory channel's failure is terminal
// and optional channels' failures are contained.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/playgate/playgate/internal/domain"
	apperrors "github.com/playgate/playgate/internal/errors"
	"github.com/playgate/playgate/internal/playtypes"
	"github.com/playgate/playgate/internal/policy"
	"github.com/playgate/playgate/internal/registry"
)

// ChannelDetails is a details document together with the channel that
// served it.
type ChannelDetails struct {
	Channel domain.Channel
	Details *playtypes.DetailsResponse
}

type Resolver struct {
	registry *registry.Registry
	policy   *policy.Table
	logger   *slog.Logger
}

func New(reg *registry.Registry, table *policy.Table, logger *slog.Logger) *Resolver {
	return &Resolver{
		registry: reg,
		policy:   table,
		logger:   logger,
	}
}

// ForChannel looks appID up on a single channel. It returns (nil, nil) when
// the channel is reachable and authoritatively reports the app absent. An
// ineligible (channel, app) pair fails before any upstream call is made.
func (r *Resolver) ForChannel(ctx context.Context, appID string, ch domain.Channel) (*ChannelDetails, error) {
	if !r.policy.IsEligible(ch, appID) {
		lookupOutcomes.WithLabelValues(ch.String(), outcomeIneligible).Inc()
		return nil, &apperrors.NotAvailableError{Channel: ch.String(), AppID: appID}
	}

	sess, err := r.registry.Session(ctx, ch)
	if err != nil {
		lookupOutcomes.WithLabelValues(ch.String(), outcomeError).Inc()
		return nil, err
	}

	details, err := sess.FetchDetails(ctx, appID)
	if err != nil {
		if errors.Is(err, apperrors.ErrAppNotFound) {
			lookupOutcomes.WithLabelValues(ch.String(), outcomeNotFound).Inc()
			return nil, nil
		}
		lookupOutcomes.WithLabelValues(ch.String(), outcomeError).Inc()
		return nil, err
	}

	lookupOutcomes.WithLabelValues(ch.String(), outcomeFound).Inc()
	return &ChannelDetails{Channel: ch, Details: details}, nil
}

// AllChannels queries the mandatory channel and then every eligible optional
// channel for appID, in precedence order. A mandatory miss or failure aborts
// the request; an optional channel's miss or failure only leaves that
// channel out of the result.
func (r *Resolver) AllChannels(ctx context.Context, appID string) (map[domain.Channel]*playtypes.DetailsResponse, error) {
	results := make(map[domain.Channel]*playtypes.DetailsResponse)

	mandatory, err := r.ForChannel(ctx, appID, domain.ChannelStable)
	if err != nil {
		return nil, err
	}
	if mandatory == nil {
		return nil, fmt.Errorf("app %q: %w", appID, apperrors.ErrAppNotFound)
	}
	results[domain.ChannelStable] = mandatory.Details

	for _, ch := range domain.OptionalChannels() {
		if !r.policy.IsEligible(ch, appID) {
			continue
		}
		res, err := r.ForChannel(ctx, appID, ch)
		if err != nil {
			r.logger.Warn("optional channel lookup failed",
				"channel", ch.String(), "app", appID, "error", err)
			continue
		}
		if res == nil {
			r.logger.Debug("app absent on optional channel",
				"channel", ch.String(), "app", appID)
			continue
		}
		results[ch] = res.Details
	}

	return results, nil
}

// Download fetches download metadata for appID on a single channel, with the
// same eligibility gating as ForChannel. A nil versionCode selects the
// latest version.
func (r *Resolver) Download(ctx context.Context, appID string, ch domain.Channel, versionCode *int32) (*playtypes.DownloadInfo, error) {
	if !r.policy.IsEligible(ch, appID) {
		return nil, &apperrors.NotAvailableError{Channel: ch.String(), AppID: appID}
	}

	sess, err := r.registry.Session(ctx, ch)
	if err != nil {
		return nil, err
	}
	return sess.FetchDownloadInfo(ctx, appID, versionCode)
}
