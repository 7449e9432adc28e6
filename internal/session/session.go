// Package session wraps one authenticated upstream client with the channel
// it is bound to, so errors and logs carry the channel identity without the
// caller tracking it separately.
package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/playgate/playgate/internal/domain"
	"github.com/playgate/playgate/internal/playtypes"
)

// Session is a thin stateful wrapper around one channel's upstream client.
// It adds channel attribution to every error and nothing else: retries and
// timeouts belong to the upstream client or its transport.
type Session struct {
	channel domain.Channel
	client  domain.UpstreamClient
	logger  *slog.Logger
}

func New(channel domain.Channel, client domain.UpstreamClient, logger *slog.Logger) *Session {
	return &Session{
		channel: channel,
		client:  client,
		logger:  logger.With("channel", channel.String()),
	}
}

func (s *Session) Channel() domain.Channel { return s.channel }

// Initialize performs the upstream login handshake.
func (s *Session) Initialize(ctx context.Context) error {
	s.logger.Debug("logging in to upstream")
	if err := s.client.Login(ctx); err != nil {
		return fmt.Errorf("login on %s channel: %w", s.channel, err)
	}
	s.logger.Info("upstream session established")
	return nil
}

// FetchDetails fetches the details document for appID on this channel.
func (s *Session) FetchDetails(ctx context.Context, appID string) (*playtypes.DetailsResponse, error) {
	details, err := s.client.Details(ctx, appID)
	if err != nil {
		return nil, fmt.Errorf("details for %q on %s channel: %w", appID, s.channel, err)
	}
	return details, nil
}

// FetchDownloadInfo fetches download metadata for appID on this channel. A
// nil versionCode selects the latest version.
func (s *Session) FetchDownloadInfo(ctx context.Context, appID string, versionCode *int32) (*playtypes.DownloadInfo, error) {
	info, err := s.client.DownloadInfo(ctx, appID, versionCode)
	if err != nil {
		return nil, fmt.Errorf("download info for %q on %s channel: %w", appID, s.channel, err)
	}
	return info, nil
}
