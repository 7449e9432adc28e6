// Package wiring assembles the application graph from configuration.
package wiring

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/playgate/playgate/internal/config"
	"github.com/playgate/playgate/internal/domain"
	apperrors "github.com/playgate/playgate/internal/errors"
	"github.com/playgate/playgate/internal/gateway"
	"github.com/playgate/playgate/internal/policy"
	"github.com/playgate/playgate/internal/registry"
	"github.com/playgate/playgate/internal/resolve"
	"github.com/playgate/playgate/internal/upstream/gplay"
)

// ProvideHandler builds the full gateway handler.
func ProvideHandler(cfg *config.Config, logger *slog.Logger) (http.Handler, error) {
	table, err := providePolicy(cfg)
	if err != nil {
		return nil, err
	}

	reg := provideRegistry(cfg, logger)
	resolver := resolve.New(reg, table, logger)
	classifier := apperrors.NewErrorClassifier(logger)

	return gateway.NewHandler(resolver, classifier, cfg, logger), nil
}

func providePolicy(cfg *config.Config) (*policy.Table, error) {
	if cfg.EligibilityFile == "" {
		// Only the mandatory channel is eligible for anything.
		return policy.New(nil), nil
	}
	table, err := policy.Load(cfg.EligibilityFile)
	if err != nil {
		return nil, fmt.Errorf("load eligibility table: %w", err)
	}
	return table, nil
}

func provideRegistry(cfg *config.Config, logger *slog.Logger) *registry.Registry {
	factory := func(ch domain.Channel) (domain.UpstreamClient, error) {
		creds := cfg.Channels.For(ch)
		if !creds.Configured() {
			return nil, fmt.Errorf("%w: channel %s", apperrors.ErrMissingCredentials, ch)
		}
		return gplay.New(gplay.Config{
			AuthURL:    cfg.Upstream.AuthURL,
			BaseURL:    cfg.Upstream.BaseURL,
			DeviceName: cfg.Upstream.DeviceName,
			Email:      creds.Email,
			AASToken:   creds.AASToken,
			Timeout:    cfg.Upstream.Timeout,
			MaxRetries: cfg.Upstream.MaxRetries,
		}, logger), nil
	}
	return registry.New(factory, cfg.Registry.InitBackoff, logger)
}
