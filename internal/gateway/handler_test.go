package gateway_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playgate/playgate/internal/config"
	"github.com/playgate/playgate/internal/domain"
	apperrors "github.com/playgate/playgate/internal/errors"
	"github.com/playgate/playgate/internal/gateway"
	"github.com/playgate/playgate/internal/playtypes"
	"github.com/playgate/playgate/internal/resolve"
)

type fakeResolver struct {
	forChannel func(ctx context.Context, appID string, ch domain.Channel) (*resolve.ChannelDetails, error)
	all        func(ctx context.Context, appID string) (map[domain.Channel]*playtypes.DetailsResponse, error)
	download   func(ctx context.Context, appID string, ch domain.Channel, versionCode *int32) (*playtypes.DownloadInfo, error)
}

func (f *fakeResolver) ForChannel(ctx context.Context, appID string, ch domain.Channel) (*resolve.ChannelDetails, error) {
	return f.forChannel(ctx, appID, ch)
}

func (f *fakeResolver) AllChannels(ctx context.Context, appID string) (map[domain.Channel]*playtypes.DetailsResponse, error) {
	return f.all(ctx, appID)
}

func (f *fakeResolver) Download(ctx context.Context, appID string, ch domain.Channel, versionCode *int32) (*playtypes.DownloadInfo, error) {
	return f.download(ctx, appID, ch, versionCode)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newHandler(t *testing.T, resolver gateway.Resolver) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{}
	return gateway.NewHandler(resolver, apperrors.NewErrorClassifier(logger), cfg, logger)
}

func doRequest(t *testing.T, handler http.Handler, path string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func titled(title string) *playtypes.DetailsResponse {
	return &playtypes.DetailsResponse{Item: &playtypes.Item{Title: &title}}
}

func TestDetailsMultiSuccess(t *testing.T) {
	resolver := &fakeResolver{
		all: func(_ context.Context, appID string) (map[domain.Channel]*playtypes.DetailsResponse, error) {
			assert.Equal(t, "com.discord", appID)
			return map[domain.Channel]*playtypes.DetailsResponse{
				domain.ChannelStable: titled("Discord"),
				domain.ChannelAlpha:  titled("Discord Alpha"),
			}, nil
		},
	}
	handler := newHandler(t, resolver)

	rec, env := doRequest(t, handler, "/v1/details/com.discord")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "stable,alpha", rec.Header().Get("X-Available-Channels"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	var data map[string]*playtypes.DetailsResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Contains(t, data, "stable")
	require.Contains(t, data, "alpha")
	assert.NotContains(t, data, "beta")
	assert.Equal(t, "Discord", *data["stable"].Item.Title)
}

func TestDetailsMultiNotFound(t *testing.T) {
	resolver := &fakeResolver{
		all: func(_ context.Context, appID string) (map[domain.Channel]*playtypes.DetailsResponse, error) {
			return nil, fmt.Errorf("app %q: %w", appID, apperrors.ErrAppNotFound)
		},
	}
	handler := newHandler(t, resolver)

	rec, env := doRequest(t, handler, "/v1/details/com.gone")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "not found")
}

func TestDetailsMultiUpstreamFailure(t *testing.T) {
	resolver := &fakeResolver{
		all: func(context.Context, string) (map[domain.Channel]*playtypes.DetailsResponse, error) {
			return nil, fmt.Errorf("%w: stable down", apperrors.ErrUpstream)
		},
	}
	handler := newHandler(t, resolver)

	rec, env := doRequest(t, handler, "/v1/details/com.discord")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.False(t, env.Success)
}

func TestDetailsChannelSuccess(t *testing.T) {
	resolver := &fakeResolver{
		forChannel: func(_ context.Context, appID string, ch domain.Channel) (*resolve.ChannelDetails, error) {
			assert.Equal(t, "com.discord", appID)
			assert.Equal(t, domain.ChannelBeta, ch)
			return &resolve.ChannelDetails{Channel: ch, Details: titled("Discord Beta")}, nil
		},
	}
	handler := newHandler(t, resolver)

	rec, env := doRequest(t, handler, "/v1/details/com.discord/beta")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	var data playtypes.DetailsResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "Discord Beta", *data.Item.Title)
}

func TestDetailsChannelUnknownChannel(t *testing.T) {
	handler := newHandler(t, &fakeResolver{})

	rec, env := doRequest(t, handler, "/v1/details/com.discord/nightly")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "nightly")
}

func TestDetailsMalformedAppID(t *testing.T) {
	resolver := &fakeResolver{
		all: func(context.Context, string) (map[domain.Channel]*playtypes.DetailsResponse, error) {
			t.Fatal("resolver must not be called for a malformed app id")
			return nil, nil
		},
	}
	handler := newHandler(t, resolver)

	rec, env := doRequest(t, handler, "/v1/details/not-a-package")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "not-a-package")
}

func TestDetailsChannelIneligiblePairNamed(t *testing.T) {
	resolver := &fakeResolver{
		forChannel: func(_ context.Context, appID string, ch domain.Channel) (*resolve.ChannelDetails, error) {
			return nil, &apperrors.NotAvailableError{Channel: ch.String(), AppID: appID}
		},
	}
	handler := newHandler(t, resolver)

	rec, env := doRequest(t, handler, "/v1/details/com.example.app/beta")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Error, "beta")
	assert.Contains(t, env.Error, "com.example.app")
}

func TestDetailsChannelNotFound(t *testing.T) {
	resolver := &fakeResolver{
		forChannel: func(context.Context, string, domain.Channel) (*resolve.ChannelDetails, error) {
			return nil, nil
		},
	}
	handler := newHandler(t, resolver)

	rec, env := doRequest(t, handler, "/v1/details/com.gone/stable")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
}

func TestDetailsChannelInitFailure(t *testing.T) {
	resolver := &fakeResolver{
		forChannel: func(context.Context, string, domain.Channel) (*resolve.ChannelDetails, error) {
			return nil, &apperrors.InitError{Channel: "beta", Err: fmt.Errorf("login refused")}
		},
	}
	handler := newHandler(t, resolver)

	rec, env := doRequest(t, handler, "/v1/details/com.discord/beta")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	// Internal login detail stays out of the client-facing message.
	assert.NotContains(t, env.Error, "login refused")
}

func TestDownload(t *testing.T) {
	resolver := &fakeResolver{
		download: func(_ context.Context, appID string, ch domain.Channel, versionCode *int32) (*playtypes.DownloadInfo, error) {
			require.NotNil(t, versionCode)
			assert.Equal(t, int32(126021), *versionCode)
			url := "https://play.example/dl"
			return &playtypes.DownloadInfo{PackageName: &appID, VersionCode: versionCode, DownloadURL: &url}, nil
		},
	}
	handler := newHandler(t, resolver)

	rec, env := doRequest(t, handler, "/v1/download/com.discord/stable?vc=126021")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	var info playtypes.DownloadInfo
	require.NoError(t, json.Unmarshal(env.Data, &info))
	assert.Equal(t, "https://play.example/dl", *info.DownloadURL)
}

func TestDownloadInvalidVersionCode(t *testing.T) {
	handler := newHandler(t, &fakeResolver{})

	rec, env := doRequest(t, handler, "/v1/download/com.discord/stable?vc=latest")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Error, "latest")
}

func TestHealthz(t *testing.T) {
	handler := newHandler(t, &fakeResolver{})

	rec, env := doRequest(t, handler, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
}

func TestRateLimiter(t *testing.T) {
	resolver := &fakeResolver{
		all: func(context.Context, string) (map[domain.Channel]*playtypes.DetailsResponse, error) {
			return map[domain.Channel]*playtypes.DetailsResponse{domain.ChannelStable: titled("Discord")}, nil
		},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{RateLimiter: config.RateLimiterConfig{Enabled: true, Rate: 1, Burst: 1}}
	handler := gateway.NewHandler(resolver, apperrors.NewErrorClassifier(logger), cfg, logger)

	rec, _ := doRequest(t, handler, "/v1/details/com.discord")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env := doRequest(t, handler, "/v1/details/com.discord")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "rate limit")
}
