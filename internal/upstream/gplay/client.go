// Package gplay is the authenticated Play API client consumed by the channel
// sessions. It owns the login handshake (long-lived AAS token exchanged for a
// session token) and the wire requests; bounded transport-level retry lives
// here and nowhere above.
package gplay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	apperrors "github.com/playgate/playgate/internal/errors"
	"github.com/playgate/playgate/internal/playtypes"
)

const (
	DefaultAuthURL = "https://android.clients.google.com/auth"
	DefaultBaseURL = "https://android.clients.google.com/fdfe"

	defaultUserAgent = "playgate/1.0"
	defaultTimeout   = 30 * time.Second
	retryBaseBackoff = 200 * time.Millisecond
)

// Config carries one channel's upstream identity: the device the session
// claims to be, the account, and its long-lived AAS token.
type Config struct {
	AuthURL    string
	BaseURL    string
	DeviceName string
	Email      string
	AASToken   string
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int
}

// Client implements domain.UpstreamClient over HTTP. It is safe for
// concurrent use; only the session token is mutable after construction.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger

	mu        sync.RWMutex
	authToken string
}

func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.AuthURL == "" {
		cfg.AuthURL = DefaultAuthURL
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.With("upstream_account", cfg.Email),
	}
}

// Login exchanges the configured AAS token for a Play session token. Calling
// it on an authenticated client refreshes the token.
func (c *Client) Login(ctx context.Context) error {
	form := url.Values{
		"accountType":    {"HOSTED_OR_GOOGLE"},
		"Email":          {c.cfg.Email},
		"has_permission": {"1"},
		"Token":          {c.cfg.AASToken},
		"service":        {"oauth2:https://www.googleapis.com/auth/googleplay"},
		"source":         {"android"},
		"app":            {"com.android.vending"},
		"device_country": {"us"},
		"lang":           {"en_US"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.AuthURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: auth request: %v", apperrors.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read auth response: %v", apperrors.ErrInvalidResponse, err)
	}

	fields := parseKeyValueBody(string(body))
	if resp.StatusCode != http.StatusOK || fields["Error"] != "" {
		return classifyAuthError(resp.StatusCode, fields["Error"])
	}

	token, ok := fields["Auth"]
	if !ok || token == "" {
		return fmt.Errorf("%w: auth response carries no token", apperrors.ErrInvalidResponse)
	}

	c.mu.Lock()
	c.authToken = token
	c.mu.Unlock()
	c.logger.Debug("session token refreshed")
	return nil
}

// Details fetches the details document for appID. An authoritative "no such
// app" is reported as errors.ErrAppNotFound.
func (c *Client) Details(ctx context.Context, appID string) (*playtypes.DetailsResponse, error) {
	query := url.Values{"doc": {appID}}
	body, err := c.get(ctx, "/details", query)
	if err != nil {
		return nil, err
	}

	var wrapper responseWrapper
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return nil, fmt.Errorf("%w: decode details payload: %v", apperrors.ErrInvalidResponse, err)
	}
	if wrapper.Payload == nil || wrapper.Payload.DetailsResponse == nil || wrapper.Payload.DetailsResponse.Item == nil {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrAppNotFound, appID)
	}
	return wrapper.Payload.DetailsResponse, nil
}

// DownloadInfo fetches delivery metadata for appID. A nil versionCode lets
// the upstream pick the latest version visible to this account.
func (c *Client) DownloadInfo(ctx context.Context, appID string, versionCode *int32) (*playtypes.DownloadInfo, error) {
	query := url.Values{"doc": {appID}, "ot": {"1"}}
	if versionCode != nil {
		query.Set("vc", strconv.FormatInt(int64(*versionCode), 10))
	}

	body, err := c.get(ctx, "/delivery", query)
	if err != nil {
		return nil, err
	}

	var wrapper responseWrapper
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return nil, fmt.Errorf("%w: decode delivery payload: %v", apperrors.ErrInvalidResponse, err)
	}
	if wrapper.Payload == nil || wrapper.Payload.DeliveryResponse == nil || wrapper.Payload.DeliveryResponse.AppDeliveryData == nil {
		return nil, fmt.Errorf("%w: no delivery data for %q", apperrors.ErrAppNotFound, appID)
	}

	data := wrapper.Payload.DeliveryResponse.AppDeliveryData
	// Report the version the upstream actually served; the requested one is
	// only a fallback for payloads that omit it (and is nil for "latest").
	served := data.VersionCode
	if served == nil {
		served = versionCode
	}
	info := &playtypes.DownloadInfo{
		PackageName:  &appID,
		VersionCode:  served,
		DownloadURL:  data.DownloadURL,
		DownloadSize: data.DownloadSize,
	}
	for _, split := range data.SplitDeliveryData {
		info.Splits = append(info.Splits, playtypes.Split{
			Name:        split.Name,
			DownloadURL: split.DownloadURL,
			Size:        split.DownloadSize,
		})
	}
	return info, nil
}

// get performs an authenticated GET with bounded retry on transient
// failures (network errors and 5xx). Non-transient statuses map onto the
// upstream error taxonomy immediately.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	c.mu.RLock()
	token := c.authToken
	c.mu.RUnlock()
	if token == "" {
		return nil, apperrors.ErrLoginRequired
	}

	endpoint := c.cfg.BaseURL + path + "?" + query.Encode()

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := retryBaseBackoff * (1 << (attempt - 1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Authorization", "GoogleLogin auth="+token)
		req.Header.Set("User-Agent", c.cfg.UserAgent)
		req.Header.Set("X-DFE-Device-Id", c.cfg.DeviceName)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			if readErr != nil {
				return nil, fmt.Errorf("%w: read body: %v", apperrors.ErrInvalidResponse, readErr)
			}
			return body, nil
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return nil, fmt.Errorf("%w: upstream returned %d", apperrors.ErrAuthentication, resp.StatusCode)
		case resp.StatusCode == http.StatusNotFound:
			return nil, fmt.Errorf("%w: upstream returned 404", apperrors.ErrAppNotFound)
		case resp.StatusCode >= 500:
			lastErr = fmt.Errorf("%w: upstream returned %d", apperrors.ErrUpstream, resp.StatusCode)
			continue
		default:
			return nil, fmt.Errorf("%w: upstream returned %d", apperrors.ErrUpstream, resp.StatusCode)
		}
	}
	return nil, lastErr
}

// parseKeyValueBody parses the line-oriented key=value auth response body.
func parseKeyValueBody(body string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(body, "\n") {
		key, value, found := strings.Cut(strings.TrimSpace(line), "=")
		if !found || key == "" {
			continue
		}
		fields[key] = value
	}
	return fields
}

func classifyAuthError(status int, errCode string) error {
	switch errCode {
	case "NeedsBrowser":
		return fmt.Errorf("%w: account requires browser interaction", apperrors.ErrTermsOfService)
	case "BadAuthentication":
		return fmt.Errorf("%w: bad credentials or stale AAS token", apperrors.ErrAuthentication)
	case "":
		return fmt.Errorf("%w: auth endpoint returned %d", apperrors.ErrAuthentication, status)
	default:
		return fmt.Errorf("%w: %s", apperrors.ErrAuthentication, errCode)
	}
}

// responseWrapper mirrors the upstream response envelope.
type responseWrapper struct {
	Payload *payload `json:"payload,omitempty"`
}

type payload struct {
	DetailsResponse  *playtypes.DetailsResponse `json:"details_response,omitempty"`
	DeliveryResponse *deliveryResponse          `json:"delivery_response,omitempty"`
}

type deliveryResponse struct {
	Status          *int32           `json:"status,omitempty"`
	AppDeliveryData *appDeliveryData `json:"app_delivery_data,omitempty"`
}

type appDeliveryData struct {
	VersionCode       *int32              `json:"version_code,omitempty"`
	DownloadURL       *string             `json:"download_url,omitempty"`
	DownloadSize      *int64              `json:"download_size,omitempty"`
	SplitDeliveryData []splitDeliveryData `json:"split_delivery_data,omitempty"`
}

type splitDeliveryData struct {
	Name         *string `json:"name,omitempty"`
	DownloadURL  *string `json:"download_url,omitempty"`
	DownloadSize *int64  `json:"download_size,omitempty"`
}
