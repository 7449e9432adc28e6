package errors_test

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/playgate/playgate/internal/domain"
	apperrors "github.com/playgate/playgate/internal/errors"
)

func TestClassify(t *testing.T) {
	classifier := apperrors.NewErrorClassifier(slog.New(slog.NewTextHandler(io.Discard, nil)))

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "unknown channel",
			err:        fmt.Errorf("%w: %q", domain.ErrUnknownChannel, "nightly"),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "ineligible pair",
			err:        &apperrors.NotAvailableError{Channel: "beta", AppID: "com.example.app"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "app not found",
			err:        fmt.Errorf("app %q: %w", "com.gone", apperrors.ErrAppNotFound),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "missing credentials",
			err:        fmt.Errorf("%w: channel alpha", apperrors.ErrMissingCredentials),
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "init failure",
			err:        &apperrors.InitError{Channel: "beta", Err: fmt.Errorf("refused")},
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "upstream failure",
			err:        fmt.Errorf("%w: 503", apperrors.ErrUpstream),
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "anything else",
			err:        fmt.Errorf("surprise"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified := classifier.Classify(tt.err, "test")
			assert.Equal(t, tt.wantStatus, classified.Status)
			assert.NotEmpty(t, classified.ClientMessage)
		})
	}
}

func TestNotAvailableErrorNamesPair(t *testing.T) {
	err := &apperrors.NotAvailableError{Channel: "beta", AppID: "com.example.app"}
	assert.Contains(t, err.Error(), "beta")
	assert.Contains(t, err.Error(), "com.example.app")
	assert.ErrorIs(t, err, apperrors.ErrChannelNotAvailable)
}

func TestInitErrorWrapsCause(t *testing.T) {
	cause := fmt.Errorf("%w: stale token", apperrors.ErrAuthentication)
	err := &apperrors.InitError{Channel: "stable", Err: cause}
	assert.ErrorIs(t, err, apperrors.ErrChannelInit)
	assert.ErrorIs(t, err, apperrors.ErrAuthentication)
	assert.Contains(t, err.Error(), "stable")
}
