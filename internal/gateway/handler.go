// Package gateway is the HTTP surface: it translates requests into
// resolution calls and resolution outcomes into response envelopes. No
// resolution or failure policy lives here.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/playgate/playgate/internal/config"
	"github.com/playgate/playgate/internal/domain"
	apperrors "github.com/playgate/playgate/internal/errors"
	"github.com/playgate/playgate/internal/playtypes"
	"github.com/playgate/playgate/internal/resolve"
	"github.com/playgate/playgate/internal/validation"
)

// availableChannelsHeader enumerates the channels whose data made it into a
// multi-channel response.
const availableChannelsHeader = "X-Available-Channels"

// Resolver is the slice of the resolution protocol the gateway consumes.
type Resolver interface {
	ForChannel(ctx context.Context, appID string, ch domain.Channel) (*resolve.ChannelDetails, error)
	AllChannels(ctx context.Context, appID string) (map[domain.Channel]*playtypes.DetailsResponse, error)
	Download(ctx context.Context, appID string, ch domain.Channel, versionCode *int32) (*playtypes.DownloadInfo, error)
}

// apiResponse is the response envelope shared by every endpoint.
type apiResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

type handler struct {
	resolver   Resolver
	classifier *apperrors.ErrorClassifier
	logger     *slog.Logger
}

// NewHandler returns the gateway's HTTP handler with the middleware chain
// applied.
func NewHandler(resolver Resolver, classifier *apperrors.ErrorClassifier, cfg *config.Config, logger *slog.Logger) http.Handler {
	h := &handler{resolver: resolver, classifier: classifier, logger: logger}

	r := mux.NewRouter()
	r.HandleFunc("/v1/details/{appId}", h.detailsMulti).Methods(http.MethodGet)
	r.HandleFunc("/v1/details/{appId}/{channel}", h.detailsChannel).Methods(http.MethodGet)
	r.HandleFunc("/v1/download/{appId}/{channel}", h.download).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	var wrapped http.Handler = r
	if cfg.RateLimiter.Enabled {
		wrapped = rateLimitMiddleware(cfg.RateLimiter, logger)(wrapped)
	}
	wrapped = metricsMiddleware(wrapped)
	wrapped = loggingMiddleware(logger)(wrapped)
	wrapped = requestIDMiddleware(wrapped)
	return wrapped
}

func (h *handler) detailsMulti(w http.ResponseWriter, r *http.Request) {
	appID := mux.Vars(r)["appId"]
	if err := validation.ValidateAppID(appID); err != nil {
		h.writeClassified(r.Context(), w, err, "details_multi")
		return
	}

	results, err := h.resolver.AllChannels(r.Context(), appID)
	if err != nil {
		h.writeClassified(r.Context(), w, err, "details_multi")
		return
	}

	data := make(map[string]*playtypes.DetailsResponse, len(results))
	present := make([]string, 0, len(results))
	for _, ch := range domain.Channels() {
		details, ok := results[ch]
		if !ok {
			continue
		}
		data[ch.String()] = details
		present = append(present, ch.String())
	}

	w.Header().Set(availableChannelsHeader, strings.Join(present, ","))
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: data})
}

func (h *handler) detailsChannel(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appID := vars["appId"]
	if err := validation.ValidateAppID(appID); err != nil {
		h.writeClassified(r.Context(), w, err, "details_channel")
		return
	}

	ch, err := domain.ParseChannel(vars["channel"])
	if err != nil {
		h.writeClassified(r.Context(), w, err, "details_channel")
		return
	}

	res, err := h.resolver.ForChannel(r.Context(), appID, ch)
	if err != nil {
		h.writeClassified(r.Context(), w, err, "details_channel")
		return
	}
	if res == nil {
		h.writeClassified(r.Context(), w, fmt.Errorf("app %q: %w", appID, apperrors.ErrAppNotFound), "details_channel")
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: res.Details})
}

func (h *handler) download(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appID := vars["appId"]
	if err := validation.ValidateAppID(appID); err != nil {
		h.writeClassified(r.Context(), w, err, "download")
		return
	}

	ch, err := domain.ParseChannel(vars["channel"])
	if err != nil {
		h.writeClassified(r.Context(), w, err, "download")
		return
	}

	var versionCode *int32
	if raw := r.URL.Query().Get("vc"); raw != "" {
		vc, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Error: fmt.Sprintf("invalid version code %q", raw)})
			return
		}
		vc32 := int32(vc)
		versionCode = &vc32
	}

	info, err := h.resolver.Download(r.Context(), appID, ch, versionCode)
	if err != nil {
		h.writeClassified(r.Context(), w, err, "download")
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: info})
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, apiResponse{Success: true})
}

func (h *handler) writeClassified(ctx context.Context, w http.ResponseWriter, err error, operation string) {
	classified := h.classifier.LogAndClassify(ctx, err, operation)
	writeJSON(w, classified.Status, apiResponse{Success: false, Error: classified.ClientMessage})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
