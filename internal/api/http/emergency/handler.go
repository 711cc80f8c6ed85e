package emergency

import (
	"context"
	"encoding/json"
	"net/http"

	domain "github.com/auralink/guardian-alert/internal/domain/emergency"
	"github.com/auralink/guardian-alert/internal/logger"
	"github.com/auralink/guardian-alert/internal/service/dispatcher"
)

// Service abstracts the business operation the transport layer depends on.
type Service interface {
	Dispatch(ctx context.Context, req dispatcher.Request) domain.Result
}

// Handler implements the JSON dispatch API.
type Handler struct {
	// service provides the dispatch orchestration logic.
	service Service
}

// NewHandler wires the provided service implementation into an HTTP handler.
func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

// Register mounts the API routes on the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/emergency/dispatch", h.dispatch)
	mux.HandleFunc("GET /healthz", h.health)
}

// maxRequestBytes bounds the dispatch request body size.
const maxRequestBytes = 64 << 10

// dispatchRequest is the caller contract input.
type dispatchRequest struct {
	// UID is the unique identifier of the user asking for help.
	UID string `json:"uid"`
	// DisplayName is the optional reporter name.
	DisplayName string `json:"displayName"`
	// FallbackNote is the default note used when Note is absent.
	FallbackNote string `json:"fallbackNote"`
	// Note is the optional free-text note.
	Note string `json:"note"`
}

// dispatchResponse is the caller contract output. Error carries the
// already-localized failure message and is empty on success.
type dispatchResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// dispatch runs one alert dispatch. Dispatch failures are part of the
// contract, not transport errors: they come back as 200 with ok=false and
// the localized message, the way the UI expects to render them.
func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request) {
	var req dispatchRequest

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := decoder.Decode(&req); err != nil {
		writeJSON(r.Context(), w, http.StatusBadRequest, dispatchResponse{Error: "malformed request body"})

		return
	}

	if req.UID == "" {
		writeJSON(r.Context(), w, http.StatusBadRequest, dispatchResponse{Error: "uid is required"})

		return
	}

	result := h.service.Dispatch(r.Context(), dispatcher.Request{
		UID:          req.UID,
		DisplayName:  req.DisplayName,
		FallbackNote: req.FallbackNote,
		Note:         req.Note,
	})

	response := dispatchResponse{OK: result.OK()}
	if !result.OK() {
		response.Error = result.Reason.Message()
	}

	writeJSON(r.Context(), w, http.StatusOK, response)
}

// health reports process liveness.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON renders a JSON response with the provided status code.
func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.ErrorKV(ctx, "Failed to write response", "error", err)
	}
}
