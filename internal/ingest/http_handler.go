package ingest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/stocksync/stocksync/internal/auth"
	"github.com/stocksync/stocksync/internal/extract"
)

// uploadResponse is the envelope the upload-status endpoint surfaces.
type uploadResponse struct {
	Status string `json:"status"`
	Result any    `json:"result"`
}

// Handler exposes batch import as a thin HTTP endpoint over the engine.
// Authentication is the caller's concern; the actor identity arrives opaque.
type Handler struct {
	engine  *Engine
	adapter extract.Adapter
	log     zerolog.Logger
}

// NewHTTPHandler wraps the engine with a multipart upload endpoint.
func NewHTTPHandler(engine *Engine, adapter extract.Adapter, log zerolog.Logger) http.Handler {
	return &Handler{engine: engine, adapter: adapter, log: log}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "invalid form data: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	performedBy := strings.TrimSpace(r.FormValue("performedBy"))
	if performedBy == "" {
		performedBy, _ = auth.ActorFromContext(r.Context())
	}
	if performedBy == "" {
		http.Error(w, "performedBy is required", http.StatusBadRequest)
		return
	}

	payload, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read file: "+err.Error(), http.StatusBadRequest)
		return
	}

	rows, err := h.adapter.Extract(header.Filename, payload)
	if err != nil {
		status := http.StatusBadRequest
		if !errors.Is(err, extract.ErrUnsupportedFormat) {
			h.log.Warn().Err(err).Str("file", header.Filename).Msg("extraction failed")
		}
		http.Error(w, err.Error(), status)
		return
	}

	result, err := h.engine.Process(r.Context(), rows, performedBy, header.Filename)
	if err != nil {
		if errors.Is(err, ErrEmptyBatch) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.log.Error().Err(err).Str("file", header.Filename).Msg("batch aborted")
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	response := uploadResponse{Status: "completed", Result: result}
	if !result.Success {
		response.Status = "failed"
	}
	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
