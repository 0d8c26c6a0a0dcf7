package export

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Handler streams a company inventory export as a CSV attachment.
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHTTPHandler wraps the export service for mounting on a route with a
// {companyID} path value.
func NewHTTPHandler(service *Service, log zerolog.Logger) http.Handler {
	return &Handler{service: service, log: log}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	companyID, err := uuid.Parse(r.PathValue("companyID"))
	if err != nil {
		http.Error(w, "invalid company id", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "inventory-"+companyID.String()+".csv"))

	if _, err := h.service.WriteCompanyCSV(r.Context(), companyID, w); err != nil {
		// Headers are already out; all we can do is log and cut the stream.
		h.log.Error().Err(err).Str("company_id", companyID.String()).Msg("inventory export failed")
	}
}
