package httpapp

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/simonsobs/mapcat/internal/domain"
	"github.com/simonsobs/mapcat/internal/http/dto"
	"github.com/simonsobs/mapcat/internal/logger"
	"github.com/simonsobs/mapcat/internal/store"
)

// Handler serves the read-only catalog API.
type Handler struct {
	Repo   *store.DB
	Logger *logger.Logger
}

func NewHandler(repo *store.DB, log *logger.Logger) *Handler {
	return &Handler{Repo: repo, Logger: log.WithComponent("http")}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/maps", h.ListMaps)
		r.Get("/maps/{id}", h.GetMap)
		r.Get("/maps/{id}/coverage", h.GetCoverage)
		r.Get("/tiles/{x}/{y}/maps", h.ListMapsInTile)
		r.Get("/coverage/pending", h.ListPending)
		r.Get("/obs/{obs_id}/maps", h.ListMapsForObs)
		r.Get("/coadds/{id}", h.GetCoadd)
		r.Get("/atomic-coadds/{id}", h.GetAtomicCoadd)
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Logger.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) writeValidation(w http.ResponseWriter, errs []dto.ValidationError) {
	h.writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
		Error:  dto.ToResponse(errs),
		Fields: dto.ToMap(errs),
	})
}

// writeError maps store errors onto status codes.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		h.writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
		return
	}
	h.Logger.Error("Request failed", "path", r.URL.Path, "error", err)
	h.writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"})
}
