package httpapp

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/simonsobs/mapcat/internal/http/dto"
)

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Repo.CountAllCoverage(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	pending, err := h.Repo.ListMapsWithoutCoverage(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, dto.HealthResponse{Status: "ok", CoverageRows: rows, PendingMaps: len(pending)})
}

func (h *Handler) ListMaps(w http.ResponseWriter, r *http.Request) {
	limit, errs := dto.ParseLimit(r.URL.Query().Get("limit"))
	if len(errs) > 0 {
		h.writeValidation(w, errs)
		return
	}

	maps, err := h.Repo.ListMaps(r.Context(), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, dto.NewMapListResponse(maps))
}

func (h *Handler) GetMap(w http.ResponseWriter, r *http.Request) {
	id, errs := dto.ParseID(chi.URLParam(r, "id"))
	if len(errs) > 0 {
		h.writeValidation(w, errs)
		return
	}

	ctx := r.Context()
	m, err := h.Repo.GetMap(ctx, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	tiles, err := h.Repo.CountCoverage(ctx, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	tods, err := h.Repo.ListTODsForMap(ctx, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	coadds, err := h.Repo.ListCoaddsForMap(ctx, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	statuses, err := h.Repo.ListProcessingStatuses(ctx, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	residuals, err := h.Repo.ListPointingResiduals(ctx, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	info, err := h.Repo.ListPipelineInformation(ctx, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, dto.NewMapDetailResponse(m, tiles, tods, coadds, statuses, residuals, info))
}

func (h *Handler) GetCoverage(w http.ResponseWriter, r *http.Request) {
	id, errs := dto.ParseID(chi.URLParam(r, "id"))
	if len(errs) > 0 {
		h.writeValidation(w, errs)
		return
	}

	// 404 for unknown maps, empty list for known maps without coverage.
	if _, err := h.Repo.GetMap(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	records, err := h.Repo.ListCoverage(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, dto.NewCoverageResponse(id, records))
}

func (h *Handler) ListMapsInTile(w http.ResponseWriter, r *http.Request) {
	tile, errs := dto.ParseTile(chi.URLParam(r, "x"), chi.URLParam(r, "y"))
	if len(errs) > 0 {
		h.writeValidation(w, errs)
		return
	}

	maps, err := h.Repo.ListMapsInTile(r.Context(), tile.X, tile.Y)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, dto.NewMapListResponse(maps))
}

func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	maps, err := h.Repo.ListMapsWithoutCoverage(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, dto.NewPendingResponse(maps))
}

func (h *Handler) ListMapsForObs(w http.ResponseWriter, r *http.Request) {
	obsID, errs := dto.ParseObsID(chi.URLParam(r, "obs_id"))
	if len(errs) > 0 {
		h.writeValidation(w, errs)
		return
	}

	maps, err := h.Repo.MapsContainingObs(r.Context(), obsID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, dto.ObsMapsResponse{ObsID: obsID, Maps: dto.NewMapListResponse(maps)})
}

func (h *Handler) GetCoadd(w http.ResponseWriter, r *http.Request) {
	id, errs := dto.ParseID(chi.URLParam(r, "id"))
	if len(errs) > 0 {
		h.writeValidation(w, errs)
		return
	}

	c, err := h.Repo.GetDepthOneCoadd(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	maps, err := h.Repo.ListMapsInCoadd(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, dto.CoaddResponse{DepthOneCoadd: c, Maps: dto.NewMapListResponse(maps)})
}

func (h *Handler) GetAtomicCoadd(w http.ResponseWriter, r *http.Request) {
	id, errs := dto.ParseID(chi.URLParam(r, "id"))
	if len(errs) > 0 {
		h.writeValidation(w, errs)
		return
	}

	ctx := r.Context()
	c, err := h.Repo.GetAtomicMapCoadd(ctx, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	maps, err := h.Repo.ListAtomicMapsInCoadd(ctx, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	children, err := h.Repo.ListChildCoadds(ctx, id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, dto.NewAtomicCoaddResponse(c, maps, children))
}
