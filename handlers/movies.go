package handlers

import (
	"net/http"

	"github.com/oliwiasala/movie-list/models"
)

type homeData struct {
	pageData
	Movies []models.Movie
}

// HomeHandler shows the list. Ranks are recomputed and saved on every view.
// Flashes stay queued when the list cannot be loaded.
func (h *Handler) HomeHandler(w http.ResponseWriter, r *http.Request) {
	movies, err := h.library.RecomputeAndPersistRanks(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.render(w, http.StatusOK, pageIndex, homeData{
		pageData: pageData{Flashes: h.popFlashes(w, r)},
		Movies:   movies,
	})
}

// DeleteHandler removes a movie without confirmation.
func (h *Handler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDFromQuery(r, "movie_id")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.library.Delete(r.Context(), id); err != nil {
		h.renderError(w, r, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
