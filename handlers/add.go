package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/oliwiasala/movie-list/services"
	"github.com/oliwiasala/movie-list/validation"
)

const duplicateMessage = "The title is already on the list!"

type AddMovieForm struct {
	Title string `form:"title" validate:"required,max=250"`
}

type addData struct {
	pageData
	Title  string
	Errors validation.FieldErrors
}

type selectData struct {
	pageData
	Query      string
	Candidates []services.CandidateSummary
}

func (h *Handler) AddMovieFormHandler(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, pageAdd, addData{
		pageData: pageData{Flashes: h.popFlashes(w, r)},
	})
}

// AddMovieHandler searches the catalog for the submitted title.
func (h *Handler) AddMovieHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.badRequest(w, r, err)
		return
	}

	form := AddMovieForm{Title: strings.TrimSpace(r.PostFormValue("title"))}
	if errs := validation.ValidateStruct(&form); errs != nil {
		h.render(w, http.StatusUnprocessableEntity, pageAdd, addData{
			Title:  form.Title,
			Errors: errs,
		})
		return
	}

	candidates, err := h.library.Search(r.Context(), form.Title)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.render(w, http.StatusOK, pageSelect, selectData{
		Query:      form.Title,
		Candidates: candidates,
	})
}

// FindMovieHandler imports the selected catalog movie and sends the user on
// to rate it.
func (h *Handler) FindMovieHandler(w http.ResponseWriter, r *http.Request) {
	externalID, err := ParseIDFromQuery(r, "movie_id")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	movie, err := h.library.Import(r.Context(), externalID)
	if errors.Is(err, services.ErrDuplicateExternalID) {
		if err := h.sessions.AddFlash(w, r, services.FlashError, duplicateMessage); err != nil {
			h.log.Error("failed to set flash", "error", err)
		}
		http.Redirect(w, r, "/add-movie", http.StatusSeeOther)
		return
	}
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	q := url.Values{"movie_id": {strconv.FormatInt(movie.ID, 10)}}
	http.Redirect(w, r, "/edit?"+q.Encode(), http.StatusSeeOther)
}
