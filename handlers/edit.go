package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/oliwiasala/movie-list/models"
	"github.com/oliwiasala/movie-list/validation"
)

// RateForm carries the placeholders shown in the empty rate inputs.
type RateForm struct {
	RatingPlaceholder string
	ReviewPlaceholder string
}

type RateMovieInput struct {
	Rating *float64 `form:"rating" validate:"required,gte=0,lte=10"`
	Review string   `form:"review" validate:"required"`
}

type rateValues struct {
	Rating string
	Review string
}

type editData struct {
	pageData
	Movie  *models.Movie
	Form   RateForm
	Values rateValues
	Errors validation.FieldErrors
}

// rateFormFor prefers placeholders passed in the query and falls back to the
// stored rating and review.
func rateFormFor(r *http.Request, movie *models.Movie) RateForm {
	form := RateForm{
		RatingPlaceholder: r.URL.Query().Get("movie_rating"),
		ReviewPlaceholder: r.URL.Query().Get("movie_review"),
	}
	if form.RatingPlaceholder == "" {
		form.RatingPlaceholder = formatRating(movie.Rating)
	}
	if form.ReviewPlaceholder == "" && movie.Review != nil {
		form.ReviewPlaceholder = *movie.Review
	}
	return form
}

func (h *Handler) EditFormHandler(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDFromQuery(r, "movie_id")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	movie, err := h.library.Get(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.render(w, http.StatusOK, pageEdit, editData{
		Movie: movie,
		Form:  rateFormFor(r, movie),
	})
}

// EditHandler saves a rating and review. Invalid input re-renders the form
// and leaves the movie untouched.
func (h *Handler) EditHandler(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDFromQuery(r, "movie_id")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	movie, err := h.library.Get(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.badRequest(w, r, err)
		return
	}

	values := rateValues{
		Rating: strings.TrimSpace(r.PostFormValue("rating")),
		Review: strings.TrimSpace(r.PostFormValue("review")),
	}
	input, errs := parseRateInput(values)
	if errs != nil {
		h.render(w, http.StatusUnprocessableEntity, pageEdit, editData{
			Movie:  movie,
			Form:   rateFormFor(r, movie),
			Values: values,
			Errors: errs,
		})
		return
	}

	if _, err := h.library.Rate(r.Context(), id, *input.Rating, input.Review); err != nil {
		h.renderError(w, r, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func parseRateInput(values rateValues) (RateMovieInput, validation.FieldErrors) {
	input := RateMovieInput{Review: values.Review}
	errs := validation.FieldErrors{}

	if values.Rating != "" {
		rating, err := strconv.ParseFloat(values.Rating, 64)
		if err != nil {
			errs.Add("rating", "Not a valid float value.")
		} else {
			input.Rating = &rating
		}
	}

	for field, msg := range validation.ValidateStruct(&input) {
		errs.Add(field, msg)
	}

	if len(errs) > 0 {
		return input, errs
	}
	return input, nil
}
