package services

import "errors"

var (
	ErrMovieNotFound       = errors.New("movie not found")
	ErrDuplicateExternalID = errors.New("the title is already on the list")
	ErrCatalogUnavailable  = errors.New("movie catalog unavailable")
	ErrInvalidRating       = errors.New("rating must be between 0 and 10")
)
