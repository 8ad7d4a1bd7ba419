package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/oliwiasala/movie-list/metrics"
	"github.com/oliwiasala/movie-list/models"
)

// NoPosterURL is shown for catalog entries without a poster.
const NoPosterURL = "/static/no-poster.svg"

// Library ties the record store to the catalog for the user-facing flows.
type Library struct {
	repo         MovieRepository
	catalog      Catalog
	imageBaseURL string
	log          *slog.Logger
}

func NewLibrary(repo MovieRepository, catalog Catalog, imageBaseURL string, logger *slog.Logger) *Library {
	return &Library{
		repo:         repo,
		catalog:      catalog,
		imageBaseURL: strings.TrimRight(imageBaseURL, "/"),
		log:          logger.With("component", "library"),
	}
}

// RecomputeAndPersistRanks lists every movie best rated first, numbers them
// from 1 and stores the new ranks. Viewing the list therefore writes.
func (l *Library) RecomputeAndPersistRanks(ctx context.Context) ([]models.Movie, error) {
	movies, err := l.repo.ListByRatingDesc(ctx)
	if err != nil {
		return nil, err
	}

	AssignRanks(movies)

	if err := l.repo.UpdateRanks(ctx, movies); err != nil {
		return nil, err
	}
	return movies, nil
}

func (l *Library) Search(ctx context.Context, title string) ([]CandidateSummary, error) {
	return l.catalog.SearchByTitle(ctx, strings.TrimSpace(title))
}

// Import adds a catalog movie to the list with no rating or review.
// A movie already on the list yields ErrDuplicateExternalID and leaves the
// store untouched; the unique index catches imports racing past the lookup.
// A catalog entry without a title is treated as a malformed response.
func (l *Library) Import(ctx context.Context, externalID int64) (*models.Movie, error) {
	_, err := l.repo.FindByExternalID(ctx, externalID)
	if err == nil {
		metrics.DuplicateImports.Inc()
		return nil, ErrDuplicateExternalID
	}
	if !errors.Is(err, ErrMovieNotFound) {
		return nil, err
	}

	details, err := l.catalog.FetchByID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(details.Title) == "" {
		return nil, fmt.Errorf("%w: movie %d has no title", ErrCatalogUnavailable, externalID)
	}

	movie := &models.Movie{
		ExternalID:  externalID,
		Title:       details.Title,
		Year:        YearFromReleaseDate(details.ReleaseDate),
		Description: details.Overview,
		ImageURL:    l.PosterURL(details.PosterPath),
	}

	if _, err := l.repo.Insert(ctx, movie); err != nil {
		if errors.Is(err, ErrDuplicateExternalID) {
			metrics.DuplicateImports.Inc()
		}
		return nil, err
	}

	metrics.MoviesImported.Inc()
	l.log.Info("movie imported", "id", movie.ID, "external_id", externalID, "title", movie.Title)
	return movie, nil
}

func (l *Library) Get(ctx context.Context, id int64) (*models.Movie, error) {
	return l.repo.FindByID(ctx, id)
}

// Rate stores a rating and review on an existing movie. Callers validate
// the values first.
func (l *Library) Rate(ctx context.Context, id int64, rating float64, review string) (*models.Movie, error) {
	if math.IsNaN(rating) || rating < 0 || rating > 10 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidRating, rating)
	}

	movie, err := l.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	movie.SetReview(rating, strings.TrimSpace(review))
	if err := l.repo.Update(ctx, movie); err != nil {
		return nil, err
	}

	metrics.MoviesRated.Inc()
	l.log.Info("movie rated", "id", id, "rating", rating)
	return movie, nil
}

func (l *Library) Delete(ctx context.Context, id int64) error {
	if err := l.repo.Delete(ctx, id); err != nil {
		return err
	}
	metrics.MoviesDeleted.Inc()
	l.log.Info("movie deleted", "id", id)
	return nil
}

// PosterURL turns a TMDB poster path into a displayable URL.
func (l *Library) PosterURL(posterPath string) string {
	if posterPath == "" {
		return NoPosterURL
	}
	if !strings.HasPrefix(posterPath, "/") {
		posterPath = "/" + posterPath
	}
	return l.imageBaseURL + posterPath
}

// YearFromReleaseDate takes the part of a release date before the first
// '-'. Dates TMDB leaves blank give 0.
func YearFromReleaseDate(releaseDate string) int {
	first, _, _ := strings.Cut(strings.TrimSpace(releaseDate), "-")
	year, err := strconv.Atoi(first)
	if err != nil {
		return 0
	}
	return year
}
