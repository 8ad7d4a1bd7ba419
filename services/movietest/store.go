// Package movietest provides an in-memory MovieRepository for tests.
package movietest

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/oliwiasala/movie-list/models"
	"github.com/oliwiasala/movie-list/services"
)

// Store mirrors MovieStore semantics: unique external ids, unrated movies
// sorted last, ties broken by id.
type Store struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]models.Movie

	// Err, when set, is returned by every call. Use SetErr once requests
	// may be in flight.
	Err error

	Inserts int
	Updates int
}

var _ services.MovieRepository = (*Store)(nil)

func NewStore() *Store {
	return &Store{rows: make(map[int64]models.Movie)}
}

func (s *Store) Insert(ctx context.Context, movie *models.Movie) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}

	for _, m := range s.rows {
		if m.ExternalID == movie.ExternalID {
			return 0, fmt.Errorf("insert movie %d: %w", movie.ExternalID, services.ErrDuplicateExternalID)
		}
	}

	s.nextID++
	movie.ID = s.nextID
	movie.CreatedAt = time.Now()
	movie.UpdatedAt = movie.CreatedAt
	s.rows[movie.ID] = clone(*movie)
	s.Inserts++
	return movie.ID, nil
}

func (s *Store) FindByExternalID(ctx context.Context, externalID int64) (*models.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	for _, m := range s.rows {
		if m.ExternalID == externalID {
			c := clone(m)
			return &c, nil
		}
	}
	return nil, services.ErrMovieNotFound
}

func (s *Store) FindByID(ctx context.Context, id int64) (*models.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	m, ok := s.rows[id]
	if !ok {
		return nil, services.ErrMovieNotFound
	}
	c := clone(m)
	return &c, nil
}

func (s *Store) Update(ctx context.Context, movie *models.Movie) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	if _, ok := s.rows[movie.ID]; !ok {
		return fmt.Errorf("movie %d: %w", movie.ID, services.ErrMovieNotFound)
	}
	movie.UpdatedAt = time.Now()
	s.rows[movie.ID] = clone(*movie)
	s.Updates++
	return nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	if _, ok := s.rows[id]; !ok {
		return fmt.Errorf("movie %d: %w", id, services.ErrMovieNotFound)
	}
	delete(s.rows, id)
	return nil
}

func (s *Store) ListByRatingDesc(ctx context.Context) ([]models.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	movies := make([]models.Movie, 0, len(s.rows))
	for _, m := range s.rows {
		movies = append(movies, clone(m))
	}
	slices.SortFunc(movies, compareByRating)
	return movies, nil
}

func (s *Store) UpdateRanks(ctx context.Context, movies []models.Movie) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	for _, m := range movies {
		row, ok := s.rows[m.ID]
		if !ok {
			return fmt.Errorf("movie %d: %w", m.ID, services.ErrMovieNotFound)
		}
		row.Ranking = m.Ranking
		s.rows[m.ID] = row
	}
	return nil
}

// SetErr sets or clears the error returned by every call.
func (s *Store) SetErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Err = err
}

// Ping fails with Err when it is set.
func (s *Store) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Err
}

// Len reports the number of stored movies.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

// Put stores a movie as-is, assigning an id when it has none.
func (s *Store) Put(movie models.Movie) models.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()
	if movie.ID == 0 {
		s.nextID++
		movie.ID = s.nextID
	} else if movie.ID > s.nextID {
		s.nextID = movie.ID
	}
	s.rows[movie.ID] = clone(movie)
	return movie
}

func compareByRating(a, b models.Movie) int {
	switch {
	case a.Rating == nil && b.Rating == nil:
	case a.Rating == nil:
		return 1
	case b.Rating == nil:
		return -1
	default:
		if c := cmp.Compare(*b.Rating, *a.Rating); c != 0 {
			return c
		}
	}
	return cmp.Compare(a.ID, b.ID)
}

func clone(m models.Movie) models.Movie {
	if m.Rating != nil {
		r := *m.Rating
		m.Rating = &r
	}
	if m.Review != nil {
		r := *m.Review
		m.Review = &r
	}
	return m
}
