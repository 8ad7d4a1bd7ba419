package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oliwiasala/movie-list/models"
)

// uniqueViolation is the Postgres SQLSTATE for a unique index conflict.
const uniqueViolation = "23505"

// MovieRepository is the persistence contract the Library works against.
type MovieRepository interface {
	Insert(ctx context.Context, movie *models.Movie) (int64, error)
	FindByExternalID(ctx context.Context, externalID int64) (*models.Movie, error)
	FindByID(ctx context.Context, id int64) (*models.Movie, error)
	Update(ctx context.Context, movie *models.Movie) error
	Delete(ctx context.Context, id int64) error
	ListByRatingDesc(ctx context.Context) ([]models.Movie, error)
	UpdateRanks(ctx context.Context, movies []models.Movie) error
}

// MovieStore keeps movies in the Postgres movies table.
type MovieStore struct {
	db *sql.DB
}

func NewMovieStore(db *sql.DB) *MovieStore {
	return &MovieStore{db: db}
}

const movieColumns = `id, external_id, title, year, description, rating, ranking, review, img_url, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovie(row rowScanner) (*models.Movie, error) {
	var (
		m      models.Movie
		rating sql.NullFloat64
		review sql.NullString
	)
	err := row.Scan(&m.ID, &m.ExternalID, &m.Title, &m.Year, &m.Description, &rating, &m.Ranking, &review, &m.ImageURL, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if rating.Valid {
		m.Rating = &rating.Float64
	}
	if review.Valid {
		m.Review = &review.String
	}
	return &m, nil
}

func (s *MovieStore) Insert(ctx context.Context, movie *models.Movie) (int64, error) {
	query := `
		INSERT INTO movies (external_id, title, year, description, rating, ranking, review, img_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err := s.db.QueryRowContext(ctx, query,
		movie.ExternalID, movie.Title, movie.Year, movie.Description,
		movie.Rating, movie.Ranking, movie.Review, movie.ImageURL,
	).Scan(&movie.ID, &movie.CreatedAt, &movie.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, fmt.Errorf("insert movie %d: %w", movie.ExternalID, ErrDuplicateExternalID)
		}
		return 0, fmt.Errorf("failed to insert movie: %w", err)
	}
	return movie.ID, nil
}

func (s *MovieStore) FindByExternalID(ctx context.Context, externalID int64) (*models.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE external_id = $1`
	m, err := scanMovie(s.db.QueryRowContext(ctx, query, externalID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return m, nil
}

func (s *MovieStore) FindByID(ctx context.Context, id int64) (*models.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE id = $1`
	m, err := scanMovie(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return m, nil
}

func (s *MovieStore) Update(ctx context.Context, movie *models.Movie) error {
	query := `
		UPDATE movies
		SET title = $1, year = $2, description = $3, rating = $4, ranking = $5,
			review = $6, img_url = $7, updated_at = CURRENT_TIMESTAMP
		WHERE id = $8
	`
	res, err := s.db.ExecContext(ctx, query,
		movie.Title, movie.Year, movie.Description, movie.Rating, movie.Ranking,
		movie.Review, movie.ImageURL, movie.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update movie %d: %w", movie.ID, err)
	}
	return expectOneRow(res, movie.ID)
}

func (s *MovieStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete movie %d: %w", id, err)
	}
	return expectOneRow(res, id)
}

// ListByRatingDesc returns every movie, best rated first. Unrated movies
// come last and ties keep insertion order.
func (s *MovieStore) ListByRatingDesc(ctx context.Context) ([]models.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies ORDER BY rating DESC NULLS LAST, id ASC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	defer rows.Close()

	movies := []models.Movie{}
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}
		movies = append(movies, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	return movies, nil
}

// UpdateRanks writes the ranking column of every given movie in one transaction.
func (s *MovieStore) UpdateRanks(ctx context.Context, movies []models.Movie) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `UPDATE movies SET ranking = $1 WHERE id = $2`)
	if err != nil {
		return fmt.Errorf("failed to prepare rank update: %w", err)
	}
	defer stmt.Close()

	for _, m := range movies {
		if _, err := stmt.ExecContext(ctx, m.Ranking, m.ID); err != nil {
			return fmt.Errorf("failed to update rank of movie %d: %w", m.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ranks: %w", err)
	}
	return nil
}

// Ping reports whether the database answers.
func (s *MovieStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func expectOneRow(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("movie %d: %w", id, ErrMovieNotFound)
	}
	return nil
}
