//go:build integration

package services_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/oliwiasala/movie-list/database"
	"github.com/oliwiasala/movie-list/models"
	"github.com/oliwiasala/movie-list/services"
)

// Run with: go test -tags integration ./services/...

func skipIfNoDocker(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if exec.CommandContext(ctx, "docker", "info").Run() != nil {
		t.Skip("Skipping test: Docker not available")
	}
}

// startPostgres runs a throwaway Postgres and returns a migrated connection.
func startPostgres(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	skipIfNoDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "movies",
				"POSTGRES_PASSWORD": "movies",
				"POSTGRES_DB":       "movies",
			},
			// Postgres restarts once after initdb
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start Postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatal(err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatal(err)
	}

	dsn := fmt.Sprintf("postgres://movies:movies@%s:%s/movies?sslmode=disable", host, port.Port())
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if err := database.RunMigrations(ctx, db); err != nil {
		t.Fatalf("RunMigrations() error = %v", err)
	}
	// Migrations are idempotent.
	if err := database.RunMigrations(ctx, db); err != nil {
		t.Fatalf("second RunMigrations() error = %v", err)
	}
	return db
}

func ptr[T any](v T) *T { return &v }

func TestMovieStoreIntegration(t *testing.T) {
	db := startPostgres(t)
	store := services.NewMovieStore(db)
	ctx := context.Background()

	insert := func(externalID int64, title string) *models.Movie {
		t.Helper()
		m := &models.Movie{ExternalID: externalID, Title: title, Year: 2000, Description: "d", ImageURL: services.NoPosterURL}
		if _, err := store.Insert(ctx, m); err != nil {
			t.Fatalf("Insert(%s) error = %v", title, err)
		}
		return m
	}

	a := insert(10, "Alpha")
	b := insert(20, "Beta")
	c := insert(30, "Gamma")
	d := insert(40, "Delta")

	t.Run("duplicate external id", func(t *testing.T) {
		_, err := store.Insert(ctx, &models.Movie{ExternalID: 10, Title: "Again", Description: "x", ImageURL: "x"})
		if !errors.Is(err, services.ErrDuplicateExternalID) {
			t.Errorf("error = %v, want ErrDuplicateExternalID", err)
		}
	})

	t.Run("find", func(t *testing.T) {
		got, err := store.FindByExternalID(ctx, 20)
		if err != nil || got.ID != b.ID || got.Rating != nil || got.Review != nil {
			t.Errorf("FindByExternalID(20) = %+v, %v", got, err)
		}
		if _, err := store.FindByID(ctx, 9999); !errors.Is(err, services.ErrMovieNotFound) {
			t.Errorf("FindByID(missing) error = %v", err)
		}
	})

	t.Run("ordering", func(t *testing.T) {
		a.SetReview(7, "good")
		b.SetReview(9, "great")
		c.SetReview(7, "also good")
		for _, m := range []*models.Movie{a, b, c} {
			if err := store.Update(ctx, m); err != nil {
				t.Fatal(err)
			}
		}

		movies, err := store.ListByRatingDesc(ctx)
		if err != nil {
			t.Fatal(err)
		}
		want := []int64{b.ID, a.ID, c.ID, d.ID}
		if len(movies) != len(want) {
			t.Fatalf("got %d movies, want %d", len(movies), len(want))
		}
		for i, id := range want {
			if movies[i].ID != id {
				t.Errorf("position %d = %d (%s), want %d", i, movies[i].ID, movies[i].Title, id)
			}
		}
	})

	t.Run("ranks", func(t *testing.T) {
		movies, _ := store.ListByRatingDesc(ctx)
		services.AssignRanks(movies)
		if err := store.UpdateRanks(ctx, movies); err != nil {
			t.Fatal(err)
		}
		got, _ := store.FindByID(ctx, d.ID)
		if got.Ranking != 4 {
			t.Errorf("unrated movie ranking = %d, want 4", got.Ranking)
		}
	})

	t.Run("rating out of range rejected by schema", func(t *testing.T) {
		bad := *d
		bad.Rating = ptr(11.0)
		if err := store.Update(ctx, &bad); err == nil {
			t.Error("expected check constraint violation")
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := store.Delete(ctx, c.ID); err != nil {
			t.Fatal(err)
		}
		if err := store.Delete(ctx, c.ID); !errors.Is(err, services.ErrMovieNotFound) {
			t.Errorf("second Delete() error = %v", err)
		}
		if err := store.Update(ctx, c); !errors.Is(err, services.ErrMovieNotFound) {
			t.Errorf("Update(deleted) error = %v", err)
		}
	})

	t.Run("long title", func(t *testing.T) {
		title := strings.Repeat("Long title ", 40)
		m := &models.Movie{ExternalID: 50, Title: title, Description: "d", ImageURL: services.NoPosterURL}
		if _, err := store.Insert(ctx, m); err != nil {
			t.Fatalf("Insert(long title) error = %v", err)
		}
		got, err := store.FindByID(ctx, m.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got.Title != title {
			t.Errorf("title truncated to %d chars", len(got.Title))
		}
		if err := store.Delete(ctx, m.ID); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("ping", func(t *testing.T) {
		if err := store.Ping(ctx); err != nil {
			t.Errorf("Ping() error = %v", err)
		}
	})
}
