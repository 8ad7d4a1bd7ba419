package movietest

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/goccy/go-json"

	"github.com/oliwiasala/movie-list/services"
)

// Catalog is a fake TMDB API serving a fixed set of movies.
type Catalog struct {
	*httptest.Server

	mu      sync.Mutex
	movies  map[int64]services.MovieDetails
	failing bool

	detailRequests int
	searchRequests int
}

// NewCatalog starts a fake TMDB. Close it when done.
func NewCatalog(movies ...services.MovieDetails) *Catalog {
	c := &Catalog{movies: make(map[int64]services.MovieDetails)}
	for _, m := range movies {
		c.movies[m.ID] = m
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/search/movie", c.search)
	mux.HandleFunc("/movie/", c.details)
	c.Server = httptest.NewServer(mux)
	return c
}

// SetFailing makes every subsequent request answer 503.
func (c *Catalog) SetFailing(failing bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failing = failing
}

func (c *Catalog) search(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.searchRequests++
	if c.failing {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}

	query := strings.ToLower(r.URL.Query().Get("query"))
	results := []services.CandidateSummary{}
	for _, m := range c.movies {
		if strings.Contains(strings.ToLower(m.Title), query) {
			results = append(results, services.CandidateSummary{
				ID:          m.ID,
				Title:       m.Title,
				ReleaseDate: m.ReleaseDate,
				Overview:    m.Overview,
				PosterPath:  m.PosterPath,
			})
		}
	}
	writeJSON(w, map[string]any{"page": 1, "results": results})
}

func (c *Catalog) details(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.detailRequests++
	if c.failing {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}

	id, err := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/movie/"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	m, ok := c.movies[id]
	if !ok {
		http.NotFound(w, r)
		return
	}

	var poster any
	if m.PosterPath != "" {
		poster = m.PosterPath
	}
	writeJSON(w, map[string]any{
		"id":           m.ID,
		"title":        m.Title,
		"release_date": m.ReleaseDate,
		"overview":     m.Overview,
		"poster_path":  poster,
	})
}

// Requests returns how many search and detail requests were served.
func (c *Catalog) Requests() (search, details int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.searchRequests, c.detailRequests
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
