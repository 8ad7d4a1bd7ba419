package handlers

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oliwiasala/movie-list/assets"
	"github.com/oliwiasala/movie-list/middleware"
	"github.com/oliwiasala/movie-list/services"
)

const (
	pageIndex  = "index"
	pageAdd    = "add"
	pageSelect = "select"
	pageEdit   = "edit"
	pageError  = "error"
)

// Pinger reports storage health for /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the movie list pages.
type Handler struct {
	library  *services.Library
	sessions *services.SessionStore
	db       Pinger
	pages    map[string]*template.Template
	log      *slog.Logger
}

func New(library *services.Library, sessions *services.SessionStore, db Pinger, logger *slog.Logger) (*Handler, error) {
	pages, err := loadPages()
	if err != nil {
		return nil, err
	}
	return &Handler{
		library:  library,
		sessions: sessions,
		db:       db,
		pages:    pages,
		log:      logger.With("component", "handlers"),
	}, nil
}

// Routes builds the router for every page of the app.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(h.log))
	r.Use(chimiddleware.Recoverer)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(assets.Static())))
	r.Get("/healthz", h.HealthHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", h.HomeHandler)
	r.Get("/add-movie", h.AddMovieFormHandler)
	r.Post("/add-movie", h.AddMovieHandler)
	r.Get("/find", h.FindMovieHandler)
	r.Get("/edit", h.EditFormHandler)
	r.Post("/edit", h.EditHandler)
	r.Get("/delete", h.DeleteHandler)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.renderStatus(w, r, http.StatusNotFound, "Page not found", "There is nothing at this address.")
	})

	return r
}

type pageData struct {
	Flashes []services.Flash
}

func (h *Handler) render(w http.ResponseWriter, status int, page string, data any) {
	tmpl, ok := h.pages[page]
	if !ok {
		h.log.Error("unknown page", "page", page)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		h.log.Error("failed to render page", "page", page, "error", err)
	}
}

type errorData struct {
	pageData
	Status  int
	Title   string
	Message string
}

func (h *Handler) renderStatus(w http.ResponseWriter, r *http.Request, status int, title, message string) {
	h.render(w, status, pageError, errorData{
		Status:  status,
		Title:   title,
		Message: message,
	})
}

// renderError maps a service error onto the page the user sees.
func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrMovieNotFound):
		h.renderStatus(w, r, http.StatusNotFound, "Movie not found", "That movie is not on your list.")
	case errors.Is(err, services.ErrCatalogUnavailable):
		h.log.Warn("catalog unavailable", "path", r.URL.Path, "error", err)
		h.renderStatus(w, r, http.StatusBadGateway, "Catalog unavailable", "The movie catalog is unavailable right now. Please try again later.")
	case errors.Is(err, context.Canceled):
		// Client went away, nothing to render
	default:
		h.log.Error("request failed", "path", r.URL.Path, "error", err)
		h.renderStatus(w, r, http.StatusInternalServerError, "Something went wrong", "Your request could not be completed.")
	}
}

// popFlashes returns the queued flash messages and clears them.
func (h *Handler) popFlashes(w http.ResponseWriter, r *http.Request) []services.Flash {
	flashes, err := h.sessions.Flashes(w, r)
	if err != nil {
		h.log.Error("failed to clear flashes", "error", err)
	}
	return flashes
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	h.renderStatus(w, r, http.StatusBadRequest, "Bad request", err.Error())
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		h.log.Error("health check failed", "error", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Write([]byte("ok"))
}
