package services

import (
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/sessions"
	"golang.org/x/crypto/hkdf"

	"github.com/oliwiasala/movie-list/config"
)

const sessionName = "movie-list-session"

// Flash categories, matching the alert styles in the templates.
const (
	FlashError   = "error"
	FlashSuccess = "success"
)

type Flash struct {
	Category string
	Message  string
}

// SessionStore keeps flash messages in a signed, encrypted cookie.
type SessionStore struct {
	store *sessions.CookieStore
}

func NewSessionStore(cfg *config.Config) (*SessionStore, error) {
	hashKey, err := deriveKey(cfg.SessionSecret, "movie-list session hash", 64)
	if err != nil {
		return nil, err
	}
	blockKey, err := deriveKey(cfg.SessionSecret, "movie-list session block", 32)
	if err != nil {
		return nil, err
	}

	store := sessions.NewCookieStore(hashKey, blockKey)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}

	return &SessionStore{store: store}, nil
}

// deriveKey stretches the configured secret into a key of the given size.
func deriveKey(secret, info string, size int) ([]byte, error) {
	key := make([]byte, size)
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(info))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("failed to derive session key: %w", err)
	}
	return key, nil
}

func (s *SessionStore) Get(r *http.Request) (*sessions.Session, error) {
	return s.store.Get(r, sessionName)
}

// AddFlash queues a message for the next rendered page.
func (s *SessionStore) AddFlash(w http.ResponseWriter, r *http.Request, category, message string) error {
	session, err := s.Get(r)
	if err != nil && session == nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	session.AddFlash(message, category)
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Flashes pops all queued messages. A cookie that no longer decodes, e.g.
// after a secret rotation, is treated as empty. The messages are returned
// even when clearing them from the cookie fails.
func (s *SessionStore) Flashes(w http.ResponseWriter, r *http.Request) ([]Flash, error) {
	session, _ := s.Get(r)
	if session == nil {
		return nil, nil
	}

	var flashes []Flash
	for _, category := range []string{FlashError, FlashSuccess} {
		for _, v := range session.Flashes(category) {
			if msg, ok := v.(string); ok {
				flashes = append(flashes, Flash{Category: category, Message: msg})
			}
		}
	}

	if len(flashes) > 0 {
		if err := session.Save(r, w); err != nil {
			return flashes, fmt.Errorf("failed to save session: %w", err)
		}
	}
	return flashes, nil
}
