package services

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/oliwiasala/movie-list/config"
)

func TestSessionFlashRoundTrip(t *testing.T) {
	store, err := NewSessionStore(&config.Config{SessionSecret: "s3cret"})
	if err != nil {
		t.Fatalf("NewSessionStore() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/find?movie_id=603", nil)
	rec := httptest.NewRecorder()
	if err := store.AddFlash(rec, req, FlashError, "The title is already on the list!"); err != nil {
		t.Fatalf("AddFlash() error = %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}

	next := httptest.NewRequest(http.MethodGet, "/add-movie", nil)
	for _, c := range cookies {
		next.AddCookie(c)
	}
	rec = httptest.NewRecorder()

	flashes, err := store.Flashes(rec, next)
	if err != nil {
		t.Fatalf("Flashes() error = %v", err)
	}
	if len(flashes) != 1 {
		t.Fatalf("got %d flashes, want 1", len(flashes))
	}
	if flashes[0].Category != FlashError || flashes[0].Message != "The title is already on the list!" {
		t.Errorf("unexpected flash: %+v", flashes[0])
	}

	// Popping clears the cookie's flashes.
	after := httptest.NewRequest(http.MethodGet, "/add-movie", nil)
	for _, c := range rec.Result().Cookies() {
		after.AddCookie(c)
	}
	if got, _ := store.Flashes(httptest.NewRecorder(), after); len(got) != 0 {
		t.Errorf("flashes not consumed: %+v", got)
	}
}

func TestSessionCookieFromOtherSecretIgnored(t *testing.T) {
	a, _ := NewSessionStore(&config.Config{SessionSecret: "one"})
	b, _ := NewSessionStore(&config.Config{SessionSecret: "two"})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if err := a.AddFlash(rec, req, FlashSuccess, "hello"); err != nil {
		t.Fatal(err)
	}

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		next.AddCookie(c)
	}
	if got, err := b.Flashes(httptest.NewRecorder(), next); err != nil || len(got) != 0 {
		t.Errorf("foreign cookie decoded: %+v, err %v", got, err)
	}
}

func TestDeriveKeyDeterministic(t *testing.T) {
	k1, _ := deriveKey("secret", "info", 32)
	k2, _ := deriveKey("secret", "info", 32)
	k3, _ := deriveKey("secret", "other", 32)

	if string(k1) != string(k2) {
		t.Error("same inputs should derive the same key")
	}
	if string(k1) == string(k3) {
		t.Error("different info should derive different keys")
	}
	if len(k1) != 32 {
		t.Errorf("key length = %d, want 32", len(k1))
	}
}
