package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/avillega/rimario/internal/errs"
	"github.com/avillega/rimario/internal/model"
)

func signedToken(t *testing.T, sub string, ttl time.Duration) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   sub,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestClient_RegisterAdoptsSession(t *testing.T) {
	t.Parallel()
	tok := signedToken(t, "user-1", time.Hour)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/auth/register" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var req authRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]any{
				"id": "user-1", "email": req.Email, "username": req.Username,
				"created_at": "2024-05-01T12:30:00Z",
			},
			"access_token": tok,
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	u, err := c.Register(context.Background(), "ana@example.com", "pwd", "ana")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.ID != "user-1" || u.CreatedAt.IsZero() {
		t.Fatalf("bad user: %+v", u)
	}
	if !c.Authenticated() {
		t.Fatalf("session not adopted")
	}
	got, exp := c.Token()
	if got != tok || !exp.After(time.Now()) {
		t.Fatalf("bad persisted token state: %q exp=%v", got, exp)
	}
}

func TestClient_StatusErrorMapping(t *testing.T) {
	t.Parallel()
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, errs.ErrUnauthorized},
		{http.StatusNotFound, errs.ErrNotFound},
		{http.StatusConflict, errs.ErrAlreadyExists},
		{http.StatusTooManyRequests, errs.ErrRateLimited},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tc.status)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "nope"})
		}))
		c := New(srv.URL)
		_, err := c.Login(context.Background(), "a@b.c", "x")
		if !errors.Is(err, tc.want) {
			t.Errorf("status %d mapped to %v, want %v", tc.status, err, tc.want)
		}
		srv.Close()
	}
}

func TestClient_TransportErrorIsBackendUnavailable(t *testing.T) {
	t.Parallel()
	c := New("http://127.0.0.1:1") // nothing listens here
	_, err := c.Login(context.Background(), "a@b.c", "x")
	if !errors.Is(err, errs.ErrBackendUnavailable) {
		t.Fatalf("want ErrBackendUnavailable, got %v", err)
	}
}

func TestClient_LogoutAlwaysDropsSession(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.RestoreSession(signedToken(t, "user-1", time.Hour))
	if !c.Authenticated() {
		t.Fatalf("restore failed")
	}

	if err := c.Logout(context.Background()); err == nil {
		t.Fatalf("want server error returned")
	}
	if c.Authenticated() {
		t.Fatalf("session survived failed logout")
	}
}

func TestClient_RequireAuthShortCircuits(t *testing.T) {
	t.Parallel()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		_ = json.NewEncoder(w).Encode([]favoritePayload{})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Favorites().List(context.Background())
	if !errors.Is(err, errs.ErrBackendUnavailable) {
		t.Fatalf("want ErrBackendUnavailable without a session, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("unauthenticated call hit the network")
	}

	// an expired token is as good as none
	c.RestoreSession(signedToken(t, "user-1", -time.Minute))
	if _, err := c.Favorites().List(context.Background()); !errors.Is(err, errs.ErrBackendUnavailable) {
		t.Fatalf("want ErrBackendUnavailable with expired token, got %v", err)
	}
}

func TestFavorites_FindByWord(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Query().Get("word") {
		case "amor":
			_ = json.NewEncoder(w).Encode([]favoritePayload{{
				ID: "f1", Word: "amor",
				Rhymes:    []model.Rhyme{{Word: "flor", Score: 95}},
				CreatedAt: Timestamp{Time: time.Now()},
			}})
		default:
			_ = json.NewEncoder(w).Encode([]favoritePayload{})
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.RestoreSession(signedToken(t, "user-1", time.Hour))
	favs := c.Favorites()

	fav, err := favs.FindByWord(context.Background(), "amor")
	if err != nil {
		t.Fatalf("FindByWord: %v", err)
	}
	if fav.ID != "f1" || len(fav.Rhymes) != 1 {
		t.Fatalf("bad favorite: %+v", fav)
	}

	if _, err := favs.FindByWord(context.Background(), "nada"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("want ErrNotFound on empty result, got %v", err)
	}
}

func TestFavorites_RemoveAbsentIsNoop(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "not found"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.RestoreSession(signedToken(t, "user-1", time.Hour))
	if err := c.Favorites().Remove(context.Background(), "missing"); err != nil {
		t.Fatalf("Remove absent must succeed: %v", err)
	}
	if err := c.Notes().Delete(context.Background(), "missing"); err != nil {
		t.Fatalf("Delete absent must succeed: %v", err)
	}
}

func TestNotes_CreateAndUpdate(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost:
			var in model.NoteInput
			_ = json.NewDecoder(r.Body).Decode(&in)
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(notePayload{
				ID: "n1", Title: in.Title, Content: in.Content,
				CreatedAt: Timestamp{Time: time.Now()},
				UpdatedAt: Timestamp{Time: time.Now()},
			})
		case r.Method == http.MethodPatch:
			var upd model.NoteUpdate
			_ = json.NewDecoder(r.Body).Decode(&upd)
			if upd.Title != nil || upd.IsFavorite == nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			_ = json.NewEncoder(w).Encode(notePayload{
				ID: "n1", Title: "t", IsFavorite: *upd.IsFavorite,
				CreatedAt: Timestamp{Time: time.Now()},
				UpdatedAt: Timestamp{Time: time.Now()},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.RestoreSession(signedToken(t, "user-1", time.Hour))
	notes := c.Notes()

	n, err := notes.Create(context.Background(), model.NoteInput{Title: "t", Content: "c"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if n.ID != "n1" || n.Title != "t" {
		t.Fatalf("bad note: %+v", n)
	}

	// nil fields must stay off the wire so the server can tell them apart
	fav := true
	n, err = notes.Update(context.Background(), "n1", model.NoteUpdate{IsFavorite: &fav})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !n.IsFavorite {
		t.Fatalf("favorite flag lost: %+v", n)
	}
}
