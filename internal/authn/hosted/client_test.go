package hosted

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"portfolio-backend/internal/authn"
)

func TestSignInWithPassword(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/token" || r.URL.Query().Get("grant_type") != "password" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL)
		}
		if r.Header.Get("apikey") != "test-key" {
			t.Errorf("missing apikey header")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok","user":{"id":"u1","email":"jane@example.com","user_metadata":{"full_name":"Jane Doe"}}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "test-key")

	var events []*authn.User
	unsub := c.OnAuthStateChange(func(u *authn.User) { events = append(events, u) })
	defer unsub()

	user, err := c.SignInWithPassword(context.Background(), "jane@example.com", "s3cret")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if user.ID != "u1" || user.Name != "Jane Doe" {
		t.Errorf("user = %+v", user)
	}
	if len(events) != 1 || events[0] == nil {
		t.Errorf("events = %+v", events)
	}
}

func TestOnAuthStateChangeUnsubscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"tok","user":{"id":"u1"}}`))
	}))
	defer srv.Close()

	var c authn.Backend = New(srv.URL, "k")

	var events int
	unsub := c.OnAuthStateChange(func(*authn.User) { events++ })
	unsub()

	if _, err := c.SignInWithPassword(context.Background(), "e", "p"); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if events != 0 {
		t.Errorf("events after unsubscribe = %d, want 0", events)
	}
}

func TestSignInWithPasswordRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := New(srv.URL, "k")
	_, err := c.SignInWithPassword(context.Background(), "jane@example.com", "wrong")
	if !errors.Is(err, authn.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSignInWithPasswordNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := New(srv.URL, "k")
	_, err := c.SignInWithPassword(context.Background(), "jane@example.com", "pw")
	if authn.KindOf(err) != authn.KindNetwork {
		t.Fatalf("kind = %v, want network (%v)", authn.KindOf(err), err)
	}
}

func TestCurrentSessionRefreshesUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			w.Write([]byte(`{"access_token":"tok","user":{"id":"u1","email":"old@example.com"}}`))
		case "/user":
			if got := r.Header.Get("Authorization"); got != "Bearer tok" {
				t.Errorf("authorization = %q", got)
			}
			w.Write([]byte(`{"id":"u1","email":"fresh@example.com"}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "k")
	if _, err := c.SignInWithPassword(context.Background(), "e", "p"); err != nil {
		t.Fatalf("sign in: %v", err)
	}

	user, err := c.CurrentSession(context.Background())
	if err != nil {
		t.Fatalf("current session: %v", err)
	}
	if user == nil || user.Email != "fresh@example.com" {
		t.Errorf("user = %+v", user)
	}
}

func TestCurrentSessionExpiredToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			w.Write([]byte(`{"access_token":"tok","user":{"id":"u1"}}`))
		case "/user":
			http.Error(w, "expired", http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "k")
	if _, err := c.SignInWithPassword(context.Background(), "e", "p"); err != nil {
		t.Fatalf("sign in: %v", err)
	}

	user, err := c.CurrentSession(context.Background())
	if err != nil {
		t.Fatalf("current session: %v", err)
	}
	if user != nil {
		t.Errorf("expected nil user after expiry, got %+v", user)
	}
}

func TestSignOutClearsStateEvenOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			w.Write([]byte(`{"access_token":"tok","user":{"id":"u1"}}`))
		case "/logout":
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "k")
	if _, err := c.SignInWithPassword(context.Background(), "e", "p"); err != nil {
		t.Fatalf("sign in: %v", err)
	}

	if err := c.SignOut(context.Background()); err == nil {
		t.Error("expected error from failing logout")
	}

	user, err := c.CurrentSession(context.Background())
	if err != nil {
		t.Fatalf("current session: %v", err)
	}
	if user != nil {
		t.Errorf("expected local session cleared, got %+v", user)
	}
}

func TestSignInWithOAuthURL(t *testing.T) {
	c := New("https://auth.example/auth/v1/", "k")

	u, err := c.SignInWithOAuth(context.Background(), "google", "https://site.example/portfolio.html")
	if err != nil {
		t.Fatalf("oauth: %v", err)
	}
	if !strings.HasPrefix(u, "https://auth.example/auth/v1/authorize?") {
		t.Errorf("url = %q", u)
	}
	if !strings.Contains(u, "provider=google") || !strings.Contains(u, "redirect_to=https%3A%2F%2Fsite.example%2Fportfolio.html") {
		t.Errorf("url missing params: %q", u)
	}
}
