package authn

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func testBackend(t *testing.T) *LocalBackend {
	t.Helper()
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return NewLocalBackend(map[string]string{"Jane@Example.com": hash})
}

func TestLoginWithPassword(t *testing.T) {
	svc := &Service{Backend: testBackend(t)}

	user, err := svc.LoginWithPassword(context.Background(), "jane@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.Email != "jane@example.com" {
		t.Errorf("email = %q", user.Email)
	}
}

func TestLoginWithPasswordWrongPassword(t *testing.T) {
	svc := &Service{Backend: testBackend(t)}

	_, err := svc.LoginWithPassword(context.Background(), "jane@example.com", "nope")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if KindOf(err) != KindInvalidCredentials {
		t.Errorf("kind = %v", KindOf(err))
	}
}

func TestLoginWithPasswordUnknownUser(t *testing.T) {
	svc := &Service{Backend: testBackend(t)}

	_, err := svc.LoginWithPassword(context.Background(), "ghost@example.com", "s3cret")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestKindOfNetworkError(t *testing.T) {
	err := &NetworkError{Err: errors.New("connection refused")}
	if KindOf(err) != KindNetwork {
		t.Errorf("kind = %v, want network", KindOf(err))
	}
	if KindOf(errors.New("weird")) != KindUnknown {
		t.Error("expected unknown kind")
	}
}

func TestLoginEmitsAuthStateChange(t *testing.T) {
	backend := testBackend(t)
	svc := &Service{Backend: backend}

	var got []*User
	unsub := backend.OnAuthStateChange(func(u *User) { got = append(got, u) })
	defer unsub()

	if _, err := svc.LoginWithPassword(context.Background(), "jane@example.com", "s3cret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := svc.Logout(context.Background()); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("events = %d, want 2", len(got))
	}
	if got[0] == nil || got[0].Email != "jane@example.com" {
		t.Errorf("first event = %+v", got[0])
	}
	if got[1] != nil {
		t.Errorf("second event = %+v, want nil", got[1])
	}
}

func TestLoginWithOAuthRedirect(t *testing.T) {
	backend := testBackend(t)
	backend.OAuthStartPath = "/api/v1/auth/google/start"
	svc := &Service{Backend: backend}

	url, err := svc.LoginWithOAuthRedirect(context.Background(), "google", "https://site.example")
	if err != nil {
		t.Fatalf("oauth redirect: %v", err)
	}
	if !strings.HasPrefix(url, "/api/v1/auth/google/start?") {
		t.Errorf("url = %q", url)
	}
	if !strings.Contains(url, "redirect_to=https%3A%2F%2Fsite.example") {
		t.Errorf("url missing redirect_to: %q", url)
	}
}

func TestLoginWithOAuthUnconfigured(t *testing.T) {
	svc := &Service{Backend: testBackend(t)}
	if _, err := svc.LoginWithOAuthRedirect(context.Background(), "google", "https://x"); err == nil {
		t.Fatal("expected error when oauth is not configured")
	}
}
