package authn

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
)

// LocalBackend is an in-process Backend holding bcrypt-hashed credentials.
// It backs small deployments without a hosted auth service and doubles as
// the test fake, the same way the in-memory repos do for persistence.
type LocalBackend struct {
	Dispatcher

	// OAuthStartPath is the application path starting the redirect-based
	// OAuth flow; empty means OAuth is not configured.
	OAuthStartPath string

	mu      sync.Mutex
	creds   map[string]string // lowercased email -> bcrypt hash
	current *User
}

// NewLocalBackend builds a backend from email -> bcrypt-hash pairs.
func NewLocalBackend(creds map[string]string) *LocalBackend {
	normalized := make(map[string]string, len(creds))
	for email, hash := range creds {
		normalized[strings.ToLower(strings.TrimSpace(email))] = hash
	}
	return &LocalBackend{creds: normalized}
}

// CurrentSession returns the signed-in user, or nil when logged out.
func (b *LocalBackend) CurrentSession(ctx context.Context) (*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return nil, nil
	}
	u := *b.current
	return &u, nil
}

// OnAuthStateChange subscribes to sign-in/out events.
func (b *LocalBackend) OnAuthStateChange(cb func(*User)) func() {
	return b.Subscribe(cb)
}

// SignInWithPassword verifies credentials against the local store.
func (b *LocalBackend) SignInWithPassword(ctx context.Context, email, password string) (*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := strings.ToLower(strings.TrimSpace(email))
	b.mu.Lock()
	hash, ok := b.creds[key]
	b.mu.Unlock()
	if !ok || !checkPassword(hash, password) {
		return nil, ErrInvalidCredentials
	}

	user := &User{ID: "local:" + key, Email: strings.TrimSpace(email)}
	b.setCurrent(user)
	return user, nil
}

// SignInWithOAuth returns the application URL that starts the provider flow.
func (b *LocalBackend) SignInWithOAuth(ctx context.Context, provider, redirectTo string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if b.OAuthStartPath == "" {
		return "", fmt.Errorf("oauth provider %s not configured", provider)
	}
	q := url.Values{}
	q.Set("provider", provider)
	if redirectTo != "" {
		q.Set("redirect_to", redirectTo)
	}
	return b.OAuthStartPath + "?" + q.Encode(), nil
}

// SignOut clears the session.
func (b *LocalBackend) SignOut(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.setCurrent(nil)
	return nil
}

// SetSession installs a session directly; the OAuth callback and tests use it.
func (b *LocalBackend) SetSession(u *User) {
	b.setCurrent(u)
}

func (b *LocalBackend) setCurrent(u *User) {
	b.mu.Lock()
	b.current = u
	b.mu.Unlock()
	b.Emit(u)
}

var _ Backend = (*LocalBackend)(nil)
