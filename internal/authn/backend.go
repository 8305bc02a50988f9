package authn

import (
	"context"
	"sync"
)

// Backend is the auth/session service contract. Implementations are clients
// of an external service or the built-in credential store; their internals
// are out of scope here.
type Backend interface {
	// CurrentSession returns the current user, or nil when logged out.
	CurrentSession(ctx context.Context) (*User, error)
	// OnAuthStateChange registers cb for subsequent auth-state changes and
	// returns an unsubscribe func.
	OnAuthStateChange(cb func(*User)) (unsubscribe func())
	// SignInWithPassword authenticates with email/password credentials.
	SignInWithPassword(ctx context.Context, email, password string) (*User, error)
	// SignInWithOAuth returns the URL to navigate to for a redirect-based
	// OAuth flow; redirectTo is the caller's origin.
	SignInWithOAuth(ctx context.Context, provider, redirectTo string) (string, error)
	// SignOut terminates the session.
	SignOut(ctx context.Context) error
}

// Dispatcher fans auth-state change events out to subscribers. Backends embed
// one and emit on sign-in/out.
type Dispatcher struct {
	mu   sync.Mutex
	subs map[int]func(*User)
	next int
}

// Subscribe registers cb and returns an unsubscribe func. Unsubscribing twice
// is harmless.
func (d *Dispatcher) Subscribe(cb func(*User)) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.subs == nil {
		d.subs = make(map[int]func(*User))
	}
	id := d.next
	d.next++
	d.subs[id] = cb
	return func() {
		d.mu.Lock()
		delete(d.subs, id)
		d.mu.Unlock()
	}
}

// Emit delivers the new state to every subscriber.
func (d *Dispatcher) Emit(u *User) {
	d.mu.Lock()
	cbs := make([]func(*User), 0, len(d.subs))
	for _, cb := range d.subs {
		cbs = append(cbs, cb)
	}
	d.mu.Unlock()
	for _, cb := range cbs {
		cb(u)
	}
}
