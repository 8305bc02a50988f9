// Package session delivers auth-state changes to a single callback,
// including the state at subscription time.
package session

import (
	"context"
	"sync"

	"portfolio-backend/internal/authn"
	"portfolio-backend/internal/shared/telemetry"
)

// Watcher watches the auth backend's session state.
type Watcher struct {
	Backend authn.Backend
}

// Watch fetches the current session once and subscribes to subsequent
// auth-state changes, invoking cb with the user or nil for each. The initial
// fetch failing delivers nil: the page degrades to logged out rather than
// breaking.
//
// After the returned cancel func runs, cb is never invoked again, not even
// by an initial fetch still in flight. The initial fetch and the change
// stream are independent sources; no ordering is guaranteed between them and
// the last delivered value wins.
func (w *Watcher) Watch(ctx context.Context, cb func(*authn.User)) (cancel func()) {
	sub := &subscription{cb: cb, active: true}

	go func() {
		user, err := w.Backend.CurrentSession(ctx)
		if err != nil {
			telemetry.Warn("session.initial_fetch_failed", map[string]any{
				"err": err.Error(),
			})
			user = nil
		}
		sub.deliver(user)
	}()

	unsubscribe := w.Backend.OnAuthStateChange(sub.deliver)

	return func() {
		if sub.cancel() {
			unsubscribe()
		}
	}
}

// subscription serializes delivery against cancellation so a late initial
// fetch cannot race past cancel.
type subscription struct {
	mu     sync.Mutex
	cb     func(*authn.User)
	active bool
}

func (s *subscription) deliver(u *authn.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}
	s.cb(u)
}

func (s *subscription) cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return false
	}
	s.active = false
	return true
}
