package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"portfolio-backend/internal/authn"
)

// stubBackend lets tests control the initial fetch and fire change events.
type stubBackend struct {
	authn.Dispatcher

	mu        sync.Mutex
	user      *authn.User
	err       error
	fetchGate chan struct{} // when non-nil, CurrentSession blocks until closed
}

func (b *stubBackend) CurrentSession(ctx context.Context) (*authn.User, error) {
	b.mu.Lock()
	gate := b.fetchGate
	b.mu.Unlock()
	if gate != nil {
		<-gate
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.user, b.err
}

func (b *stubBackend) OnAuthStateChange(cb func(*authn.User)) func() {
	return b.Subscribe(cb)
}

func (b *stubBackend) SignInWithPassword(ctx context.Context, email, password string) (*authn.User, error) {
	return nil, authn.ErrInvalidCredentials
}

func (b *stubBackend) SignInWithOAuth(ctx context.Context, provider, redirectTo string) (string, error) {
	return "", errors.New("not configured")
}

func (b *stubBackend) SignOut(ctx context.Context) error { return nil }

type delivery struct {
	mu    sync.Mutex
	users []*authn.User
}

func (d *delivery) cb(u *authn.User) {
	d.mu.Lock()
	d.users = append(d.users, u)
	d.mu.Unlock()
}

func (d *delivery) snapshot() []*authn.User {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*authn.User, len(d.users))
	copy(out, d.users)
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestWatchDeliversInitialSession(t *testing.T) {
	backend := &stubBackend{user: &authn.User{ID: "u1", Email: "a@b.c"}}
	w := &Watcher{Backend: backend}
	var d delivery

	cancel := w.Watch(context.Background(), d.cb)
	defer cancel()

	waitFor(t, func() bool { return len(d.snapshot()) == 1 })
	if got := d.snapshot()[0]; got == nil || got.Email != "a@b.c" {
		t.Errorf("initial delivery = %+v", got)
	}
}

func TestWatchFailsOpenOnFetchError(t *testing.T) {
	backend := &stubBackend{err: errors.New("boom")}
	w := &Watcher{Backend: backend}
	var d delivery

	cancel := w.Watch(context.Background(), d.cb)
	defer cancel()

	waitFor(t, func() bool { return len(d.snapshot()) == 1 })
	if got := d.snapshot()[0]; got != nil {
		t.Errorf("expected nil delivery on fetch error, got %+v", got)
	}
}

func TestWatchDeliversChanges(t *testing.T) {
	backend := &stubBackend{}
	w := &Watcher{Backend: backend}
	var d delivery

	cancel := w.Watch(context.Background(), d.cb)
	defer cancel()
	waitFor(t, func() bool { return len(d.snapshot()) == 1 })

	backend.Emit(&authn.User{ID: "u2", Email: "new@b.c"})
	backend.Emit(nil)

	waitFor(t, func() bool { return len(d.snapshot()) == 3 })
	users := d.snapshot()
	if users[1] == nil || users[1].Email != "new@b.c" {
		t.Errorf("second delivery = %+v", users[1])
	}
	if users[2] != nil {
		t.Errorf("third delivery = %+v, want nil", users[2])
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	backend := &stubBackend{}
	w := &Watcher{Backend: backend}
	var d delivery

	cancel := w.Watch(context.Background(), d.cb)
	waitFor(t, func() bool { return len(d.snapshot()) == 1 })

	cancel()
	backend.Emit(&authn.User{ID: "late"})

	time.Sleep(50 * time.Millisecond)
	if n := len(d.snapshot()); n != 1 {
		t.Errorf("deliveries after cancel = %d, want 1", n)
	}
}

func TestCancelBeatsInFlightInitialFetch(t *testing.T) {
	gate := make(chan struct{})
	backend := &stubBackend{user: &authn.User{ID: "slow"}, fetchGate: gate}
	w := &Watcher{Backend: backend}
	var d delivery

	cancel := w.Watch(context.Background(), d.cb)
	cancel()
	close(gate) // initial fetch completes after cancel

	time.Sleep(50 * time.Millisecond)
	if n := len(d.snapshot()); n != 0 {
		t.Errorf("deliveries = %d, want 0", n)
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	backend := &stubBackend{}
	w := &Watcher{Backend: backend}
	var d delivery

	cancel := w.Watch(context.Background(), d.cb)
	cancel()
	cancel()
}
