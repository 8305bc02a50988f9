package pages

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	"portfolio-backend/internal/admin"
	"portfolio-backend/internal/authn"
	"portfolio-backend/internal/cvs"
	"portfolio-backend/internal/session"
	"portfolio-backend/internal/shared/telemetry"
)

// Flags describes the access requirements of the current page.
type Flags struct {
	RequiresAuth  bool
	RequiresAdmin bool
}

// Login flow messages.
const (
	msgLoginMissing = "Email et mot de passe requis."
	msgLoginSuccess = "Connexion réussie."
	msgLoginBad     = "Email ou mot de passe incorrect."
	msgLoginNetwork = "Erreur de connexion."
	msgAdminLoad    = "Impossible de récupérer les CVs."
)

// Bootstrapper runs the shared page startup sequence: footer year, scroll
// reveals, session watching, nav rendering, guards and form wiring.
type Bootstrapper struct {
	View    View
	Nav     Navigator
	Reveal  RevealPort
	Watcher *session.Watcher
	Guard   authn.Guard
	Login   *authn.Service
	CVs     *cvs.Service
	Admin   *admin.Lister
	Flags   Flags

	LoginPage   string
	HomePage    string
	LandingPage string

	Clock func() time.Time

	mu          sync.Mutex
	logoutBound bool
	loginBound  bool
	cvBound     bool
}

func (b *Bootstrapper) now() time.Time {
	if b.Clock != nil {
		return b.Clock()
	}
	return time.Now()
}

func (b *Bootstrapper) homePage() string {
	if b.HomePage != "" {
		return b.HomePage
	}
	return "index.html"
}

func (b *Bootstrapper) landingPage() string {
	if b.LandingPage != "" {
		return b.LandingPage
	}
	return "portfolio.html"
}

// Run starts the page. The returned stop func detaches the session watcher.
func (b *Bootstrapper) Run(ctx context.Context) (stop func()) {
	b.View.SetFooterYear(b.now().Year())
	b.initReveal()

	return b.Watcher.Watch(ctx, func(u *authn.User) {
		b.onAuthState(ctx, u)
	})
}

// initReveal shows elements as they scroll into view, each at most once.
// Without observer support everything is shown immediately.
func (b *Bootstrapper) initReveal() {
	if b.Reveal == nil {
		return
	}
	ids := b.Reveal.Elements()
	if !b.Reveal.SupportsObserver() {
		for _, id := range ids {
			b.Reveal.Show(id)
		}
		return
	}
	for _, id := range ids {
		var once sync.Once
		b.Reveal.Observe(id, func() {
			once.Do(func() {
				b.Reveal.Show(id)
				b.Reveal.StopObserving(id)
			})
		})
	}
}

func (b *Bootstrapper) onAuthState(ctx context.Context, u *authn.User) {
	state := NavState{
		LoggedIn:  u != nil,
		ShowAdmin: b.Guard.IsAdmin(u),
	}
	if u != nil {
		state.UserEmail = u.Email
	}
	b.View.RenderNav(state)
	b.bindLogoutOnce(ctx)

	if b.Flags.RequiresAuth && !b.Guard.RequireAuth(u, b.Nav, b.loginPage()) {
		return
	}
	if b.Flags.RequiresAdmin && !b.Guard.RequireAdmin(u, b.Nav, b.homePage()) {
		return
	}

	b.bindLoginFormOnce(ctx)
	b.bindCVFormOnce(ctx)

	if b.Flags.RequiresAdmin {
		b.loadAdminTable(ctx)
	}
}

func (b *Bootstrapper) loginPage() string {
	if b.LoginPage != "" {
		return b.LoginPage
	}
	return "login.html"
}

// bindLogoutOnce attaches the logout handler on the first nav render only, so
// re-renders on auth changes don't stack handlers.
func (b *Bootstrapper) bindLogoutOnce(ctx context.Context) {
	b.mu.Lock()
	if b.logoutBound {
		b.mu.Unlock()
		return
	}
	b.logoutBound = true
	b.mu.Unlock()

	b.View.BindLogout(func() {
		if err := b.Login.Logout(ctx); err != nil {
			telemetry.Warn("page.logout.failed", map[string]any{"error": err.Error()})
		}
		b.Nav.Redirect(b.homePage())
	})
}

func (b *Bootstrapper) bindLoginFormOnce(ctx context.Context) {
	form := b.View.LoginForm()
	if form == nil {
		return
	}

	b.mu.Lock()
	if b.loginBound {
		b.mu.Unlock()
		return
	}
	b.loginBound = true
	b.mu.Unlock()

	form.OnSubmit(func(email, password string) {
		if email == "" || password == "" {
			form.ShowError(msgLoginMissing)
			return
		}
		form.SetBusy(true)
		defer form.SetBusy(false)

		if _, err := b.Login.LoginWithPassword(ctx, email, password); err != nil {
			switch authn.KindOf(err) {
			case authn.KindInvalidCredentials:
				form.ShowError(msgLoginBad)
			default:
				form.ShowError(msgLoginNetwork)
			}
			return
		}

		form.ShowSuccess(msgLoginSuccess)
		b.Nav.Redirect(b.postLoginTarget())
	})

	form.OnGoogle(func() {
		target, err := b.Login.LoginWithOAuthRedirect(ctx, "google", b.postLoginTarget())
		if err != nil {
			form.ShowError(msgLoginNetwork)
			return
		}
		b.Nav.Redirect(target)
	})
}

// postLoginTarget honors the next query parameter, falling back to the
// landing page.
func (b *Bootstrapper) postLoginTarget() string {
	next := b.Nav.Query("next")
	if next == "" {
		return b.landingPage()
	}
	if decoded, err := url.QueryUnescape(next); err == nil {
		next = decoded
	}
	return next
}

func (b *Bootstrapper) bindCVFormOnce(ctx context.Context) {
	form := b.View.CVForm()
	if form == nil {
		return
	}

	b.mu.Lock()
	if b.cvBound {
		b.mu.Unlock()
		return
	}
	b.cvBound = true
	b.mu.Unlock()

	form.OnSubmit(func(sub cvs.Submission) {
		form.SetBusy(true)
		defer form.SetBusy(false)

		if _, err := b.CVs.Submit(ctx, sub); err != nil {
			var verr *cvs.ValidationError
			if errors.As(err, &verr) {
				form.ShowError(verr.Message)
				return
			}
			var serr *cvs.SubmitError
			if errors.As(err, &serr) {
				form.ShowError(serr.Message)
				return
			}
			form.ShowError(err.Error())
			return
		}

		form.Reset()
		form.ShowSuccess(cvs.MsgSuccess)
	})
}

func (b *Bootstrapper) loadAdminTable(ctx context.Context) {
	rows, err := b.Admin.Rows(ctx)
	if err != nil {
		telemetry.Error("page.admin_table.failed", map[string]any{"error": err.Error()})
		b.View.SetAdminError(msgAdminLoad)
		return
	}
	b.View.SetAdminTable(admin.RenderTable(rows))
}
