// Package pages wires a rendered page together: session watching, nav state,
// guards, form handling and scroll reveals. The page surface itself sits
// behind the View and Navigator ports so the flows stay testable.
package pages

import (
	"portfolio-backend/internal/authn"
	"portfolio-backend/internal/cvs"
)

// NavState is what the navigation bar needs to render.
type NavState struct {
	LoggedIn  bool
	UserEmail string
	ShowAdmin bool
}

// FormControls is the shared surface of a page form.
type FormControls interface {
	// SetBusy toggles the submit control while a request is in flight.
	SetBusy(busy bool)
	// ShowError displays an inline error message.
	ShowError(msg string)
	// ShowSuccess displays an inline success message.
	ShowSuccess(msg string)
	// Reset clears every field.
	Reset()
}

// LoginFormView is the login page's form.
type LoginFormView interface {
	FormControls
	// OnSubmit registers the email/password submit handler.
	OnSubmit(fn func(email, password string))
	// OnGoogle registers the Google sign-in button handler.
	OnGoogle(fn func())
}

// CVFormView is the public CV submission form.
type CVFormView interface {
	FormControls
	// OnSubmit registers the submit handler with the collected fields.
	OnSubmit(fn func(sub cvs.Submission))
}

// View is the rendered page. Accessors return nil when the page does not
// carry that element.
type View interface {
	SetFooterYear(year int)
	RenderNav(state NavState)
	// BindLogout registers the logout control's click handler.
	BindLogout(fn func())
	LoginForm() LoginFormView
	CVForm() CVFormView
	// SetAdminError shows an inline error on the admin page.
	SetAdminError(msg string)
	// SetAdminTable replaces the admin table body with rendered rows.
	SetAdminTable(html string)
}

// RevealPort drives scroll-reveal animations.
type RevealPort interface {
	// Elements returns the ids of reveal candidates on the page.
	Elements() []string
	// SupportsObserver reports whether visibility observation is available.
	// When it is not, every element is shown immediately.
	SupportsObserver() bool
	// Observe registers visible to fire when the element enters the viewport.
	Observe(id string, visible func())
	// StopObserving detaches the observer from the element.
	StopObserving(id string)
	// Show makes the element visible.
	Show(id string)
}

// Navigator extends the guard's navigation contract with query access.
type Navigator interface {
	authn.Navigator
	// Query returns the named query parameter of the current location.
	Query(name string) string
}
