package authn

import (
	"net/url"
	"path"
	"strings"
)

// Navigator abstracts the navigation surface so guards stay testable
// headlessly. Redirect is fire-and-forget; a single attempt, no retry.
type Navigator interface {
	// Path returns the current page path.
	Path() string
	// Redirect navigates to target.
	Redirect(target string)
}

// Guard holds the access rules for protected pages.
type Guard struct {
	AdminEmail string
	// HomePage is the fallback file name used for the next parameter when
	// the current path has none.
	HomePage string
}

// IsAdmin reports whether the user's email matches the administrator email,
// case-insensitively. A nil user or missing email is never admin.
func (g Guard) IsAdmin(u *User) bool {
	if u == nil || u.Email == "" || g.AdminEmail == "" {
		return false
	}
	return strings.EqualFold(u.Email, g.AdminEmail)
}

// RequireAuth redirects to redirectTarget with a next parameter when no user
// is present and returns false; with a user it returns true and does nothing.
func (g Guard) RequireAuth(u *User, nav Navigator, redirectTarget string) bool {
	if u != nil {
		return true
	}
	next := path.Base(nav.Path())
	if next == "" || next == "." || next == "/" {
		next = g.homePage()
	}
	nav.Redirect(redirectTarget + "?next=" + url.QueryEscape(next))
	return false
}

// RequireAdmin redirects to redirectTarget and returns false unless the user
// is the administrator.
func (g Guard) RequireAdmin(u *User, nav Navigator, redirectTarget string) bool {
	if g.IsAdmin(u) {
		return true
	}
	nav.Redirect(redirectTarget)
	return false
}

func (g Guard) homePage() string {
	if g.HomePage != "" {
		return g.HomePage
	}
	return "index.html"
}
