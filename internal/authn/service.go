package authn

import (
	"context"
	"fmt"

	"portfolio-backend/internal/shared/telemetry"
)

// Service is the login flow over a Backend. It classifies failures so the
// caller can render the right message and re-enable its submit control.
type Service struct {
	Backend Backend
}

// LoginWithPassword authenticates and returns the user. The returned error
// carries its Kind (invalid credentials, network, unknown) via KindOf.
func (s *Service) LoginWithPassword(ctx context.Context, email, password string) (*User, error) {
	user, err := s.Backend.SignInWithPassword(ctx, email, password)
	if err != nil {
		telemetry.Warn("auth.login.failed", map[string]any{
			"kind": KindOf(err).String(),
		})
		return nil, fmt.Errorf("sign in: %w", err)
	}
	return user, nil
}

// LoginWithOAuthRedirect asks the backend for a redirect-based OAuth flow and
// returns the URL to navigate to. origin is passed as the callback target so
// the flow works identically across deployment environments.
func (s *Service) LoginWithOAuthRedirect(ctx context.Context, provider, origin string) (string, error) {
	authURL, err := s.Backend.SignInWithOAuth(ctx, provider, origin)
	if err != nil {
		return "", fmt.Errorf("oauth %s: %w", provider, err)
	}
	return authURL, nil
}

// Logout terminates the session; failures propagate to the caller.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.Backend.SignOut(ctx); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}
