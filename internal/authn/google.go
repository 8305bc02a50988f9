package authn

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	sharedauth "portfolio-backend/internal/shared/auth"
	"portfolio-backend/internal/shared/server/middleware"
	"portfolio-backend/internal/shared/server/respond"
)

// GoogleService handles the redirect-based Google OAuth flow. On success it
// issues a session cookie and navigates back to the caller's origin.
type GoogleService struct {
	oauthConfig *oauth2.Config
	sessions    *sharedauth.Sessions
	backend     *LocalBackend
	uiRedirect  string
	stateTTL    time.Duration
	stateStore  *stateStore
}

// NewGoogleService builds a GoogleService. uiRedirect is the default page to
// land on after the callback when the start request carried no redirect_to.
func NewGoogleService(clientID, clientSecret, redirectURL, uiRedirect string, sessions *sharedauth.Sessions, backend *LocalBackend) *GoogleService {
	return &GoogleService{
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		sessions:   sessions,
		backend:    backend,
		uiRedirect: uiRedirect,
		stateTTL:   5 * time.Minute,
		stateStore: newStateStore(),
	}
}

// Configured reports whether the Google client credentials are set.
func (s *GoogleService) Configured() bool {
	return s.oauthConfig.ClientID != "" && s.oauthConfig.ClientSecret != "" && s.oauthConfig.RedirectURL != ""
}

// RegisterRoutes attaches Google auth routes.
func (s *GoogleService) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/google/start", s.start)
	rg.GET("/auth/google/callback", s.callback)
}

func (s *GoogleService) start(c *gin.Context) {
	if !s.Configured() {
		respond.Error(c, http.StatusInternalServerError, "auth_not_configured", "Google auth not configured", nil)
		return
	}

	state := uuid.NewString()
	s.stateStore.put(state, c.Query("redirect_to"), time.Now().Add(s.stateTTL))

	url := s.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
	c.Redirect(http.StatusFound, url)
}

func (s *GoogleService) callback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "missing state or code", nil)
		return
	}

	redirectTo, ok := s.stateStore.consume(state)
	if !ok {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid or expired state", nil)
		return
	}

	ctx := c.Request.Context()
	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "failed to exchange code", nil)
		return
	}

	userInfo, err := s.fetchUserInfo(ctx, token)
	if err != nil {
		respond.Error(c, http.StatusBadGateway, "auth_failed", "failed to fetch user profile", nil)
		return
	}
	if userInfo.Sub == "" {
		respond.Error(c, http.StatusBadGateway, "auth_failed", "invalid user profile", nil)
		return
	}

	user := &User{
		ID:      "google:" + userInfo.Sub,
		Email:   userInfo.Email,
		Name:    userInfo.Name,
		Picture: userInfo.Picture,
	}

	session, err := s.sessions.Sign(user.ID, user.Email, user.Name)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to issue session", nil)
		return
	}
	c.SetCookie(middleware.SessionCookie, session, int(24*time.Hour/time.Second), "/", "", false, true)

	if s.backend != nil {
		s.backend.SetSession(user)
	}

	target := redirectTo
	if target == "" {
		target = s.uiRedirect
	}
	if target == "" {
		target = "/"
	}
	c.Redirect(http.StatusFound, target)
}

type googleUserInfo struct {
	Sub     string `json:"sub"`
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (s *GoogleService) fetchUserInfo(ctx context.Context, token *oauth2.Token) (googleUserInfo, error) {
	client := s.oauthConfig.Client(ctx, token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return googleUserInfo{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return googleUserInfo{}, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return googleUserInfo{}, err
	}

	// Some responses use "id" instead of "sub".
	if info.Sub == "" {
		info.Sub = info.ID
	}
	return info, nil
}

type stateEntry struct {
	redirectTo string
	exp        time.Time
}

type stateStore struct {
	items map[string]stateEntry
	mu    sync.Mutex
}

func newStateStore() *stateStore {
	return &stateStore{items: make(map[string]stateEntry)}
}

func (s *stateStore) put(state, redirectTo string, exp time.Time) {
	// Only relative or same-site absolute targets are kept; anything else
	// falls back to the default landing page after the callback.
	if !safeRedirect(redirectTo) {
		redirectTo = ""
	}
	s.mu.Lock()
	s.items[state] = stateEntry{redirectTo: redirectTo, exp: exp}
	s.mu.Unlock()
}

func (s *stateStore) consume(state string) (string, bool) {
	s.mu.Lock()
	entry, ok := s.items[state]
	if ok {
		delete(s.items, state)
	}
	s.mu.Unlock()
	if !ok || time.Now().After(entry.exp) {
		return "", false
	}
	return entry.redirectTo, true
}

func safeRedirect(raw string) bool {
	if raw == "" || strings.HasPrefix(raw, "//") {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}
