// Package hosted implements the auth backend against a hosted GoTrue-style
// auth service (Supabase Auth and compatible deployments).
package hosted

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"portfolio-backend/internal/authn"
)

// Client talks to the hosted auth HTTP API and implements authn.Backend.
type Client struct {
	authn.Dispatcher

	baseURL    string
	apiKey     string
	httpClient *http.Client

	mu          sync.Mutex
	accessToken string
	current     *authn.User
}

// New builds a Client. baseURL is the auth service root, e.g.
// https://project.supabase.co/auth/v1.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// OnAuthStateChange subscribes to sign-in/out events.
func (c *Client) OnAuthStateChange(cb func(*authn.User)) func() {
	return c.Subscribe(cb)
}

type tokenResponse struct {
	AccessToken string     `json:"access_token"`
	User        hostedUser `json:"user"`
}

type hostedUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Metadata struct {
		FullName  string `json:"full_name"`
		Name      string `json:"name"`
		AvatarURL string `json:"avatar_url"`
	} `json:"user_metadata"`
}

func (u hostedUser) toUser() *authn.User {
	name := u.Metadata.FullName
	if name == "" {
		name = u.Metadata.Name
	}
	return &authn.User{
		ID:      u.ID,
		Email:   u.Email,
		Name:    name,
		Picture: u.Metadata.AvatarURL,
	}
}

// SignInWithPassword exchanges credentials for a session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*authn.User, error) {
	payload, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/token?grant_type=password", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setAuthHeaders(req, "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &authn.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest, http.StatusUnauthorized:
		io.Copy(io.Discard, resp.Body)
		return nil, authn.ErrInvalidCredentials
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("auth service status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}

	user := tok.User.toUser()
	c.setSession(tok.AccessToken, user)
	return user, nil
}

// CurrentSession returns the locally known user, refreshing it from the
// service when an access token is held.
func (c *Client) CurrentSession(ctx context.Context) (*authn.User, error) {
	c.mu.Lock()
	token := c.accessToken
	current := c.current
	c.mu.Unlock()

	if token == "" {
		return current, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/user", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	c.setAuthHeaders(req, token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &authn.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		io.Copy(io.Discard, resp.Body)
		c.setSession("", nil)
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("auth service status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var hu hostedUser
	if err := json.NewDecoder(resp.Body).Decode(&hu); err != nil {
		return nil, fmt.Errorf("decode user response: %w", err)
	}

	user := hu.toUser()
	c.mu.Lock()
	c.current = user
	c.mu.Unlock()
	return user, nil
}

// SignInWithOAuth returns the hosted authorize URL for provider.
func (c *Client) SignInWithOAuth(ctx context.Context, provider, redirectTo string) (string, error) {
	if provider == "" {
		return "", fmt.Errorf("oauth provider is required")
	}
	q := url.Values{}
	q.Set("provider", provider)
	if redirectTo != "" {
		q.Set("redirect_to", redirectTo)
	}
	return c.baseURL + "/authorize?" + q.Encode(), nil
}

// SignOut revokes the session at the service and clears local state. Local
// state is cleared even when the revoke call fails.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	token := c.accessToken
	c.mu.Unlock()

	defer c.setSession("", nil)

	if token == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/logout", nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	c.setAuthHeaders(req, token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &authn.NetworkError{Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("auth service status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) setAuthHeaders(req *http.Request, token string) {
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	} else if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

func (c *Client) setSession(token string, user *authn.User) {
	c.mu.Lock()
	c.accessToken = token
	c.current = user
	c.mu.Unlock()
	c.Emit(user)
}

var _ authn.Backend = (*Client)(nil)
