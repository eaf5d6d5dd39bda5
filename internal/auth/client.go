package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PIN-11-07/Turboo/internal/backend"
	"github.com/PIN-11-07/Turboo/internal/domain"
)

// Client is a thin GoTrue client. Passwords and confirmation emails are
// handled entirely by the server.
type Client struct {
	api *backend.Client
	now func() time.Time
}

// NewClient creates an auth client on top of api
func NewClient(api *backend.Client) *Client {
	return &Client{api: api, now: time.Now}
}

type credentials struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Data     map[string]any `json:"data,omitempty"`
}

// tokenResponse is the session payload of the token and signup endpoints.
// Signup without auto-confirmation returns the bare user instead, which
// leaves AccessToken empty.
type tokenResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    int64       `json:"expires_in"`
	ExpiresAt    int64       `json:"expires_at"`
	User         domain.User `json:"user"`
}

func (c *Client) session(resp tokenResponse) (*domain.Session, error) {
	if resp.AccessToken == "" {
		return nil, nil
	}

	s := &domain.Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		User:         resp.User,
	}

	exp, err := ExpiryFromToken(resp.AccessToken)
	switch {
	case err == nil:
		s.ExpiresAt = exp
	case resp.ExpiresAt > 0:
		s.ExpiresAt = time.Unix(resp.ExpiresAt, 0)
	case resp.ExpiresIn > 0:
		s.ExpiresAt = c.now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	default:
		return nil, fmt.Errorf("failed to read session expiry: %w", err)
	}
	return s, nil
}

// SignIn exchanges email and password for a session
func (c *Client) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	var resp tokenResponse
	err := c.api.Auth(ctx, http.MethodPost, "token?grant_type=password", "", credentials{
		Email:    strings.TrimSpace(email),
		Password: password,
	}, &resp)
	if err != nil {
		return nil, err
	}

	s, err := c.session(resp)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("sign in returned no session")
	}
	return s, nil
}

// SignUp registers a new account. The trimmed name is stored as full_name
// metadata. The returned session is nil when the server requires email
// confirmation first.
func (c *Client) SignUp(ctx context.Context, email, password, name string) (*domain.Session, error) {
	creds := credentials{
		Email:    strings.TrimSpace(email),
		Password: password,
	}
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		creds.Data = map[string]any{"full_name": trimmed}
	}

	var resp tokenResponse
	if err := c.api.Auth(ctx, http.MethodPost, "signup", "", creds, &resp); err != nil {
		return nil, err
	}
	return c.session(resp)
}

// SignOut revokes the session on the server
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.api.Auth(ctx, http.MethodPost, "logout", accessToken, nil, nil)
}

// User fetches the current user for accessToken
func (c *Client) User(ctx context.Context, accessToken string) (*domain.User, error) {
	var u domain.User
	if err := c.api.Auth(ctx, http.MethodGet, "user", accessToken, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
