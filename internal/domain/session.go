package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is the authenticated account as reported by the auth API
type User struct {
	ID       uuid.UUID      `json:"id"`
	Email    string         `json:"email"`
	Metadata map[string]any `json:"user_metadata,omitempty"`
}

// DisplayName picks the first non-empty name-like metadata value
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	for _, key := range []string{"full_name", "name", "display_name"} {
		if v, ok := u.Metadata[key].(string); ok {
			if name := strings.TrimSpace(v); name != "" {
				return name
			}
		}
	}
	return ""
}

// Session is a signed-in session
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

// Expired reports whether the access token is past its expiry at now
func (s *Session) Expired(now time.Time) bool {
	if s == nil {
		return true
	}
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
