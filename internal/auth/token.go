package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Access tokens are only inspected locally to schedule expiry. Signature
// verification is done by the backend on every request.
var parser = jwt.NewParser()

func claims(token string) (jwt.MapClaims, error) {
	c := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, c); err != nil {
		return nil, fmt.Errorf("failed to parse access token: %w", err)
	}
	return c, nil
}

// ExpiryFromToken returns the exp claim of an access token
func ExpiryFromToken(token string) (time.Time, error) {
	c, err := claims(token)
	if err != nil {
		return time.Time{}, err
	}
	exp, err := c.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read exp claim: %w", err)
	}
	if exp == nil {
		return time.Time{}, fmt.Errorf("access token has no exp claim")
	}
	return exp.Time, nil
}

// SubjectFromToken returns the user id carried in the sub claim
func SubjectFromToken(token string) (uuid.UUID, error) {
	c, err := claims(token)
	if err != nil {
		return uuid.Nil, err
	}
	sub, err := c.GetSubject()
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to read sub claim: %w", err)
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid user id in token: %w", err)
	}
	return id, nil
}
