package profile

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/PIN-11-07/Turboo/internal/backend"
	"github.com/PIN-11-07/Turboo/internal/domain"
)

// LoadFailedMessage is shown when the profile cannot be loaded
const LoadFailedMessage = "Unable to load the profile. Please try again later."

// ErrNoSession is returned when loading a profile while signed out
var ErrNoSession = errors.New("no session")

// UserSource fetches the current auth user
type UserSource interface {
	User(ctx context.Context) (*domain.User, error)
}

// ListingSource fetches the listings of one owner
type ListingSource interface {
	ByOwner(ctx context.Context, userID string) ([]domain.ListingSummary, error)
}

// AvatarSource fetches the profile image url of a user.
// Implementations return "" when the user has no profile row.
type AvatarSource interface {
	ProfileImageURL(ctx context.Context, userID string) (string, error)
}

// Loader aggregates the profile screen data
type Loader struct {
	users    UserSource
	avatars  AvatarSource
	listings ListingSource
}

// NewLoader creates a loader from its three sources
func NewLoader(users UserSource, avatars AvatarSource, listings ListingSource) *Loader {
	return &Loader{users: users, avatars: avatars, listings: listings}
}

// Load fetches the user, avatar and own listings concurrently
func (l *Loader) Load(ctx context.Context, session *domain.Session) (*domain.Profile, error) {
	if session == nil {
		return nil, ErrNoSession
	}
	userID := session.User.ID.String()

	var (
		fresh    *domain.User
		avatar   string
		listings []domain.ListingSummary
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := l.users.User(gctx)
		if err != nil {
			return fmt.Errorf("failed to fetch user: %w", err)
		}
		fresh = u
		return nil
	})
	g.Go(func() error {
		url, err := l.avatars.ProfileImageURL(gctx, userID)
		if err != nil {
			return fmt.Errorf("failed to fetch profile: %w", err)
		}
		avatar = url
		return nil
	})
	g.Go(func() error {
		rows, err := l.listings.ByOwner(gctx, userID)
		if err != nil {
			return err
		}
		listings = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Printf("Profile: %v", err)
		return nil, err
	}

	if listings == nil {
		listings = []domain.ListingSummary{}
	}
	return &domain.Profile{
		Name:            DisplayName(fresh, &session.User),
		Email:           Email(fresh, &session.User),
		ProfileImageURL: avatar,
		Listings:        listings,
	}, nil
}

// DisplayName returns the first metadata name found on the users in order
func DisplayName(users ...*domain.User) string {
	for _, u := range users {
		if name := u.DisplayName(); name != "" {
			return name
		}
	}
	return ""
}

// Email returns the first non-empty email of the users in order
func Email(users ...*domain.User) string {
	for _, u := range users {
		if u == nil {
			continue
		}
		if mail := strings.TrimSpace(u.Email); mail != "" {
			return mail
		}
	}
	return ""
}

// Avatars reads profile_image_url from the profiles table
type Avatars struct {
	api *backend.Client
}

// NewAvatars creates an AvatarSource on top of api
func NewAvatars(api *backend.Client) *Avatars {
	return &Avatars{api: api}
}

type profileRow struct {
	ProfileImageURL *string `json:"profile_image_url"`
}

// ProfileImageURL implements AvatarSource. A missing profile row is not an error.
func (a *Avatars) ProfileImageURL(ctx context.Context, userID string) (string, error) {
	var row *profileRow
	err := a.api.From("profiles").
		Select("profile_image_url").
		Eq("id", userID).
		MaybeSingle().
		Execute(ctx, &row)
	if backend.IsNotFound(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if row == nil || row.ProfileImageURL == nil {
		return "", nil
	}
	return strings.TrimSpace(*row.ProfileImageURL), nil
}
