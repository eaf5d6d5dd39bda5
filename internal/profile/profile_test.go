package profile

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PIN-11-07/Turboo/internal/backend"
	"github.com/PIN-11-07/Turboo/internal/domain"
)

var userID = uuid.MustParse("6f1c2d9e-3b4a-4c5d-8e7f-9a0b1c2d3e4f")

type fakeUsers struct {
	user *domain.User
	err  error
}

func (f fakeUsers) User(context.Context) (*domain.User, error) { return f.user, f.err }

type fakeAvatars struct {
	url string
	err error
}

func (f fakeAvatars) ProfileImageURL(context.Context, string) (string, error) { return f.url, f.err }

type fakeListings struct {
	rows  []domain.ListingSummary
	err   error
	owner *string
}

func (f fakeListings) ByOwner(_ context.Context, id string) ([]domain.ListingSummary, error) {
	if f.owner != nil {
		*f.owner = id
	}
	return f.rows, f.err
}

func session(meta map[string]any) *domain.Session {
	return &domain.Session{
		AccessToken: "token",
		User:        domain.User{ID: userID, Email: "session@example.com", Metadata: meta},
	}
}

func TestLoadAggregates(t *testing.T) {
	var owner string
	loader := NewLoader(
		fakeUsers{user: &domain.User{ID: userID, Email: " ana@example.com ", Metadata: map[string]any{"full_name": "  Ana Lopez "}}},
		fakeAvatars{url: "https://cdn/ana.png"},
		fakeListings{rows: []domain.ListingSummary{{ID: "1"}, {ID: "2"}}, owner: &owner},
	)

	p, err := loader.Load(context.Background(), session(nil))
	require.NoError(t, err)
	assert.Equal(t, "Ana Lopez", p.Name)
	assert.Equal(t, "ana@example.com", p.Email)
	assert.Equal(t, "https://cdn/ana.png", p.ProfileImageURL)
	assert.Len(t, p.Listings, 2)
	assert.Equal(t, userID.String(), owner)
	assert.Equal(t, "A", p.AvatarInitial())
}

func TestLoadFallsBackToSessionUser(t *testing.T) {
	loader := NewLoader(
		fakeUsers{user: &domain.User{ID: userID, Metadata: map[string]any{"full_name": " "}}},
		fakeAvatars{},
		fakeListings{},
	)

	p, err := loader.Load(context.Background(), session(map[string]any{"display_name": "ana_l"}))
	require.NoError(t, err)
	assert.Equal(t, "ana_l", p.Name)
	assert.Equal(t, "session@example.com", p.Email)
	assert.NotNil(t, p.Listings)
	assert.Empty(t, p.Listings)
}

func TestLoadFailsWhenAnySourceFails(t *testing.T) {
	boom := errors.New("boom")
	loader := NewLoader(fakeUsers{user: &domain.User{}}, fakeAvatars{}, fakeListings{err: boom})

	_, err := loader.Load(context.Background(), session(nil))
	assert.ErrorIs(t, err, boom)

	_, err = loader.Load(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestDisplayNamePrecedence(t *testing.T) {
	u := &domain.User{Metadata: map[string]any{"name": "Name", "display_name": "Display", "full_name": 7}}
	assert.Equal(t, "Name", DisplayName(nil, u))
	assert.Empty(t, DisplayName(nil, &domain.User{}))
	assert.Equal(t, "?", domain.Profile{}.AvatarInitial())
	assert.Equal(t, "Z", domain.Profile{Email: "zoe@example.com"}.AvatarInitial())
}

func TestAvatarsToleratesMissingProfile(t *testing.T) {
	status := http.StatusOK
	body := `[]`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/profiles", r.URL.Path)
		assert.Equal(t, "profile_image_url", r.URL.Query().Get("select"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	api, err := backend.NewClient(srv.URL, "anon-key")
	require.NoError(t, err)
	avatars := NewAvatars(api)
	ctx := context.Background()

	url, err := avatars.ProfileImageURL(ctx, userID.String())
	require.NoError(t, err)
	assert.Empty(t, url)

	body = `[{"profile_image_url":"https://cdn/x.png"}]`
	url, err = avatars.ProfileImageURL(ctx, userID.String())
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/x.png", url)

	status, body = http.StatusNotAcceptable, `{"code":"PGRST114","message":"not found"}`
	url, err = avatars.ProfileImageURL(ctx, userID.String())
	require.NoError(t, err)
	assert.Empty(t, url)

	status, body = http.StatusInternalServerError, `{"code":"XX000","message":"boom"}`
	_, err = avatars.ProfileImageURL(ctx, userID.String())
	assert.Error(t, err)
}
