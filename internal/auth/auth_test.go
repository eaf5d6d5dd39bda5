package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PIN-11-07/Turboo/internal/backend"
	"github.com/PIN-11-07/Turboo/internal/domain"
	"github.com/PIN-11-07/Turboo/internal/eventbus"
)

var testUserID = uuid.MustParse("6f1c2d9e-3b4a-4c5d-8e7f-9a0b1c2d3e4f")

func signedToken(t *testing.T, sub string, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  sub,
		"exp":  exp.Unix(),
		"role": "authenticated",
	}).SignedString([]byte("not-the-server-secret"))
	require.NoError(t, err)
	return token
}

func TestExpiryFromToken(t *testing.T) {
	exp := time.Date(2030, 5, 1, 12, 0, 0, 0, time.UTC)
	got, err := ExpiryFromToken(signedToken(t, testUserID.String(), exp))
	require.NoError(t, err)
	assert.True(t, got.Equal(exp))

	_, err = ExpiryFromToken("garbage")
	assert.Error(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "x"}).SignedString([]byte("k"))
	require.NoError(t, err)
	_, err = ExpiryFromToken(noExp)
	assert.Error(t, err)
}

func TestSubjectFromToken(t *testing.T) {
	id, err := SubjectFromToken(signedToken(t, testUserID.String(), time.Now().Add(time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, testUserID, id)

	_, err = SubjectFromToken(signedToken(t, "not-a-uuid", time.Now().Add(time.Hour)))
	assert.Error(t, err)
}

func newAuthServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	api, err := backend.NewClient(srv.URL, "anon-key")
	require.NoError(t, err)
	return NewClient(api)
}

func TestClientSignIn(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signedToken(t, testUserID.String(), exp)

	c := newAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))

		var body map[string]any
		data, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(data, &body))
		assert.Equal(t, "ana@example.com", body["email"])
		assert.Equal(t, "secret", body["password"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  token,
			"refresh_token": "refresh",
			"expires_in":    3600,
			"user": map[string]any{
				"id":            testUserID.String(),
				"email":         "ana@example.com",
				"user_metadata": map[string]any{"full_name": "Ana"},
			},
		})
	})

	sess, err := c.SignIn(context.Background(), " ana@example.com ", "secret")
	require.NoError(t, err)
	assert.Equal(t, token, sess.AccessToken)
	assert.Equal(t, "refresh", sess.RefreshToken)
	assert.True(t, sess.ExpiresAt.Equal(exp))
	assert.Equal(t, testUserID, sess.User.ID)
	assert.Equal(t, "Ana", sess.User.DisplayName())
}

func TestClientSignInRejected(t *testing.T) {
	c := newAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
	})

	_, err := c.SignIn(context.Background(), "ana@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid login credentials", backend.Message(err))
}

func TestClientSignUpSendsTrimmedName(t *testing.T) {
	c := newAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/signup", r.URL.Path)
		var body struct {
			Email string         `json:"email"`
			Data  map[string]any `json:"data"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Ana Lopez", body.Data["full_name"])

		_, _ = w.Write([]byte(`{"id":"` + testUserID.String() + `","email":"ana@example.com"}`))
	})

	sess, err := c.SignUp(context.Background(), "ana@example.com", "secret", "  Ana Lopez ")
	require.NoError(t, err)
	assert.Nil(t, sess, "confirmation pending means no session")
}

func TestClientSignOutAndUser(t *testing.T) {
	c := newAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/auth/v1/logout":
			w.WriteHeader(http.StatusNoContent)
		case "/auth/v1/user":
			_, _ = w.Write([]byte(`{"id":"` + testUserID.String() + `","email":"ana@example.com","user_metadata":{"name":"Ana"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	u, err := c.User(ctx, "user-token")
	require.NoError(t, err)
	assert.Equal(t, "Ana", u.DisplayName())
	assert.NoError(t, c.SignOut(ctx, "user-token"))
}

type fakeAPI struct {
	session *domain.Session
	err     error
	signOut int
}

func (f *fakeAPI) SignIn(context.Context, string, string) (*domain.Session, error) {
	return f.session, f.err
}

func (f *fakeAPI) SignUp(context.Context, string, string, string) (*domain.Session, error) {
	return f.session, f.err
}

func (f *fakeAPI) SignOut(context.Context, string) error {
	f.signOut++
	return f.err
}

func (f *fakeAPI) User(context.Context, string) (*domain.User, error) {
	if f.session == nil {
		return nil, f.err
	}
	u := f.session.User
	return &u, f.err
}

func testSession(t *testing.T, exp time.Time) *domain.Session {
	return &domain.Session{
		AccessToken: signedToken(t, testUserID.String(), exp),
		ExpiresAt:   exp,
		User:        domain.User{ID: testUserID, Email: "ana@example.com"},
	}
}

func TestServiceSignInPersistsAndPublishes(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	changes := make(chan eventbus.SessionChangedEvent, 4)
	bus.Subscribe(eventbus.EventSessionChanged, func(e eventbus.DomainEvent) {
		changes <- e.(eventbus.SessionChangedEvent)
	})

	path := filepath.Join(t.TempDir(), "session.json")
	api := &fakeAPI{session: testSession(t, time.Now().Add(time.Hour))}
	svc := NewService(api, NewFileStore(path), bus)

	require.NoError(t, svc.SignIn(context.Background(), "ana@example.com", "secret"))
	assert.Equal(t, api.session.AccessToken, svc.AccessToken())

	select {
	case ev := <-changes:
		require.NotNil(t, ev.Session)
		assert.Equal(t, testUserID, ev.Session.User.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("session change not published")
	}

	restored := NewService(api, NewFileStore(path), nil)
	sess, err := restored.Restore()
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "ana@example.com", sess.User.Email)

	require.NoError(t, svc.SignOut(context.Background()))
	assert.Equal(t, 1, api.signOut)
	assert.Empty(t, svc.AccessToken())

	select {
	case ev := <-changes:
		assert.Nil(t, ev.Session)
	case <-time.After(2 * time.Second):
		t.Fatal("sign out not published")
	}

	sess, err = NewService(api, NewFileStore(path), nil).Restore()
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestServiceRestoreDropsExpiredSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path)
	require.NoError(t, store.Save(testSession(t, time.Now().Add(-time.Minute))))

	svc := NewService(&fakeAPI{}, store, nil)
	sess, err := svc.Restore()
	require.NoError(t, err)
	assert.Nil(t, sess)
	assert.Nil(t, svc.Session())

	left, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, left, "expired session file is removed")
}

func TestServiceRestoreFillsUserIDFromToken(t *testing.T) {
	store := NewMemoryStore()
	sess := testSession(t, time.Now().Add(time.Hour))
	sess.User.ID = uuid.Nil
	require.NoError(t, store.Save(sess))

	got, err := NewService(&fakeAPI{}, store, nil).Restore()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, testUserID, got.User.ID)
}

func TestServiceSignOutClearsLocalSessionOnServerError(t *testing.T) {
	api := &fakeAPI{session: testSession(t, time.Now().Add(time.Hour))}
	svc := NewService(api, nil, nil)
	require.NoError(t, svc.SignIn(context.Background(), "a", "b"))

	api.err = errors.New("network down")
	assert.Error(t, svc.SignOut(context.Background()))
	assert.Nil(t, svc.Session())

	_, err := svc.User(context.Background())
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

func TestServiceSignUpAwaitingConfirmation(t *testing.T) {
	svc := NewService(&fakeAPI{}, nil, nil)
	signedIn, err := svc.SignUp(context.Background(), "ana@example.com", "secret", "Ana")
	require.NoError(t, err)
	assert.False(t, signedIn)
	assert.Nil(t, svc.Session())
}

type fakeAuthenticator struct {
	signInErr  error
	signUpErr  error
	signedUp   bool
	lastName   string
	signUpCall int
}

func (f *fakeAuthenticator) SignIn(context.Context, string, string) error { return f.signInErr }

func (f *fakeAuthenticator) SignUp(_ context.Context, _, _, name string) (bool, error) {
	f.signUpCall++
	f.lastName = name
	return f.signedUp, f.signUpErr
}

func TestFormToggleClearsFeedbackAndName(t *testing.T) {
	f := &Form{Email: "ana@example.com", Password: "pw", Error: "boom", Message: "hi"}
	assert.False(t, f.ShowName())

	f.Toggle()
	assert.Equal(t, ModeSignup, f.Mode)
	assert.True(t, f.ShowName())
	assert.Equal(t, "Create an account", f.Title())
	assert.Empty(t, f.Error)
	assert.Empty(t, f.Message)

	f.Name = "Ana"
	f.Toggle()
	assert.Equal(t, ModeLogin, f.Mode)
	assert.Empty(t, f.Name)
	assert.Equal(t, "ana@example.com", f.Email, "email survives a toggle")
	assert.Equal(t, "pw", f.Password)
}

func TestFormSignupRequiresName(t *testing.T) {
	a := &fakeAuthenticator{}
	f := &Form{Mode: ModeSignup, Email: "ana@example.com", Password: "pw", Name: "   "}

	assert.False(t, f.Submit(context.Background(), a))
	assert.Equal(t, MsgNameRequired, f.Error)
	assert.Equal(t, 0, a.signUpCall)
}

func TestFormSignupSuccessReturnsToLogin(t *testing.T) {
	a := &fakeAuthenticator{}
	f := &Form{Mode: ModeSignup, Email: "ana@example.com", Password: "pw", Name: " Ana "}

	assert.False(t, f.Submit(context.Background(), a))
	assert.Equal(t, "Ana", a.lastName)
	assert.Equal(t, ModeLogin, f.Mode)
	assert.Equal(t, MsgSignUpSuccess, f.Message)
	assert.Empty(t, f.Error)
	assert.Empty(t, f.Password)
	assert.Empty(t, f.Name)
	assert.Equal(t, "ana@example.com", f.Email)
}

func TestFormShowsServerError(t *testing.T) {
	a := &fakeAuthenticator{signInErr: &backend.APIError{Status: 400, Message: "Invalid login credentials"}}
	f := &Form{Email: "ana@example.com", Password: "bad", Message: "old"}

	assert.False(t, f.Submit(context.Background(), a))
	assert.Equal(t, "Invalid login credentials", f.Error)
	assert.Empty(t, f.Message)

	a.signInErr = nil
	assert.True(t, f.Submit(context.Background(), a))
	assert.Empty(t, f.Error)
}

func TestFormSignupServerError(t *testing.T) {
	a := &fakeAuthenticator{signUpErr: errors.New("User already registered")}
	f := &Form{Mode: ModeSignup, Email: "ana@example.com", Password: "pw", Name: "Ana"}

	assert.False(t, f.Submit(context.Background(), a))
	assert.Equal(t, "User already registered", f.Error)
	assert.Equal(t, ModeSignup, f.Mode)
	assert.Equal(t, "Ana", f.Name)
}
