package auth

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PIN-11-07/Turboo/internal/domain"
	"github.com/PIN-11-07/Turboo/internal/eventbus"
)

// ErrNotSignedIn is returned by operations that need a session
var ErrNotSignedIn = errors.New("not signed in")

// API is the subset of the auth endpoints used by Service
type API interface {
	SignIn(ctx context.Context, email, password string) (*domain.Session, error)
	SignUp(ctx context.Context, email, password, name string) (*domain.Session, error)
	SignOut(ctx context.Context, accessToken string) error
	User(ctx context.Context, accessToken string) (*domain.User, error)
}

// Service owns the current session. Every change is persisted and
// published as a SessionChangedEvent.
type Service struct {
	mu      sync.RWMutex
	api     API
	store   SessionStore
	bus     eventbus.EventBus
	now     func() time.Time
	session *domain.Session
}

// NewService creates a signed-out service
func NewService(api API, store SessionStore, bus eventbus.EventBus) *Service {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Service{api: api, store: store, bus: bus, now: time.Now}
}

// Restore loads the saved session if its access token is still valid.
// It returns nil when there is nothing to restore.
func (s *Service) Restore() (*domain.Session, error) {
	saved, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return nil, nil
	}

	if exp, err := ExpiryFromToken(saved.AccessToken); err == nil {
		saved.ExpiresAt = exp
	}
	if saved.Expired(s.now()) {
		log.Printf("Auth: stored session for %s expired at %s", saved.User.Email, saved.ExpiresAt.Format(time.RFC3339))
		if err := s.store.Clear(); err != nil {
			log.Printf("Auth: %v", err)
		}
		return nil, nil
	}
	if saved.User.ID == uuid.Nil {
		if id, err := SubjectFromToken(saved.AccessToken); err == nil {
			saved.User.ID = id
		}
	}

	log.Printf("Auth: restored session for %s", saved.User.Email)
	s.set(saved)
	return saved, nil
}

// Session returns the current session, nil when signed out
func (s *Service) Session() *domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil || s.session.Expired(s.now()) {
		return nil
	}
	cp := *s.session
	return &cp
}

// AccessToken returns the bearer for data requests, empty when signed out
func (s *Service) AccessToken() string {
	if sess := s.Session(); sess != nil {
		return sess.AccessToken
	}
	return ""
}

// SignIn authenticates with email and password
func (s *Service) SignIn(ctx context.Context, email, password string) error {
	sess, err := s.api.SignIn(ctx, email, password)
	if err != nil {
		log.Printf("Auth: sign in failed: %v", err)
		return err
	}
	s.adopt(sess)
	log.Printf("Auth: signed in as %s", sess.User.Email)
	return nil
}

// SignUp registers a new account. It reports whether the account is already
// signed in; false means the server sent a confirmation email.
func (s *Service) SignUp(ctx context.Context, email, password, name string) (bool, error) {
	sess, err := s.api.SignUp(ctx, email, password, name)
	if err != nil {
		log.Printf("Auth: sign up failed: %v", err)
		return false, err
	}
	if sess == nil {
		log.Printf("Auth: sign up for %s awaits confirmation", email)
		return false, nil
	}
	s.adopt(sess)
	return true, nil
}

// SignOut ends the session. The local session is dropped even when the
// server call fails.
func (s *Service) SignOut(ctx context.Context) error {
	token := s.AccessToken()
	var err error
	if token != "" {
		if err = s.api.SignOut(ctx, token); err != nil {
			log.Printf("Auth: sign out failed: %v", err)
		}
	}

	if clearErr := s.store.Clear(); clearErr != nil {
		log.Printf("Auth: %v", clearErr)
	}
	s.set(nil)
	return err
}

// User fetches the up-to-date user record for the current session
func (s *Service) User(ctx context.Context) (*domain.User, error) {
	token := s.AccessToken()
	if token == "" {
		return nil, ErrNotSignedIn
	}
	return s.api.User(ctx, token)
}

func (s *Service) adopt(sess *domain.Session) {
	if err := s.store.Save(sess); err != nil {
		log.Printf("Auth: %v", err)
	}
	s.set(sess)
}

func (s *Service) set(sess *domain.Session) {
	s.mu.Lock()
	s.session = sess
	s.mu.Unlock()

	if s.bus != nil {
		var published *domain.Session
		if sess != nil {
			cp := *sess
			published = &cp
		}
		s.bus.Publish(eventbus.SessionChangedEvent{Session: published})
	}
}
