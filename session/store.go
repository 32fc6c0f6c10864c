package session

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"go-storefront/models"
	"go-storefront/utils"
)

// Status is the store lifecycle: uninitialized -> loading -> resolved
type Status int

const (
	StatusUninitialized Status = iota
	StatusLoading
	StatusResolved
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusResolved:
		return "resolved"
	}
	return "uninitialized"
}

// EventType names a session change
type EventType string

const (
	EventResolved  EventType = "resolved"
	EventLoggedIn  EventType = "logged-in"
	EventLoggedOut EventType = "logged-out"
	EventRefreshed EventType = "refreshed"
	// EventExpired means the session ended because a refresh failed;
	// subscribers should send the user to the login page.
	EventExpired EventType = "expired"
)

// Event is published to subscribers after every change. User is nil when signed out.
type Event struct {
	Type EventType
	User *models.User
}

// Authenticator is the slice of the auth endpoints the store drives
type Authenticator interface {
	Login(ctx context.Context, creds models.Credentials) (models.TokenPair, error)
	Register(ctx context.Context, p models.Profile) error
	Logout(ctx context.Context, refreshToken string) error
}

// Store is the single source of truth for who the current user is.
// Views and guards read it; only the store itself mutates the session.
type Store struct {
	auth    Authenticator
	storage TokenStorage
	log     logrus.FieldLogger
	now     func() time.Time

	mu      sync.RWMutex
	status  Status
	session *models.Session
	ready   chan struct{}
	subs    map[int]func(Event)
	nextSub int
}

func NewStore(auth Authenticator, storage TokenStorage, log logrus.FieldLogger) *Store {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Store{
		auth:    auth,
		storage: storage,
		log:     log,
		now:     time.Now,
		ready:   make(chan struct{}),
		subs:    make(map[int]func(Event)),
	}
}

// Init restores a persisted session. Only the first call does any work;
// everyone else can wait on Ready.
func (s *Store) Init(ctx context.Context) {
	s.mu.Lock()
	if s.status != StatusUninitialized {
		s.mu.Unlock()
		return
	}
	s.status = StatusLoading
	s.mu.Unlock()

	sess, err := s.restore(ctx)
	if err != nil {
		s.log.WithError(err).Warn("could not restore session")
	}

	s.mu.Lock()
	if s.status == StatusLoading {
		s.session = sess
		s.resolveLocked()
	}
	user := s.userLocked()
	s.mu.Unlock()

	s.publish(Event{Type: EventResolved, User: user})
}

func (s *Store) restore(ctx context.Context) (*models.Session, error) {
	access, err := s.storage.Get(ctx, AccessTokenKey)
	if err != nil {
		return nil, err
	}
	refresh, err := s.storage.Get(ctx, RefreshTokenKey)
	if err != nil {
		return nil, err
	}
	if access == "" {
		if refresh != "" {
			s.clearStorage(ctx)
		}
		return nil, nil
	}

	claims, err := utils.DecodeClaims(access)
	if err != nil || (refresh == "" && claims.Expired(s.now())) {
		// nothing usable left; forget it
		s.clearStorage(ctx)
		return nil, err
	}
	return &models.Session{User: claims.User(), AccessToken: access, RefreshToken: refresh}, nil
}

// Ready is closed once the store has resolved
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

// Login signs in. On failure the store is left exactly as it was.
func (s *Store) Login(ctx context.Context, creds models.Credentials) (*models.Session, error) {
	pair, err := s.auth.Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	claims, err := utils.DecodeClaims(pair.AccessToken)
	if err != nil {
		return nil, errors.Wrap(err, "login")
	}
	sess := &models.Session{User: claims.User(), AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}

	if err := s.storage.Set(ctx, AccessTokenKey, pair.AccessToken); err != nil {
		s.log.WithError(err).Warn("could not persist access token")
	}
	if err := s.storage.Set(ctx, RefreshTokenKey, pair.RefreshToken); err != nil {
		s.log.WithError(err).Warn("could not persist refresh token")
	}

	s.mu.Lock()
	s.session = sess
	s.resolveLocked()
	user := s.userLocked()
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{"user": user.Email, "role": user.Role}).Info("user logged in")
	s.publish(Event{Type: EventLoggedIn, User: user})
	cp := *sess
	return &cp, nil
}

// Register creates an account. It never signs the user in: a separate Login is required.
func (s *Store) Register(ctx context.Context, p models.Profile) error {
	if p.Role == "" {
		p.Role = models.RoleBuyer
	}
	return s.auth.Register(ctx, p)
}

// Logout revokes the refresh token if the backend is reachable and always
// clears the local session.
func (s *Store) Logout(ctx context.Context) {
	s.mu.RLock()
	var refresh string
	if s.session != nil {
		refresh = s.session.RefreshToken
	}
	s.mu.RUnlock()

	if refresh != "" {
		if err := s.auth.Logout(ctx, refresh); err != nil {
			s.log.WithError(err).Warn("server-side logout failed; clearing local session anyway")
		}
	}
	s.end(ctx, EventLoggedOut)
}

// CurrentUser returns the signed-in identity
func (s *Store) CurrentUser() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return models.User{}, false
	}
	return s.session.User, true
}

// IsLoading is true until the store has resolved
func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status != StatusResolved
}

func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Subscribe registers fn for every future event. Call the returned func to stop.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// AccessToken implements api.TokenSource
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return ""
	}
	return s.session.AccessToken
}

// RefreshToken implements api.TokenSource
func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return ""
	}
	return s.session.RefreshToken
}

// Refreshed implements api.TokenSource. Only the token fields change.
func (s *Store) Refreshed(ctx context.Context, pair models.TokenPair) {
	s.mu.Lock()
	if s.session == nil {
		s.mu.Unlock()
		return
	}
	s.session.AccessToken = pair.AccessToken
	if pair.RefreshToken != "" {
		s.session.RefreshToken = pair.RefreshToken
	}
	refresh := s.session.RefreshToken
	user := s.userLocked()
	s.mu.Unlock()

	if err := s.storage.Set(ctx, AccessTokenKey, pair.AccessToken); err != nil {
		s.log.WithError(err).Warn("could not persist refreshed access token")
	}
	if err := s.storage.Set(ctx, RefreshTokenKey, refresh); err != nil {
		s.log.WithError(err).Warn("could not persist refresh token")
	}
	s.publish(Event{Type: EventRefreshed, User: user})
}

// Expire implements api.TokenSource: the refresh failed, so the session is over
func (s *Store) Expire(ctx context.Context) {
	s.end(ctx, EventExpired)
}

func (s *Store) end(ctx context.Context, typ EventType) {
	s.mu.Lock()
	s.session = nil
	s.resolveLocked()
	s.mu.Unlock()

	s.clearStorage(ctx)
	s.publish(Event{Type: typ})
}

func (s *Store) clearStorage(ctx context.Context) {
	if err := s.storage.Remove(ctx, AccessTokenKey, RefreshTokenKey); err != nil {
		s.log.WithError(err).Warn("could not clear persisted tokens")
	}
}

// resolveLocked moves the store to resolved. s.mu must be held.
func (s *Store) resolveLocked() {
	if s.status != StatusResolved {
		s.status = StatusResolved
		close(s.ready)
	}
}

func (s *Store) userLocked() *models.User {
	if s.session == nil {
		return nil
	}
	u := s.session.User
	return &u
}

func (s *Store) publish(e Event) {
	s.mu.RLock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(e)
	}
}
