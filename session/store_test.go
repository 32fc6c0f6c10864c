package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-storefront/api"
	"go-storefront/models"
	"go-storefront/utils"
)

func mintToken(t *testing.T, email, role string, exp time.Time) string {
	t.Helper()
	claims := &utils.Claims{Role: role, StandardClaims: jwt.StandardClaims{Subject: email}}
	if !exp.IsZero() {
		claims.ExpiresAt = exp.Unix()
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return token
}

type fakeAuth struct {
	mu        sync.Mutex
	pair      models.TokenPair
	loginErr  error
	logoutErr error
	logouts   []string
	profiles  []models.Profile
}

func (f *fakeAuth) Login(_ context.Context, _ models.Credentials) (models.TokenPair, error) {
	if f.loginErr != nil {
		return models.TokenPair{}, f.loginErr
	}
	return f.pair, nil
}

func (f *fakeAuth) Register(_ context.Context, p models.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles = append(f.profiles, p)
	return nil
}

func (f *fakeAuth) Logout(_ context.Context, refreshToken string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logouts = append(f.logouts, refreshToken)
	return f.logoutErr
}

func newTestStore(auth Authenticator, storage TokenStorage) *Store {
	log, _ := test.NewNullLogger()
	return NewStore(auth, storage, log)
}

func collect(s *Store) *[]EventType {
	var mu sync.Mutex
	events := []EventType{}
	s.Subscribe(func(e Event) {
		mu.Lock()
		events = append(events, e.Type)
		mu.Unlock()
	})
	return &events
}

func TestStoreInitWithoutTokensResolvesSignedOut(t *testing.T) {
	s := newTestStore(&fakeAuth{}, Scoped(NewMemoryBackend(), "sid"))
	assert.Equal(t, StatusUninitialized, s.Status())
	assert.True(t, s.IsLoading())

	events := collect(s)
	s.Init(context.Background())

	assert.Equal(t, StatusResolved, s.Status())
	assert.False(t, s.IsLoading())
	_, ok := s.CurrentUser()
	assert.False(t, ok)
	assert.Equal(t, []EventType{EventResolved}, *events)

	select {
	case <-s.Ready():
	default:
		t.Fatal("ready not closed after init")
	}
}

func TestStoreInitRestoresPersistedSession(t *testing.T) {
	backend := NewMemoryBackend()
	storage := Scoped(backend, "sid")
	ctx := context.Background()
	access := mintToken(t, "shop@example.com", "SELLER", time.Now().Add(time.Hour))
	require.NoError(t, storage.Set(ctx, AccessTokenKey, access))
	require.NoError(t, storage.Set(ctx, RefreshTokenKey, "R1"))

	s := newTestStore(&fakeAuth{}, storage)
	s.Init(ctx)

	u, ok := s.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "shop@example.com", u.Email)
	assert.Equal(t, models.RoleSeller, u.Role)
	assert.Equal(t, access, s.AccessToken())
	assert.Equal(t, "R1", s.RefreshToken())
}

func TestStoreInitKeepsExpiredAccessTokenWhenRefreshable(t *testing.T) {
	storage := Scoped(NewMemoryBackend(), "sid")
	ctx := context.Background()
	require.NoError(t, storage.Set(ctx, AccessTokenKey, mintToken(t, "a@b.c", "USER", time.Now().Add(-time.Hour))))
	require.NoError(t, storage.Set(ctx, RefreshTokenKey, "R1"))

	s := newTestStore(&fakeAuth{}, storage)
	s.Init(ctx)

	_, ok := s.CurrentUser()
	assert.True(t, ok, "the client refreshes on the first 401")
}

func TestStoreInitClearsUndecodableTokens(t *testing.T) {
	storage := Scoped(NewMemoryBackend(), "sid")
	ctx := context.Background()
	require.NoError(t, storage.Set(ctx, AccessTokenKey, "garbage"))
	require.NoError(t, storage.Set(ctx, RefreshTokenKey, "R1"))

	s := newTestStore(&fakeAuth{}, storage)
	s.Init(ctx)

	_, ok := s.CurrentUser()
	assert.False(t, ok)
	v, _ := storage.Get(ctx, AccessTokenKey)
	assert.Empty(t, v)
	v, _ = storage.Get(ctx, RefreshTokenKey)
	assert.Empty(t, v)
}

func TestStoreInitIsIdempotent(t *testing.T) {
	s := newTestStore(&fakeAuth{}, Scoped(NewMemoryBackend(), "sid"))
	events := collect(s)
	s.Init(context.Background())
	s.Init(context.Background())
	assert.Equal(t, []EventType{EventResolved}, *events)
}

func TestStoreLoginPersistsAndPublishes(t *testing.T) {
	ctx := context.Background()
	access := mintToken(t, "buyer@example.com", "USER", time.Time{})
	storage := Scoped(NewMemoryBackend(), "sid")
	s := newTestStore(&fakeAuth{pair: models.TokenPair{AccessToken: access, RefreshToken: "R1"}}, storage)
	s.Init(ctx)
	events := collect(s)

	sess, err := s.Login(ctx, models.Credentials{Email: "buyer@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleBuyer, sess.Role)
	assert.Equal(t, "buyer@example.com", sess.Email)

	v, _ := storage.Get(ctx, AccessTokenKey)
	assert.Equal(t, access, v)
	v, _ = storage.Get(ctx, RefreshTokenKey)
	assert.Equal(t, "R1", v)
	assert.Equal(t, []EventType{EventLoggedIn}, *events)
}

func TestStoreLoginFailureLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	storage := Scoped(NewMemoryBackend(), "sid")
	s := newTestStore(&fakeAuth{loginErr: &api.AuthError{Message: "Bad credentials"}}, storage)
	s.Init(ctx)
	events := collect(s)

	_, err := s.Login(ctx, models.Credentials{Email: "x@y.z", Password: "nope"})
	assert.True(t, api.IsAuthError(err))
	_, ok := s.CurrentUser()
	assert.False(t, ok)
	assert.Empty(t, *events)
	v, _ := storage.Get(ctx, AccessTokenKey)
	assert.Empty(t, v)
}

func TestStoreRegisterDoesNotSignIn(t *testing.T) {
	auth := &fakeAuth{}
	s := newTestStore(auth, Scoped(NewMemoryBackend(), "sid"))
	s.Init(context.Background())

	require.NoError(t, s.Register(context.Background(), models.Profile{Email: "n@e.w", Password: "pw"}))
	_, ok := s.CurrentUser()
	assert.False(t, ok)
	require.Len(t, auth.profiles, 1)
	assert.Equal(t, models.RoleBuyer, auth.profiles[0].Role)
}

func TestStoreLogoutClearsEvenWhenServerFails(t *testing.T) {
	ctx := context.Background()
	auth := &fakeAuth{
		pair:      models.TokenPair{AccessToken: mintToken(t, "a@b.c", "USER", time.Time{}), RefreshToken: "R1"},
		logoutErr: &api.NetworkError{Op: "POST /auth/logout", Err: errors.New("connection refused")},
	}
	storage := Scoped(NewMemoryBackend(), "sid")
	s := newTestStore(auth, storage)
	s.Init(ctx)
	_, err := s.Login(ctx, models.Credentials{})
	require.NoError(t, err)
	events := collect(s)

	s.Logout(ctx)

	assert.Equal(t, []string{"R1"}, auth.logouts)
	_, ok := s.CurrentUser()
	assert.False(t, ok)
	assert.Empty(t, s.AccessToken())
	v, _ := storage.Get(ctx, RefreshTokenKey)
	assert.Empty(t, v)
	assert.Equal(t, []EventType{EventLoggedOut}, *events)
}

func TestStoreRefreshedKeepsIdentity(t *testing.T) {
	ctx := context.Background()
	storage := Scoped(NewMemoryBackend(), "sid")
	s := newTestStore(&fakeAuth{pair: models.TokenPair{AccessToken: mintToken(t, "a@b.c", "SELLER", time.Time{}), RefreshToken: "R1"}}, storage)
	s.Init(ctx)
	_, err := s.Login(ctx, models.Credentials{})
	require.NoError(t, err)
	events := collect(s)

	s.Refreshed(ctx, models.TokenPair{AccessToken: "A2", RefreshToken: "R2"})

	u, ok := s.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, models.RoleSeller, u.Role)
	assert.Equal(t, "A2", s.AccessToken())
	assert.Equal(t, "R2", s.RefreshToken())
	v, _ := storage.Get(ctx, AccessTokenKey)
	assert.Equal(t, "A2", v)
	assert.Equal(t, []EventType{EventRefreshed}, *events)
}

func TestStoreExpirePublishesExpired(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(&fakeAuth{pair: models.TokenPair{AccessToken: mintToken(t, "a@b.c", "USER", time.Time{}), RefreshToken: "R1"}}, Scoped(NewMemoryBackend(), "sid"))
	s.Init(ctx)
	_, err := s.Login(ctx, models.Credentials{})
	require.NoError(t, err)
	events := collect(s)

	s.Expire(ctx)

	_, ok := s.CurrentUser()
	assert.False(t, ok)
	assert.Equal(t, []EventType{EventExpired}, *events)
}

func TestStoreUnsubscribe(t *testing.T) {
	s := newTestStore(&fakeAuth{}, Scoped(NewMemoryBackend(), "sid"))
	n := 0
	unsubscribe := s.Subscribe(func(Event) { n++ })
	unsubscribe()
	unsubscribe()
	s.Init(context.Background())
	assert.Equal(t, 0, n)
}
