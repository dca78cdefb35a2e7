package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	clienterrors "github.com/yutingli1123/plumasphere-go/internal/errors"
	"github.com/yutingli1123/plumasphere-go/store"
)

// AuthClient is the slice of the remote auth service the manager needs.
// The api package provides the production implementation.
type AuthClient interface {
	Login(ctx context.Context, username, password string) (*TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
	GetIdentity(ctx context.Context) (*TokenPair, error)
}

// ProfileCache is cleared on logout and refetched after a successful login.
type ProfileCache interface {
	Refresh(ctx context.Context) error
	Clear()
}

// Manager is the single authority over the client's credentials: it owns the
// token pair, decides expiry, refreshes transparently, and persists the pair
// across restarts. All methods are safe for concurrent use.
type Manager struct {
	store   store.KVStore
	auth    AuthClient
	profile ProfileCache
	log     zerolog.Logger
	nowFunc func() time.Time

	lock     sync.Mutex
	pair     *TokenPair
	loggedIn bool

	refreshFlight singleflight.Group
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithNowFunc sets the clock source (primarily for testing).
func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

// WithProfileCache attaches the user profile cache so login/logout keep it
// in sync.
func WithProfileCache(profile ProfileCache) ManagerOption {
	return func(m *Manager) {
		m.profile = profile
	}
}

// WithLogger sets the manager's logger.
func WithLogger(log zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.log = log
	}
}

// NewManager restores any persisted session from the store. A persisted pair
// whose refresh token has already expired, or that fails shape validation,
// is discarded instead of trusted.
func NewManager(kv store.KVStore, auth AuthClient, options ...ManagerOption) (*Manager, error) {
	if kv == nil {
		return nil, errors.New("[NewManager] store is required")
	}
	if auth == nil {
		return nil, errors.New("[NewManager] auth client is required")
	}

	m := &Manager{
		store:   kv,
		auth:    auth,
		log:     zerolog.Nop(),
		nowFunc: time.Now,
	}

	for _, opt := range options {
		opt(m)
	}

	m.restore()
	return m, nil
}

// IsLoggedIn is true only when an explicit login succeeded and the refresh
// token is still usable. An anonymous identity never makes this true.
func (m *Manager) IsLoggedIn() bool {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.loggedIn && m.hasTokenLocked()
}

// HasToken is true when any usable token pair exists, logged in or anonymous.
func (m *Manager) HasToken() bool {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.hasTokenLocked()
}

// GetAccessToken returns a currently-valid access token, refreshing
// transparently when needed. It returns "" without an error when the session
// cannot produce a token (expired refresh token, refresh failure): the
// caller proceeds unauthenticated and the server produces the 401. The only
// error returned is the caller's own context cancellation.
func (m *Manager) GetAccessToken(ctx context.Context) (string, error) {
	m.lock.Lock()
	now := m.nowFunc()

	if m.pair == nil {
		m.lock.Unlock()
		return "", nil
	}

	if !m.pair.AccessToken.Expired(now) {
		token := m.pair.AccessToken.Token
		m.lock.Unlock()
		return token, nil
	}

	if m.pair.RefreshToken.Expired(now) {
		m.logoutLocked()
		m.lock.Unlock()
		return "", nil
	}
	m.lock.Unlock()

	pair, err := m.refreshTokens(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", nil
	}
	return pair.AccessToken.Token, nil
}

// Login authenticates with the remote service. Calling it while already
// logged in is a no-op returning the current pair. On success it persists
// the new pair, marks the session as logged in, and refetches the user
// profile asynchronously.
func (m *Manager) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	m.lock.Lock()
	if m.loggedIn && m.hasTokenLocked() {
		pair := m.pair
		m.lock.Unlock()
		return pair, nil
	}
	m.lock.Unlock()

	pair, err := m.auth.Login(ctx, username, password)
	if err != nil {
		return nil, errors.Wrap(err, clienterrors.ErrLoginFailed.Error())
	}
	if !pair.Valid() {
		return nil, errors.Wrap(clienterrors.ErrMalformedState, "[Manager.Login] incomplete token pair")
	}

	m.lock.Lock()
	m.setTokenPairLocked(pair)
	m.loggedIn = true
	if err := m.store.Set(store.KeyLoggedIn, "true"); err != nil {
		m.log.Warn().Err(err).Msg("persist loggedIn flag")
	}
	m.lock.Unlock()

	m.refreshProfile()
	return pair, nil
}

// GetNewIdentity obtains an anonymous token pair for e.g. commenting without
// an account. It is a no-op returning the existing pair when one is still
// usable, and never marks the session as logged in.
func (m *Manager) GetNewIdentity(ctx context.Context) (*TokenPair, error) {
	m.lock.Lock()
	if m.hasTokenLocked() {
		pair := m.pair
		m.lock.Unlock()
		return pair, nil
	}
	m.lock.Unlock()

	pair, err := m.auth.GetIdentity(ctx)
	if err != nil {
		return nil, errors.Wrap(err, clienterrors.ErrIdentityFailed.Error())
	}
	if !pair.Valid() {
		return nil, errors.Wrap(clienterrors.ErrMalformedState, "[Manager.GetNewIdentity] incomplete token pair")
	}

	m.lock.Lock()
	m.setTokenPairLocked(pair)
	m.lock.Unlock()

	return pair, nil
}

// Logout clears the token pair from memory and the store, clears the cached
// profile, and resets the logged-in flag. Safe to call when already logged
// out.
func (m *Manager) Logout() {
	m.lock.Lock()
	m.logoutLocked()
	m.lock.Unlock()
}

// refreshTokens performs a refresh against the remote service. Concurrent
// callers join the same in-flight refresh: exactly one network call is made
// and every waiter receives the same new pair. Any failure forces full
// teardown so a half-updated pair can never be observed.
func (m *Manager) refreshTokens(ctx context.Context) (*TokenPair, error) {
	result, err, _ := m.refreshFlight.Do("refresh", func() (interface{}, error) {
		m.lock.Lock()
		if m.pair == nil || m.pair.RefreshToken.Expired(m.nowFunc()) {
			m.logoutLocked()
			m.lock.Unlock()
			return nil, clienterrors.ErrRefreshTokenExpired
		}
		refreshToken := m.pair.RefreshToken.Token
		m.lock.Unlock()

		pair, err := m.auth.RefreshToken(ctx, refreshToken)
		if err != nil || !pair.Valid() {
			m.lock.Lock()
			m.logoutLocked()
			m.lock.Unlock()
			if err == nil {
				err = clienterrors.ErrMalformedState
			}
			m.log.Warn().Err(err).Msg("token refresh failed, session torn down")
			return nil, errors.Wrap(err, clienterrors.ErrRefreshFailed.Error())
		}

		m.lock.Lock()
		m.setTokenPairLocked(pair)
		m.lock.Unlock()
		return pair, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*TokenPair), nil
}

// TokenSource adapts the manager to golang.org/x/oauth2 consumers; see
// tokensource.go.

func (m *Manager) hasTokenLocked() bool {
	return m.pair != nil && !m.pair.RefreshToken.Expired(m.nowFunc())
}

func (m *Manager) setTokenPairLocked(pair *TokenPair) {
	m.pair = pair

	raw, err := json.Marshal(pair)
	if err != nil {
		m.log.Warn().Err(err).Msg("serialize token pair")
		return
	}
	if err := m.store.Set(store.KeyTokenPair, string(raw)); err != nil {
		m.log.Warn().Err(err).Msg("persist token pair")
	}
}

func (m *Manager) logoutLocked() {
	m.pair = nil
	m.loggedIn = false
	if err := m.store.Remove(store.KeyTokenPair); err != nil {
		m.log.Warn().Err(err).Msg("remove persisted token pair")
	}
	if err := m.store.Remove(store.KeyLoggedIn); err != nil {
		m.log.Warn().Err(err).Msg("remove persisted loggedIn flag")
	}
	if m.profile != nil {
		m.profile.Clear()
	}
}

// restore reads the persisted session at construction time.
func (m *Manager) restore() {
	m.loggedIn = false
	if flag, ok := m.store.Get(store.KeyLoggedIn); ok && flag == "true" {
		m.loggedIn = true
	}

	raw, ok := m.store.Get(store.KeyTokenPair)
	if !ok {
		return
	}

	var pair TokenPair
	if err := json.Unmarshal([]byte(raw), &pair); err != nil || !pair.Valid() {
		m.log.Warn().Msg("discarding malformed persisted token pair")
		m.discardPersisted()
		return
	}

	if pair.RefreshToken.Expired(m.nowFunc()) {
		m.log.Debug().Msg("discarding expired persisted token pair")
		m.discardPersisted()
		return
	}

	m.pair = &pair
}

func (m *Manager) discardPersisted() {
	m.loggedIn = false
	if err := m.store.Remove(store.KeyTokenPair); err != nil {
		m.log.Warn().Err(err).Msg("remove persisted token pair")
	}
	if err := m.store.Remove(store.KeyLoggedIn); err != nil {
		m.log.Warn().Err(err).Msg("remove persisted loggedIn flag")
	}
}

// refreshProfile kicks off the fire-and-forget profile refetch after login.
func (m *Manager) refreshProfile() {
	if m.profile == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := m.profile.Refresh(ctx); err != nil {
			m.log.Warn().Err(err).Msg("profile refetch after login")
		}
	}()
}
