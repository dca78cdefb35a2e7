package profile

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/yutingli1123/plumasphere-go/api"
	"github.com/yutingli1123/plumasphere-go/session"
)

var _ session.ProfileCache = (*Cache)(nil)

// UserClient is the slice of the user API the cache needs.
type UserClient interface {
	GetMe(ctx context.Context) (*api.User, error)
}

// Cache memoizes the current user's profile. It is cleared on logout and
// refetched on demand or after login.
type Cache struct {
	users UserClient
	log   zerolog.Logger

	lock sync.RWMutex
	user *api.User
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the cache's logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Cache) {
		c.log = log
	}
}

func New(users UserClient, options ...Option) (*Cache, error) {
	if users == nil {
		return nil, errors.New("[profile.New] user client is required")
	}

	c := &Cache{users: users, log: zerolog.Nop()}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// Get returns the memoized profile, fetching it on first use.
func (c *Cache) Get(ctx context.Context) (*api.User, error) {
	c.lock.RLock()
	if c.user != nil {
		user := c.user
		c.lock.RUnlock()
		return user, nil
	}
	c.lock.RUnlock()

	if err := c.Refresh(ctx); err != nil {
		return nil, err
	}

	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.user, nil
}

// Refresh refetches the profile unconditionally.
func (c *Cache) Refresh(ctx context.Context) error {
	user, err := c.users.GetMe(ctx)
	if err != nil {
		return errors.Wrap(err, "[Cache.Refresh] fetch profile")
	}

	c.lock.Lock()
	c.user = user
	c.lock.Unlock()
	return nil
}

// Clear drops the memoized profile.
func (c *Cache) Clear() {
	c.lock.Lock()
	c.user = nil
	c.lock.Unlock()
}
