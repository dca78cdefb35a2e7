package siteconfig

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/yutingli1123/plumasphere-go/store"
)

// Well-known configuration keys served by the backend.
const (
	KeyInitialized  = "INITIALIZED"
	KeyBlogTitle    = "BLOG_TITLE"
	KeyBlogSubtitle = "BLOG_SUBTITLE"
	KeyPageSize     = "PAGE_SIZE"

	// versionKey is the reserved entry carrying the cache's version tag. It
	// is persisted alongside the real entries but never visible to GetConfig.
	versionKey = "config_version"
)

// Entry is one configuration key/value as served by GET /status.
type Entry struct {
	ConfigKey   string `json:"configKey"`
	ConfigValue string `json:"configValue"`
}

// SystemClient is the slice of the system API the cache needs.
type SystemClient interface {
	GetStatus(ctx context.Context) ([]Entry, error)
	GetStatusVersion(ctx context.Context) (string, error)
}

// Cache makes the site configuration available synchronously after one
// asynchronous bootstrap, kept fresh across deployments by comparing the
// persisted version tag against the server's.
type Cache struct {
	store  store.KVStore
	client SystemClient
	log    zerolog.Logger

	lock    sync.RWMutex
	entries map[string]string
	loaded  bool

	bootstrapFlight singleflight.Group
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the cache's logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Cache) {
		c.log = log
	}
}

// New creates a configuration cache over the given store and system client.
func New(kv store.KVStore, client SystemClient, options ...Option) (*Cache, error) {
	if kv == nil {
		return nil, errors.New("[siteconfig.New] store is required")
	}
	if client == nil {
		return nil, errors.New("[siteconfig.New] system client is required")
	}

	c := &Cache{
		store:  kv,
		client: client,
		log:    zerolog.Nop(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// InitialConfig bootstraps the cache: cached entries whose version tag
// matches the server's current version are accepted as-is, anything else is
// refetched wholesale. Concurrent callers join a single underlying fetch;
// once loaded, further calls are no-ops.
func (c *Cache) InitialConfig(ctx context.Context) error {
	c.lock.RLock()
	if c.loaded {
		c.lock.RUnlock()
		return nil
	}
	c.lock.RUnlock()

	_, err, _ := c.bootstrapFlight.Do("bootstrap", func() (interface{}, error) {
		return nil, c.bootstrap(ctx)
	})
	return err
}

// GetConfig looks up a key in the loaded entries. It never triggers network
// I/O and reports false when the cache is not loaded or the key is absent.
// The reserved version entry is never returned.
func (c *Cache) GetConfig(key string) (string, bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	if !c.loaded {
		return "", false
	}
	value, ok := c.entries[key]
	return value, ok
}

// Loaded reports whether the bootstrap has completed.
func (c *Cache) Loaded() bool {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.loaded
}

// ResetConfig drops the in-memory and persisted cache.
func (c *Cache) ResetConfig() {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.entries = nil
	c.loaded = false
	if err := c.store.Remove(store.KeyConfig); err != nil {
		c.log.Warn().Err(err).Msg("remove persisted config")
	}
}

// RefreshConfig unconditionally refetches the configuration and overwrites
// both memory and the persisted blob, used after settings changes.
func (c *Cache) RefreshConfig(ctx context.Context) error {
	version, err := c.client.GetStatusVersion(ctx)
	if err != nil {
		return errors.Wrap(err, "[Cache.RefreshConfig] fetch version")
	}
	return c.fetchAndAdopt(ctx, version)
}

func (c *Cache) bootstrap(ctx context.Context) error {
	cached, cachedVersion, haveCache := c.readPersisted()

	version, err := c.client.GetStatusVersion(ctx)
	if err != nil {
		// Offline tolerance: a cached config is better than none.
		if haveCache {
			c.adopt(cached)
			return nil
		}
		return errors.Wrap(err, "[Cache.bootstrap] fetch version")
	}

	if haveCache && cachedVersion == version {
		c.adopt(cached)
		return nil
	}

	return c.fetchAndAdopt(ctx, version)
}

func (c *Cache) fetchAndAdopt(ctx context.Context, version string) error {
	entries, err := c.client.GetStatus(ctx)
	if err != nil {
		return errors.Wrap(err, "[Cache.fetchAndAdopt] fetch config")
	}

	persisted := append(entries, Entry{ConfigKey: versionKey, ConfigValue: version})
	raw, err := json.Marshal(persisted)
	if err != nil {
		return errors.Wrap(err, "[Cache.fetchAndAdopt] marshal config")
	}
	if err := c.store.Set(store.KeyConfig, string(raw)); err != nil {
		c.log.Warn().Err(err).Msg("persist config")
	}

	c.adopt(persisted)
	return nil
}

// adopt installs entries as current, stripping the reserved version entry
// from the visible mapping.
func (c *Cache) adopt(entries []Entry) {
	visible := make(map[string]string, len(entries))
	for _, entry := range entries {
		if entry.ConfigKey == versionKey {
			continue
		}
		visible[entry.ConfigKey] = entry.ConfigValue
	}

	c.lock.Lock()
	c.entries = visible
	c.loaded = true
	c.lock.Unlock()
}

// readPersisted loads the persisted blob. Malformed blobs or blobs missing
// the version entry are treated as absent.
func (c *Cache) readPersisted() ([]Entry, string, bool) {
	raw, ok := c.store.Get(store.KeyConfig)
	if !ok {
		return nil, "", false
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		c.log.Warn().Msg("discarding malformed persisted config")
		return nil, "", false
	}

	for _, entry := range entries {
		if entry.ConfigKey == versionKey {
			return entries, entry.ConfigValue, true
		}
	}
	return nil, "", false
}
