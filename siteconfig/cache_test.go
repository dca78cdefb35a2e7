package siteconfig_test

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/yutingli1123/plumasphere-go/siteconfig"
	"github.com/yutingli1123/plumasphere-go/store"
	"github.com/yutingli1123/plumasphere-go/store/storefake"
)

type fakeSystemClient struct {
	version      string
	versionErr   error
	entries      []siteconfig.Entry
	entriesErr   error
	versionCalls int32
	statusCalls  int32
	block        chan struct{}
}

func (f *fakeSystemClient) GetStatus(context.Context) ([]siteconfig.Entry, error) {
	atomic.AddInt32(&f.statusCalls, 1)
	if f.entriesErr != nil {
		return nil, f.entriesErr
	}
	return f.entries, nil
}

func (f *fakeSystemClient) GetStatusVersion(context.Context) (string, error) {
	atomic.AddInt32(&f.versionCalls, 1)
	if f.block != nil {
		<-f.block
	}
	if f.versionErr != nil {
		return "", f.versionErr
	}
	return f.version, nil
}

func persistConfig(t *testing.T, kv store.KVStore, version string, entries ...siteconfig.Entry) {
	t.Helper()
	entries = append(entries, siteconfig.Entry{ConfigKey: "config_version", ConfigValue: version})
	raw, err := json.Marshal(entries)
	require.NoError(t, err)
	require.NoError(t, kv.Set(store.KeyConfig, string(raw)))
}

func TestCacheHitSkipsFullFetch(t *testing.T) {
	kv := storefake.NewFakeStore()
	persistConfig(t, kv, "1.0.0", siteconfig.Entry{ConfigKey: siteconfig.KeyBlogTitle, ConfigValue: "Pluma"})

	client := &fakeSystemClient{version: "1.0.0"}
	cache, err := siteconfig.New(kv, client)
	require.NoError(t, err)

	require.NoError(t, cache.InitialConfig(context.Background()))
	require.Zero(t, atomic.LoadInt32(&client.statusCalls), "matching version must not refetch")

	title, ok := cache.GetConfig(siteconfig.KeyBlogTitle)
	require.True(t, ok)
	require.Equal(t, "Pluma", title)
}

func TestCacheMissRefetchesAndPersists(t *testing.T) {
	kv := storefake.NewFakeStore()
	persistConfig(t, kv, "0.9.0", siteconfig.Entry{ConfigKey: siteconfig.KeyBlogTitle, ConfigValue: "Old"})

	client := &fakeSystemClient{
		version: "1.0.0",
		entries: []siteconfig.Entry{{ConfigKey: siteconfig.KeyBlogTitle, ConfigValue: "New"}},
	}
	cache, err := siteconfig.New(kv, client)
	require.NoError(t, err)

	require.NoError(t, cache.InitialConfig(context.Background()))
	require.EqualValues(t, 1, atomic.LoadInt32(&client.statusCalls))

	title, ok := cache.GetConfig(siteconfig.KeyBlogTitle)
	require.True(t, ok)
	require.Equal(t, "New", title)

	raw, ok := kv.Get(store.KeyConfig)
	require.True(t, ok)
	var persisted []siteconfig.Entry
	require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
	require.Contains(t, persisted, siteconfig.Entry{ConfigKey: "config_version", ConfigValue: "1.0.0"})
}

func TestBootstrapDeduplication(t *testing.T) {
	kv := storefake.NewFakeStore()
	client := &fakeSystemClient{
		version: "1.0.0",
		entries: []siteconfig.Entry{{ConfigKey: siteconfig.KeyBlogTitle, ConfigValue: "Pluma"}},
		block:   make(chan struct{}),
	}
	cache, err := siteconfig.New(kv, client)
	require.NoError(t, err)

	const callers = 3
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, cache.InitialConfig(context.Background()))
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(client.block)
	wg.Wait()

	require.EqualValues(t, 1, atomic.LoadInt32(&client.versionCalls))
	require.EqualValues(t, 1, atomic.LoadInt32(&client.statusCalls))
}

func TestInitialConfigIdempotentAfterLoad(t *testing.T) {
	kv := storefake.NewFakeStore()
	client := &fakeSystemClient{
		version: "1.0.0",
		entries: []siteconfig.Entry{{ConfigKey: siteconfig.KeyBlogTitle, ConfigValue: "Pluma"}},
	}
	cache, err := siteconfig.New(kv, client)
	require.NoError(t, err)

	require.NoError(t, cache.InitialConfig(context.Background()))
	require.NoError(t, cache.InitialConfig(context.Background()))
	require.EqualValues(t, 1, atomic.LoadInt32(&client.versionCalls))
}

func TestVersionEntryNeverVisible(t *testing.T) {
	kv := storefake.NewFakeStore()
	persistConfig(t, kv, "1.0.0", siteconfig.Entry{ConfigKey: siteconfig.KeyBlogTitle, ConfigValue: "Pluma"})

	cache, err := siteconfig.New(kv, &fakeSystemClient{version: "1.0.0"})
	require.NoError(t, err)
	require.NoError(t, cache.InitialConfig(context.Background()))

	_, ok := cache.GetConfig("config_version")
	require.False(t, ok)
}

func TestGetConfigBeforeLoad(t *testing.T) {
	cache, err := siteconfig.New(storefake.NewFakeStore(), &fakeSystemClient{})
	require.NoError(t, err)

	_, ok := cache.GetConfig(siteconfig.KeyBlogTitle)
	require.False(t, ok)
	require.False(t, cache.Loaded())
}

func TestOfflineBootstrapAdoptsCachedEntries(t *testing.T) {
	kv := storefake.NewFakeStore()
	persistConfig(t, kv, "1.0.0", siteconfig.Entry{ConfigKey: siteconfig.KeyBlogTitle, ConfigValue: "Pluma"})

	client := &fakeSystemClient{versionErr: errors.New("network down")}
	cache, err := siteconfig.New(kv, client)
	require.NoError(t, err)

	require.NoError(t, cache.InitialConfig(context.Background()))
	title, ok := cache.GetConfig(siteconfig.KeyBlogTitle)
	require.True(t, ok)
	require.Equal(t, "Pluma", title)
}

func TestResetAndRefresh(t *testing.T) {
	kv := storefake.NewFakeStore()
	client := &fakeSystemClient{
		version: "1.0.0",
		entries: []siteconfig.Entry{{ConfigKey: siteconfig.KeyBlogTitle, ConfigValue: "Pluma"}},
	}
	cache, err := siteconfig.New(kv, client)
	require.NoError(t, err)
	require.NoError(t, cache.InitialConfig(context.Background()))

	cache.ResetConfig()
	require.False(t, cache.Loaded())
	_, ok := kv.Get(store.KeyConfig)
	require.False(t, ok)

	client.version = "1.1.0"
	client.entries = []siteconfig.Entry{{ConfigKey: siteconfig.KeyBlogTitle, ConfigValue: "Renamed"}}
	require.NoError(t, cache.RefreshConfig(context.Background()))

	title, ok := cache.GetConfig(siteconfig.KeyBlogTitle)
	require.True(t, ok)
	require.Equal(t, "Renamed", title)

	raw, ok := kv.Get(store.KeyConfig)
	require.True(t, ok)
	require.Contains(t, raw, "1.1.0")
}
