package filestore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yutingli1123/plumasphere-go/store/filestore"
)

func TestSetGetRemove(t *testing.T) {
	dir := t.TempDir()

	fs, err := filestore.New(dir, "state.json")
	require.NoError(t, err)

	_, ok := fs.Get("tokenPair")
	require.False(t, ok)

	require.NoError(t, fs.Set("tokenPair", `{"accessToken":{}}`))

	value, ok := fs.Get("tokenPair")
	require.True(t, ok)
	require.Equal(t, `{"accessToken":{}}`, value)

	require.NoError(t, fs.Remove("tokenPair"))
	_, ok = fs.Get("tokenPair")
	require.False(t, ok)

	// removing an absent key is a no-op
	require.NoError(t, fs.Remove("tokenPair"))
}

func TestSurvivesReload(t *testing.T) {
	dir := t.TempDir()

	fs, err := filestore.New(dir, "state.json")
	require.NoError(t, err)
	require.NoError(t, fs.Set("loggedIn", "true"))
	require.NoError(t, fs.Set("config", `[{"configKey":"BLOG_TITLE","configValue":"Pluma"}]`))

	reloaded, err := filestore.New(dir, "state.json")
	require.NoError(t, err)

	value, ok := reloaded.Get("loggedIn")
	require.True(t, ok)
	require.Equal(t, "true", value)

	value, ok = reloaded.Get("config")
	require.True(t, ok)
	require.Contains(t, value, "BLOG_TITLE")
}

func TestCorruptFileTreatedAsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "state.json"), []byte("{not json"), 0o600))

	fs, err := filestore.New(dir, "state.json")
	require.NoError(t, err)

	_, ok := fs.Get("loggedIn")
	require.False(t, ok)

	// store remains usable after discarding the corrupt blob
	require.NoError(t, fs.Set("loggedIn", "true"))
	value, ok := fs.Get("loggedIn")
	require.True(t, ok)
	require.Equal(t, "true", value)
}
