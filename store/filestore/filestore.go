package filestore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/yutingli1123/plumasphere-go/store"
)

var _ store.KVStore = (*FileStore)(nil)

// FileStore persists keys as a single JSON object in a file under the
// client's data directory. Writes go through a temp file rename so a
// crashed write never leaves a half-written blob behind.
type FileStore struct {
	path string
	lock sync.Mutex
	data map[string]string
}

// New loads (or creates) the store file at dir/name. A file that fails to
// parse is treated as empty rather than trusted.
func New(dir, name string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(err, "[filestore.New] MkdirAll")
	}

	fs := &FileStore{
		path: filepath.Join(dir, name),
		data: make(map[string]string),
	}

	raw, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fs, nil
		}
		return nil, errors.Wrap(err, "[filestore.New] ReadFile")
	}

	if err := json.Unmarshal(raw, &fs.data); err != nil {
		fs.data = make(map[string]string)
	}

	return fs, nil
}

func (fs *FileStore) Get(key string) (string, bool) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	value, ok := fs.data[key]
	return value, ok
}

func (fs *FileStore) Set(key, value string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	fs.data[key] = value
	return fs.flush()
}

func (fs *FileStore) Remove(key string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if _, ok := fs.data[key]; !ok {
		return nil
	}
	delete(fs.data, key)
	return fs.flush()
}

func (fs *FileStore) flush() error {
	raw, err := json.MarshalIndent(fs.data, "", "  ")
	if err != nil {
		return errors.Wrap(err, "[FileStore.flush] Marshal")
	}

	tmp := fs.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return errors.Wrap(err, "[FileStore.flush] WriteFile")
	}
	if err := os.Rename(tmp, fs.path); err != nil {
		return errors.Wrap(err, "[FileStore.flush] Rename")
	}
	return nil
}
