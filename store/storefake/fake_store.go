package storefake

import (
	"sync"

	"github.com/yutingli1123/plumasphere-go/store"
)

var _ store.KVStore = (*FakeStore)(nil)

// FakeStore is an in-memory KVStore for tests.
type FakeStore struct {
	lock sync.RWMutex
	data map[string]string
}

func NewFakeStore() *FakeStore {
	return &FakeStore{data: make(map[string]string)}
}

func (s *FakeStore) Get(key string) (string, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	value, ok := s.data[key]
	return value, ok
}

func (s *FakeStore) Set(key, value string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.data[key] = value
	return nil
}

func (s *FakeStore) Remove(key string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	delete(s.data, key)
	return nil
}
