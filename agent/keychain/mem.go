package keychain

import "sync"

// MemStore is an in-memory Store. It's for the tests and for dry runs where
// nothing may be written to disk.
type MemStore struct {
	l sync.Mutex
	m map[string][]byte

	// FailDelete makes Delete fail for the key, if set.
	FailDelete func(key string) error
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{m: make(map[string][]byte)}
}

func (s *MemStore) Get(key string) ([]byte, bool, error) {
	s.l.Lock()
	defer s.l.Unlock()

	v, ok := s.m[key]
	if !ok {
		return nil, false, nil
	}
	return append(v[:0:0], v...), true, nil
}

func (s *MemStore) Set(key string, value []byte) error {
	s.l.Lock()
	defer s.l.Unlock()

	s.m[key] = append(value[:0:0], value...)
	return nil
}

func (s *MemStore) Delete(key string) error {
	s.l.Lock()
	defer s.l.Unlock()

	if s.FailDelete != nil {
		if err := s.FailDelete(key); err != nil {
			return err
		}
	}
	delete(s.m, key)
	return nil
}

// Len returns the count of the stored keys.
func (s *MemStore) Len() int {
	s.l.Lock()
	defer s.l.Unlock()
	return len(s.m)
}
