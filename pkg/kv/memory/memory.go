package memory

import (
	"context"
	"sync"
	"time"

	"github.com/staffdir/staffdir-backend/pkg/kv"
)

// Store is an in-memory implementation of kv.Store with lazy TTL expiry
// plus an optional background janitor that sweeps expired keys.
type Store struct {
	mu          sync.RWMutex
	values      map[string][]byte
	expirations map[string]time.Time

	janitorStop chan struct{}
	janitorDone chan struct{}
}

// NewStore creates a store with the default janitor interval.
func NewStore() *Store {
	return New(30 * time.Second)
}

// New creates a store. A non-positive interval disables the janitor;
// expired keys are then only reclaimed on access.
func New(janitorInterval time.Duration) *Store {
	s := &Store{
		values:      make(map[string][]byte),
		expirations: make(map[string]time.Time),
		janitorStop: make(chan struct{}),
		janitorDone: make(chan struct{}),
	}

	if janitorInterval > 0 {
		go s.janitor(janitorInterval)
	} else {
		close(s.janitorDone)
	}

	return s
}

func (s *Store) janitor(interval time.Duration) {
	defer close(s.janitorDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.janitorStop:
			return
		}
	}
}

func (s *Store) sweep() {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, deadline := range s.expirations {
		if now.After(deadline) {
			delete(s.values, key)
			delete(s.expirations, key)
		}
	}
}

func (s *Store) expired(key string) bool {
	deadline, ok := s.expirations[key]
	return ok && time.Now().After(deadline)
}

func (s *Store) Set(ctx context.Context, key string, value []byte, ttl ...time.Duration) error {
	v := make([]byte, len(value))
	copy(v, value)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = v
	if len(ttl) > 0 && ttl[0] > 0 {
		s.expirations[key] = time.Now().Add(ttl[0])
	} else {
		delete(s.expirations, key)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	value, ok := s.values[key]
	exp := s.expired(key)
	s.mu.RUnlock()

	if !ok {
		return nil, kv.ErrNotFound
	}
	if exp {
		s.mu.Lock()
		delete(s.values, key)
		delete(s.expirations, key)
		s.mu.Unlock()
		return nil, kv.ErrNotFound
	}

	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (s *Store) Del(ctx context.Context, keys ...string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for _, key := range keys {
		if _, ok := s.values[key]; ok {
			delete(s.values, key)
			delete(s.expirations, key)
			removed++
		}
	}
	return removed, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return nil
}

func (s *Store) Close() error {
	select {
	case <-s.janitorDone:
		// janitor already stopped or never started
	default:
		close(s.janitorStop)
		<-s.janitorDone
	}
	return nil
}

var _ kv.Store = (*Store)(nil)
