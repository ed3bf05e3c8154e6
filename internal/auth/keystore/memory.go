package keystore

import (
	"context"
	"errors"
	"sync"
	"time"
)

type memoryEntry struct {
	subject   string
	expiresAt time.Time
}

// MemoryStore is the in-process KeyStore used in development and tests.
// Expiry is enforced on read; a background sweeper reclaims entries nobody
// ever redeems.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry

	sweepInterval time.Duration
	stopCh        chan struct{}
	doneCh        chan struct{}
	started       bool
}

// NewMemoryStore creates a memory store. If sweepInterval is 0 or negative,
// defaults to 1 hour.
func NewMemoryStore(sweepInterval time.Duration) *MemoryStore {
	if sweepInterval <= 0 {
		sweepInterval = 1 * time.Hour
	}
	return &MemoryStore{
		entries:       make(map[string]memoryEntry),
		sweepInterval: sweepInterval,
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
	}
}

// Start begins the background sweeper. Non-blocking; call Close to shut it
// down.
func (s *MemoryStore) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	go s.run()
}

func (s *MemoryStore) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

func (s *MemoryStore) sweep() {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	for key, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, key)
		}
	}
}

func (s *MemoryStore) Put(ctx context.Context, key, subject string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultKeyTTL
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok && now.Before(e.expiresAt) {
		return errors.New("keystore: key already exists")
	}
	s.entries[key] = memoryEntry{
		subject:   subject,
		expiresAt: now.Add(ttl),
	}
	return nil
}

func (s *MemoryStore) Redeem(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	// Delete either way; an expired entry is garbage.
	delete(s.entries, key)

	if time.Now().After(e.expiresAt) {
		return "", ErrKeyNotFound
	}
	return e.subject, nil
}

// Close stops the sweeper. Blocks until the worker has exited.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	started := s.started
	s.started = false
	s.mu.Unlock()

	if started {
		close(s.stopCh)
		<-s.doneCh
	}
	return nil
}
