package service

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrSessionNotFound means the download was never produced or has expired.
var ErrSessionNotFound = errors.New("conversion session not found or expired")

// Download is a produced spreadsheet waiting to be fetched.
type Download struct {
	FileName  string
	Data      []byte
	ExpiresAt time.Time
}

// SessionStore keeps produced spreadsheets in memory until their TTL runs
// out. Nothing is written to disk.
type SessionStore struct {
	mu      sync.Mutex
	items   map[uuid.UUID]Download
	ttl     time.Duration
	now     func() time.Time
	stop    chan struct{}
	stopped sync.Once
	logger  *zap.Logger
}

// NewSessionStore starts a store whose janitor evicts expired entries every
// ttl/2 until Close is called.
func NewSessionStore(ttl time.Duration, logger *zap.Logger) *SessionStore {
	s := &SessionStore{
		items:  make(map[uuid.UUID]Download),
		ttl:    ttl,
		now:    time.Now,
		stop:   make(chan struct{}),
		logger: logger,
	}
	go s.janitor(ttl / 2)
	return s
}

// Put stores a download under id.
func (s *SessionStore) Put(id uuid.UUID, fileName string, data []byte) Download {
	d := Download{
		FileName:  fileName,
		Data:      data,
		ExpiresAt: s.now().Add(s.ttl),
	}
	s.mu.Lock()
	s.items[id] = d
	s.mu.Unlock()
	return d
}

// Get returns the download stored under id if it has not expired.
func (s *SessionStore) Get(id uuid.UUID) (Download, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.items[id]
	if !ok {
		return Download{}, ErrSessionNotFound
	}
	if !s.now().Before(d.ExpiresAt) {
		delete(s.items, id)
		return Download{}, ErrSessionNotFound
	}
	return d, nil
}

// Len returns the number of stored sessions, expired ones included.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Evict drops every expired session and returns how many were removed.
func (s *SessionStore) Evict() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, d := range s.items {
		if !now.Before(d.ExpiresAt) {
			delete(s.items, id)
			removed++
		}
	}
	return removed
}

// Close stops the janitor. The store stays usable.
func (s *SessionStore) Close() {
	s.stopped.Do(func() { close(s.stop) })
}

func (s *SessionStore) janitor(interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if n := s.Evict(); n > 0 {
				s.logger.Debug("Evicted expired sessions", zap.Int("count", n))
			}
		}
	}
}
