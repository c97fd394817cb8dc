// Package session provides per-conversation state storage for the
// recommendation chat.
package session

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bookcrews/community-platform/internal/model"
	"github.com/bookcrews/community-platform/pkg/logger"
	"github.com/bookcrews/community-platform/pkg/metrics"
)

// Store abstracts session persistence so the conversation engine never
// touches the backing map directly. The in-memory implementation can later
// be swapped for an external key-value store.
type Store interface {
	// GetOrCreate returns the session for id, creating it lazily on first
	// reference. The returned session is owned exclusively by the caller
	// for the duration of the turn.
	GetOrCreate(id string) *model.Session

	// Upsert writes the session back after a turn mutates it.
	Upsert(s *model.Session)

	// Sweep removes every session older than the retention window and
	// returns the number removed.
	Sweep() int

	// Len reports the number of live sessions.
	Len() int
}

// MemoryStore is the in-process Store implementation.
type MemoryStore struct {
	mu        sync.RWMutex
	sessions  map[string]*model.Session
	retention time.Duration
	logger    *logger.Logger
}

// DefaultRetention is how long a session is kept after creation.
const DefaultRetention = 2 * time.Hour

// NewMemoryStore creates an in-memory session store.
func NewMemoryStore(retention time.Duration, log *logger.Logger) *MemoryStore {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &MemoryStore{
		sessions:  make(map[string]*model.Session),
		retention: retention,
		logger:    log,
	}
}

// GetOrCreate returns the session for id, creating it if unseen.
func (s *MemoryStore) GetOrCreate(id string) *model.Session {
	if id == "" {
		id = model.DefaultSessionID
	}

	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		return sess
	}
	sess = &model.Session{
		ID:        id,
		CreatedAt: time.Now(),
	}
	s.sessions[id] = sess
	metrics.SessionsActive.Set(float64(len(s.sessions)))
	return sess
}

// Upsert stores the session.
func (s *MemoryStore) Upsert(sess *model.Session) {
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	metrics.SessionsActive.Set(float64(len(s.sessions)))
	s.mu.Unlock()
}

// Sweep drops sessions whose age exceeds the retention window.
func (s *MemoryStore) Sweep() int {
	cutoff := time.Now().Add(-s.retention)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.CreatedAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		metrics.SessionsSwept.Add(float64(removed))
		metrics.SessionsActive.Set(float64(len(s.sessions)))
		s.logger.Info("swept expired sessions",
			zap.Int("removed", removed),
			zap.Int("remaining", len(s.sessions)),
		)
	}
	return removed
}

// Len reports the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
