package session

import (
	"context"
	"errors"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"traveler-classifier/internal/models"
)

// MemoryStore keeps records in a bounded LRU whose entries expire after ttl.
// Used when no redis is configured; state is lost on restart.
type MemoryStore struct {
	cache *expirable.LRU[string, *models.ClassificationRecord]
	ttl   time.Duration
}

func NewMemoryStore(maxEntries int, ttl time.Duration) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = 10000
	}
	return &MemoryStore{
		cache: expirable.NewLRU[string, *models.ClassificationRecord](maxEntries, nil, ttl),
		ttl:   ttl,
	}
}

func (s *MemoryStore) Save(_ context.Context, sessionID string, record *models.ClassificationRecord) error {
	if sessionID == "" || record == nil {
		return errors.New("session: session id and record are required")
	}
	stored := clone(record)
	stored.SessionID = sessionID
	stored.ExpiresAt = expiry(s.ttl)
	s.cache.Add(sessionID, stored)
	return nil
}

func (s *MemoryStore) Last(_ context.Context, sessionID string) (*models.ClassificationRecord, error) {
	record, ok := s.cache.Get(sessionID)
	if !ok || record.IsExpired() {
		return nil, ErrNotFound
	}
	return clone(record), nil
}

func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	s.cache.Remove(sessionID)
	return nil
}

func (s *MemoryStore) Len() int {
	return s.cache.Len()
}
