// Package session remembers the most recent classification per session so a
// result can be shown again without recomputing it.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"traveler-classifier/internal/classifier"
	"traveler-classifier/internal/common/config"
	"traveler-classifier/internal/common/database"
	"traveler-classifier/internal/models"
)

var ErrNotFound = errors.New("session: no classification stored")

type Store interface {
	Save(ctx context.Context, sessionID string, record *models.ClassificationRecord) error
	Last(ctx context.Context, sessionID string) (*models.ClassificationRecord, error)
	Clear(ctx context.Context, sessionID string) error
}

// NewStore picks the backend named in cfg.Session. The redis client is only
// required for the redis backend.
func NewStore(cfg *config.Config, redisClient *database.RedisClient) (Store, error) {
	ttl := cfg.Session.TTLDuration()
	if ttl <= 0 {
		return nil, fmt.Errorf("session: ttl must be positive, got %s", ttl)
	}
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		if redisClient == nil {
			return nil, errors.New("session: redis backend selected without a redis client")
		}
		return NewRedisStore(redisClient.Client, ttl), nil
	default:
		return NewMemoryStore(cfg.Session.MaxEntries, ttl), nil
	}
}

func clone(r *models.ClassificationRecord) *models.ClassificationRecord {
	out := *r
	if r.Scores != nil {
		out.Scores = make(classifier.Scores, len(r.Scores))
		for c, v := range r.Scores {
			out.Scores[c] = v
		}
	}
	out.RelevantConstructs = append([]classifier.Construct(nil), r.RelevantConstructs...)
	out.Routes = append([]string(nil), r.Routes...)
	out.Persona.Constructs = append([]classifier.Construct(nil), r.Persona.Constructs...)
	return &out
}

func expiry(ttl time.Duration) time.Time {
	return time.Now().UTC().Add(ttl)
}
