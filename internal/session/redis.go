package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"traveler-classifier/internal/models"
)

const keyPrefix = "traveler:last:"

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func Key(sessionID string) string {
	return keyPrefix + sessionID
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, record *models.ClassificationRecord) error {
	if sessionID == "" || record == nil {
		return errors.New("session: session id and record are required")
	}

	stored := clone(record)
	stored.SessionID = sessionID
	stored.ExpiresAt = expiry(s.ttl)

	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("marshal classification record: %w", err)
	}
	if err := s.client.Set(ctx, Key(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", Key(sessionID), err)
	}
	return nil
}

func (s *RedisStore) Last(ctx context.Context, sessionID string) (*models.ClassificationRecord, error) {
	data, err := s.client.Get(ctx, Key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", Key(sessionID), err)
	}

	var record models.ClassificationRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("unmarshal classification record: %w", err)
	}
	return &record, nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, Key(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", Key(sessionID), err)
	}
	return nil
}
