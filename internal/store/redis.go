package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"robeurope-backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// RedisStore is the shared ephemeral key-value collaborator: collaborative
// session documents, reminder dedup keys and push subscription sets. Data
// here survives process restarts but carries no durability guarantees.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func sessionKey(teamID uint) string {
	return fmt.Sprintf("codesession:%d", teamID)
}

func pushSubsKey(userID uint) string {
	return fmt.Sprintf("push:subs:%d", userID)
}

func (s *RedisStore) GetSession(ctx context.Context, teamID uint) ([]models.SessionFile, error) {
	raw, err := s.client.Get(ctx, sessionKey(teamID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var files []models.SessionFile
	if err := json.Unmarshal([]byte(raw), &files); err != nil {
		return nil, fmt.Errorf("decode session %d: %w", teamID, err)
	}
	return files, nil
}

func (s *RedisStore) PutSession(ctx context.Context, teamID uint, files []models.SessionFile) error {
	raw, err := json.Marshal(files)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(teamID), raw, 0).Err()
}

// InitSession writes the default document only when the key is absent
// (SETNX), then reads back whatever is stored. Two concurrent joiners both
// observe the same single default set.
func (s *RedisStore) InitSession(ctx context.Context, teamID uint, defaults []models.SessionFile) ([]models.SessionFile, error) {
	raw, err := json.Marshal(defaults)
	if err != nil {
		return nil, err
	}
	if err := s.client.SetNX(ctx, sessionKey(teamID), raw, 0).Err(); err != nil {
		return nil, err
	}
	return s.GetSession(ctx, teamID)
}

func (s *RedisStore) ClaimKey(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, key, 1, ttl).Result()
}

func (s *RedisStore) Subscriptions(ctx context.Context, userID uint) ([]models.PushSubscription, error) {
	raws, err := s.client.SMembers(ctx, pushSubsKey(userID)).Result()
	if err != nil {
		return nil, err
	}

	subs := make([]models.PushSubscription, 0, len(raws))
	for _, raw := range raws {
		var sub models.PushSubscription
		if err := json.Unmarshal([]byte(raw), &sub); err != nil {
			// a corrupted member must not block delivery to the rest
			continue
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

func (s *RedisStore) AddSubscription(ctx context.Context, userID uint, sub models.PushSubscription) error {
	raw, err := json.Marshal(sub)
	if err != nil {
		return err
	}
	return s.client.SAdd(ctx, pushSubsKey(userID), raw).Err()
}

func (s *RedisStore) RemoveSubscription(ctx context.Context, userID uint, endpoint string) error {
	raws, err := s.client.SMembers(ctx, pushSubsKey(userID)).Result()
	if err != nil {
		return err
	}
	for _, raw := range raws {
		var sub models.PushSubscription
		if err := json.Unmarshal([]byte(raw), &sub); err != nil {
			continue
		}
		if sub.Endpoint == endpoint {
			if err := s.client.SRem(ctx, pushSubsKey(userID), raw).Err(); err != nil {
				return err
			}
		}
	}
	return nil
}
