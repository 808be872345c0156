package repository

import (
	"context"
	"strings"

	redisapp "surprise_week/internal/storage/redis"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisProgressRepo keeps viewed flags in redis, one key per device+surprise.
// Writes are idempotent set-if-anything operations; there is no TTL because a
// viewed surprise stays viewed.
type RedisProgressRepo struct {
	Client *redisapp.Client
}

func NewRedisProgressRepo(client *redisapp.Client) *RedisProgressRepo {
	return &RedisProgressRepo{Client: client}
}

func (r *RedisProgressRepo) MarkViewed(ctx context.Context, deviceID string, surpriseID uuid.UUID) error {
	return r.Client.Set(ctx, viewedKey(deviceID, surpriseID.String()), "1", 0).Err()
}

func (r *RedisProgressRepo) IsViewed(ctx context.Context, deviceID string, surpriseID uuid.UUID) (bool, error) {
	val, err := r.Client.Get(ctx, viewedKey(deviceID, surpriseID.String())).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return val == "1", nil
}

func (r *RedisProgressRepo) ViewedIDs(ctx context.Context, deviceID string) (map[uuid.UUID]bool, error) {
	keys, err := r.Client.Keys(ctx, viewedKey(deviceID, "*")).Result()
	if err != nil {
		return nil, err
	}

	viewed := make(map[uuid.UUID]bool, len(keys))
	for _, key := range keys {
		raw := key[strings.LastIndex(key, ":")+1:]
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		viewed[id] = true
	}
	return viewed, nil
}

func viewedKey(deviceID, surpriseID string) string {
	return "viewed:" + deviceID + ":" + surpriseID
}
