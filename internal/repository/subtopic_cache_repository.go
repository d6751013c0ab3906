package repository

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const subtopicDetailKeyPrefix = "subtopic_detail:"

// SubtopicCacheRepository 子主题讲解内容的 Redis 读穿缓存，数据库仍是最终存储
type SubtopicCacheRepository struct {
	Redis *redis.Client
}

func NewSubtopicCacheRepository(rdb *redis.Client) *SubtopicCacheRepository {
	return &SubtopicCacheRepository{Redis: rdb}
}

func (r *SubtopicCacheRepository) Get(ctx context.Context, subtopic string) (string, bool, error) {
	val, err := r.Redis.Get(ctx, subtopicDetailKeyPrefix+subtopic).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (r *SubtopicCacheRepository) Set(ctx context.Context, subtopic, text string, ttl time.Duration) error {
	return r.Redis.Set(ctx, subtopicDetailKeyPrefix+subtopic, text, ttl).Err()
}
