package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"anoa.com/bloggerplatform/internal/modules/reaction/dto"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

const (
	newestLikesKeyPrefix    = "newest_likes:post:"
	newestLikesGenKeyPrefix = "newest_likes_gen:post:"
)

// NewestLikesCache keeps the derived newest-likes feed of a post.
//
// Every Invalidate bumps the post's generation. A feed rebuilt from the
// database is stored only if the generation read before the rebuild is
// still current, so a rebuild racing a write never outlives it.
type NewestLikesCache interface {
	Get(ctx context.Context, postID uuid.UUID) ([]dto.NewestLike, error)
	Version(ctx context.Context, postID uuid.UUID) (int64, error)
	Set(ctx context.Context, postID uuid.UUID, version int64, likes []dto.NewestLike) error
	Invalidate(ctx context.Context, postID uuid.UUID) error
}

// KEYS[1] feed, KEYS[2] generation; ARGV[1] expected generation, ARGV[2] payload, ARGV[3] ttl ms
var setIfCurrent = redis.NewScript(`
local cur = redis.call("GET", KEYS[2])
if (cur or "0") ~= ARGV[1] then
	return 0
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
return 1
`)

type RedisNewestLikesCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisNewestLikesCache(client *redis.Client, ttl time.Duration) *RedisNewestLikesCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisNewestLikesCache{client: client, ttl: ttl}
}

func newestLikesKey(postID uuid.UUID) string {
	return newestLikesKeyPrefix + postID.String()
}

func newestLikesGenKey(postID uuid.UUID) string {
	return newestLikesGenKeyPrefix + postID.String()
}

// genTTL keeps the generation well past any feed it guards.
func (c *RedisNewestLikesCache) genTTL() time.Duration {
	return 10 * c.ttl
}

func (c *RedisNewestLikesCache) Get(ctx context.Context, postID uuid.UUID) ([]dto.NewestLike, error) {
	data, err := c.client.Get(ctx, newestLikesKey(postID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get newest likes from redis: %w", err)
	}

	var likes []dto.NewestLike
	if err := json.Unmarshal(data, &likes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal newest likes: %w", err)
	}
	if likes == nil {
		likes = []dto.NewestLike{}
	}
	return likes, nil
}

func (c *RedisNewestLikesCache) Version(ctx context.Context, postID uuid.UUID) (int64, error) {
	v, err := c.client.Get(ctx, newestLikesGenKey(postID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get newest likes generation from redis: %w", err)
	}
	return v, nil
}

// Set stores the feed only while version is still the post's generation.
func (c *RedisNewestLikesCache) Set(ctx context.Context, postID uuid.UUID, version int64, likes []dto.NewestLike) error {
	if likes == nil {
		likes = []dto.NewestLike{}
	}
	data, err := json.Marshal(likes)
	if err != nil {
		return fmt.Errorf("failed to marshal newest likes: %w", err)
	}
	keys := []string{newestLikesKey(postID), newestLikesGenKey(postID)}
	args := []interface{}{strconv.FormatInt(version, 10), data, c.ttl.Milliseconds()}
	if err := setIfCurrent.Run(ctx, c.client, keys, args...).Err(); err != nil {
		return fmt.Errorf("failed to set newest likes in redis: %w", err)
	}
	return nil
}

func (c *RedisNewestLikesCache) Invalidate(ctx context.Context, postID uuid.UUID) error {
	genKey := newestLikesGenKey(postID)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.PExpire(ctx, genKey, c.genTTL())
		pipe.Del(ctx, newestLikesKey(postID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate newest likes in redis: %w", err)
	}
	return nil
}
