package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sanctuary/backend/internal/models"
)

const (
	liveVideosKey = "cache:live-videos"
	liveChannel   = "live"
)

type RedisClient struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisClient creates a new Redis client
func NewRedisClient(addr, password string, db int) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisClient{
		client: client,
		ctx:    ctx,
	}, nil
}

// NewFromClient wraps an existing client
func NewFromClient(client *redis.Client) *RedisClient {
	return &RedisClient{client: client, ctx: context.Background()}
}

// Close closes the Redis connection
func (r *RedisClient) Close() error {
	return r.client.Close()
}

// Live video query cache

// GetLiveVideos returns the cached collection; ok is false on a miss
func (r *RedisClient) GetLiveVideos() ([]models.LiveVideo, bool, error) {
	data, err := r.client.Get(r.ctx, liveVideosKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var videos []models.LiveVideo
	if err := json.Unmarshal(data, &videos); err != nil {
		return nil, false, fmt.Errorf("corrupt live video cache: %w", err)
	}
	return videos, true, nil
}

// SetLiveVideos caches the collection for ttl
func (r *RedisClient) SetLiveVideos(videos []models.LiveVideo, ttl time.Duration) error {
	data, err := json.Marshal(videos)
	if err != nil {
		return err
	}
	return r.client.Set(r.ctx, liveVideosKey, data, ttl).Err()
}

// InvalidateLiveVideos drops the cached collection
func (r *RedisClient) InvalidateLiveVideos() error {
	return r.client.Del(r.ctx, liveVideosKey).Err()
}

// Pub/Sub

// PublishLiveUpdate publishes the current embed to every replica
func (r *RedisClient) PublishLiveUpdate(payload models.WSLivePayload) error {
	data, err := json.Marshal(models.WSMessage{Event: models.EventLiveUpdate, Payload: payload})
	if err != nil {
		return err
	}
	return r.client.Publish(r.ctx, liveChannel, data).Err()
}

// SubscribeToLive subscribes to live updates
func (r *RedisClient) SubscribeToLive() *redis.PubSub {
	return r.client.Subscribe(r.ctx, liveChannel)
}

// GetClient returns the underlying Redis client
func (r *RedisClient) GetClient() *redis.Client {
	return r.client
}

// AllowAction implements a Redis-backed token-bucket limiter per key (subject+action).
// Returns true if the action is allowed, false if rate-limited.
func (r *RedisClient) AllowAction(subject string, action string, rate int, burst int) (bool, error) {
	key := fmt.Sprintf("rl:%s:%s", action, subject)
	// Lua script: manage tokens and last timestamp
	script := `
local key = KEYS[1]
local rate = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local vals = redis.call('HMGET', key, 'tokens', 'last')
local tokens = tonumber(vals[1])
local last = tonumber(vals[2])
if tokens == nil then tokens = burst end
if last == nil then last = now end
local delta = math.max(0, now - last)
local new_tokens = math.min(burst, tokens + (delta * rate / 1000))
local allowed = 0
if new_tokens >= 1 then
	new_tokens = new_tokens - 1
	allowed = 1
end
redis.call('HMSET', key, 'tokens', new_tokens, 'last', now)
redis.call('PEXPIRE', key, 60000)
return allowed
`

	now := time.Now().UnixMilli()
	res, err := r.client.Eval(r.ctx, script, []string{key}, rate, burst, now).Result()
	if err != nil {
		return false, err
	}
	switch v := res.(type) {
	case int64:
		return v == 1, nil
	default:
		return false, fmt.Errorf("unexpected result from rate limiter: %T %v", res, res)
	}
}
