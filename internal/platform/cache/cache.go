package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client is a best-effort key-value cache on Redis. It is strictly an
// optimization: a nil client behaves like an always-empty cache, and
// callers map every returned error to a miss. Correctness never depends
// on a cache hit.
type Client struct {
	rdb *redis.Client
}

// New connects a Redis client. An empty addr returns a disabled client
// so the application runs without a cache backend.
func New(addr, password string, db int) *Client {
	if addr == "" {
		return &Client{}
	}
	return &Client{rdb: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

// NewFromClient wraps an existing redis client; used by tests.
func NewFromClient(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

// Enabled reports whether a cache backend is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.rdb != nil
}

// Get returns the string value of key. found is false on a clean miss;
// a non-nil error means the backend failed and callers should treat the
// read as a miss.
func (c *Client) Get(ctx context.Context, key string) (string, bool, error) {
	if !c.Enabled() {
		return "", false, nil
	}
	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return val, true, nil
}

// GetJSON unmarshals the cached JSON value of key into dest.
func (c *Client) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	val, found, err := c.Get(ctx, key)
	if err != nil || !found {
		return false, err
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores a string value with the given TTL.
func (c *Client) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

// SetJSON marshals obj and stores it with the given TTL.
func (c *Client) SetJSON(ctx context.Context, key string, obj any, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	raw, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, raw, ttl).Err()
}

// Del removes keys.
func (c *Client) Del(ctx context.Context, keys ...string) error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// TokenKey is the cache key of a bearer token's validity record.
func TokenKey(token string) string {
	return "token:" + token
}

// UserKey is the cache key of a user+role projection.
func UserKey(userID string) string {
	return "user:" + userID
}

// PermissionKey is the cache key of one allow/deny decision.
func PermissionKey(roleID, moduleSlug, permissionSlug string) string {
	return "permission:" + roleID + ":" + moduleSlug + ":" + permissionSlug
}
