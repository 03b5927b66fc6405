package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions in a shared Redis so multiple backend instances
// can serve the same conversation. Sessions are stored as JSON under a
// namespaced key with a sliding TTL. CompareAndDelete runs as a Lua script
// so the rev check and the delete are one atomic step.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

const redisKeyPrefix = "stressease:session:"

// NewRedisStore wraps an initialized go-redis client. ttl <= 0 stores
// sessions without expiry.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func redisKey(id string) string { return redisKeyPrefix + id }

// Get fetches and decodes the session, or returns nil when absent/expired.
func (rs *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	raw, err := rs.client.Get(ctx, redisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Put bumps the revision and writes the session with the sliding TTL.
func (rs *RedisStore) Put(ctx context.Context, s *Session) error {
	s.Rev++
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return rs.client.Set(ctx, redisKey(s.ID), raw, rs.ttl).Err()
}

// Delete removes the session, reporting whether a key was deleted.
func (rs *RedisStore) Delete(ctx context.Context, id string) (bool, error) {
	n, err := rs.client.Del(ctx, redisKey(id)).Result()
	return n > 0, err
}

// casDeleteScript deletes the key only when the stored session's rev matches.
var casDeleteScript = redis.NewScript(`
local raw = redis.call("GET", KEYS[1])
if not raw then return 0 end
local s = cjson.decode(raw)
if tostring(s.rev) ~= ARGV[1] then return 0 end
return redis.call("DEL", KEYS[1])
`)

// CompareAndDelete removes the session only when its revision is unchanged.
func (rs *RedisStore) CompareAndDelete(ctx context.Context, id string, rev int64) (bool, error) {
	n, err := casDeleteScript.Run(ctx, rs.client, []string{redisKey(id)}, rev).Int64()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

var _ Store = (*RedisStore)(nil)
