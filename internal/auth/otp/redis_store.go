package otp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

// consumeScript deletes the stored code only when it matches. An expired
// match is deleted as well but reported as a miss.
var consumeScript = redis.NewScript(`
local value = redis.call('GET', KEYS[1])
if not value then
  return 0
end
local sep = string.find(value, '|', 1, true)
if not sep then
  redis.call('DEL', KEYS[1])
  return 0
end
if string.sub(value, 1, sep - 1) ~= ARGV[1] then
  return 0
end
redis.call('DEL', KEYS[1])
if tonumber(string.sub(value, sep + 1)) <= tonumber(ARGV[2]) then
  return 0
end
return 1
`)

// discardScript deletes the stored code only when it is still the given one.
var discardScript = redis.NewScript(`
local value = redis.call('GET', KEYS[1])
if value and string.sub(value, 1, string.len(ARGV[1]) + 1) == ARGV[1] .. '|' then
  return redis.call('DEL', KEYS[1])
end
return 0
`)

// RedisStore keeps one key per email. The value is "code|expiresAtMillis"
// and the key carries a matching TTL, so Redis drops dead codes itself.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore constructs a Redis-backed Store. keyPrefix namespaces the keys.
func NewRedisStore(client redis.UniversalClient, keyPrefix string) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("otp store: redis client is required")
	}
	keyPrefix = strings.TrimSpace(keyPrefix)
	if keyPrefix == "" {
		keyPrefix = "otp:"
	}
	return &RedisStore{client: client, prefix: keyPrefix}, nil
}

func (s *RedisStore) key(email string) string {
	return s.prefix + email
}

func (s *RedisStore) Replace(ctx context.Context, email, code string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return fmt.Errorf("otp store: expiry %s is in the past", expiresAt.Format(time.RFC3339))
	}
	value := code + "|" + strconv.FormatInt(expiresAt.UnixMilli(), 10)
	return s.client.Set(ctx, s.key(email), value, ttl).Err()
}

func (s *RedisStore) Consume(ctx context.Context, email, code string, now time.Time) (bool, error) {
	matched, err := consumeScript.Run(ctx, s.client, []string{s.key(email)}, code, now.UnixMilli()).Int()
	if err != nil {
		return false, fmt.Errorf("otp store: consume: %w", err)
	}
	return matched == 1, nil
}

func (s *RedisStore) Discard(ctx context.Context, email, code string) error {
	if err := discardScript.Run(ctx, s.client, []string{s.key(email)}, code).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("otp store: discard: %w", err)
	}
	return nil
}

// PurgeExpired is a no-op; key TTLs remove dead codes.
func (s *RedisStore) PurgeExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}

var (
	_ Store = (*GormStore)(nil)
	_ Store = (*RedisStore)(nil)
)
