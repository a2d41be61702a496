package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/xid"
)

const redisKeyPrefix = "session:"

var _ Store = (*RedisStore)(nil)

// RedisStore keeps each session as a JSON value under "session:<id>" with a
// TTL equal to the session lifetime, so Redis expires it on its own and
// several server processes can share logins.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore wraps an existing client.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

// DialRedis opens a client for addr/db and pings it.
func DialRedis(ctx context.Context, addr string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: db})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("session: redis ping %s: %w", addr, err)
	}
	return rdb, nil
}

func (s *RedisStore) Create(ctx context.Context, username string) (*Session, error) {
	sess := &Session{
		ID:        xid.New().String(),
		Username:  username,
		ExpiresAt: time.Now().Add(s.ttl),
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("session: encoding: %w", err)
	}

	if err := s.rdb.Set(ctx, redisKeyPrefix+sess.ID, data, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("session: redis set: %w", err)
	}
	return sess, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := s.rdb.Get(ctx, redisKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("session: redis get: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("session: decoding: %w", err)
	}
	// Redis TTLs have second granularity.
	if sess.Expired(time.Now()) {
		return nil, ErrNoSession
	}
	return &sess, nil
}

func (s *RedisStore) Destroy(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, redisKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("session: redis del: %w", err)
	}
	return nil
}
