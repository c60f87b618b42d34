package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisStore keeps tokens and flashes in Redis.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore wraps rdb. A ttl of 0 keeps tokens until logout.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: "roomadmin:session:", ttl: ttl}
}

func (s *RedisStore) tokenKey(sid string) string { return s.prefix + sid + ":token" }
func (s *RedisStore) flashKey(sid string) string { return s.prefix + sid + ":flash" }

func (s *RedisStore) Get(ctx context.Context, sid string) (string, error) {
	v, err := s.rdb.Get(ctx, s.tokenKey(sid)).Result()
	if err == redis.Nil {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("redis get token: %w", err)
	}
	return v, nil
}

func (s *RedisStore) Set(ctx context.Context, sid, token string) error {
	return s.rdb.Set(ctx, s.tokenKey(sid), token, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, sid string) error {
	return s.rdb.Del(ctx, s.tokenKey(sid), s.flashKey(sid)).Err()
}

func (s *RedisStore) SetFlash(ctx context.Context, sid string, f Flash) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.flashKey(sid), data, 10*time.Minute).Err()
}

func (s *RedisStore) PopFlash(ctx context.Context, sid string) (Flash, bool, error) {
	v, err := s.rdb.GetDel(ctx, s.flashKey(sid)).Result()
	if err == redis.Nil {
		return Flash{}, false, nil
	}
	if err != nil {
		return Flash{}, false, fmt.Errorf("redis pop flash: %w", err)
	}
	var f Flash
	if err := json.Unmarshal([]byte(v), &f); err != nil {
		return Flash{}, false, err
	}
	return f, true, nil
}

// DialRedis connects to Redis, retrying the initial ping with exponential
// backoff until maxElapsed passes.
func DialRedis(ctx context.Context, opts *redis.Options, maxElapsed time.Duration) (*redis.Client, error) {
	if opts == nil || opts.Addr == "" {
		return nil, errors.New("redis address is required")
	}
	rdb := redis.NewClient(opts)

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxElapsedTime = maxElapsed

	attempt := 0
	op := func() error {
		attempt++
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		err := rdb.Ping(pingCtx).Err()
		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt).Str("addr", opts.Addr).Msg("redis ping failed")
		}
		return err
	}
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis unreachable at %s: %w", opts.Addr, err)
	}
	return rdb, nil
}
