package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Olatundeadedeji/streamcati/internal/interview"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "streamcati:session:"

func NewRedisClient(addr, pass string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: pass,
		DB:       db,
	})
}

func Ping(ctx context.Context, c *redis.Client) error {
	return c.Ping(ctx).Err()
}

// RedisSessions keeps sessions as JSON documents with a sliding TTL, so they
// survive an API restart. Locks only serialize actions within one process;
// with several replicas, route one interview's requests to a single replica.
type RedisSessions struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessions(client *redis.Client, ttl time.Duration) *RedisSessions {
	return &RedisSessions{client: client, ttl: ttl}
}

func sessionKey(id int64) string {
	return keyPrefix + strconv.FormatInt(id, 10)
}

func (r *RedisSessions) Get(ctx context.Context, id int64) (*interview.Session, error) {
	key := sessionKey(id)
	var get *redis.StringCmd
	if r.ttl > 0 {
		get = r.client.GetEx(ctx, key, r.ttl)
	} else {
		get = r.client.Get(ctx, key)
	}
	raw, err := get.Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session %d: %w", id, err)
	}
	var s interview.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session %d: %w", id, err)
	}
	return &s, nil
}

func (r *RedisSessions) Put(ctx context.Context, s *interview.Session) error {
	id := s.ID()
	if id == 0 {
		return fmt.Errorf("put session: %w", interview.ErrNoActiveInterview)
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session %d: %w", id, err)
	}
	if err := r.client.Set(ctx, sessionKey(id), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("put session %d: %w", id, err)
	}
	return nil
}

func (r *RedisSessions) Delete(ctx context.Context, id int64) error {
	if err := r.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("delete session %d: %w", id, err)
	}
	return nil
}
