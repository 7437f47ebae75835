package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

type redisSessionStore struct {
	rdb *goredis.Client
	ttl time.Duration
}

// NewRedisSessionStore keeps sessions in redis so several API instances see
// the same gate timers. Entries expire after ttl of inactivity.
func NewRedisSessionStore(rdb *goredis.Client, ttl time.Duration) SessionStore {
	return &redisSessionStore{rdb: rdb, ttl: ttl}
}

// DialRedis connects and pings.
func DialRedis(ctx context.Context, addr string) (*goredis.Client, error) {
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func (r *redisSessionStore) Load(ctx context.Context, learnerID, courseID uint) (*Session, error) {
	raw, err := r.rdb.Get(ctx, sessionKey(learnerID, courseID)).Bytes()
	if errors.Is(err, goredis.Nil) {
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

func (r *redisSessionStore) Save(ctx context.Context, s *Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, sessionKey(s.LearnerID, s.CourseID), raw, r.ttl).Err()
}
