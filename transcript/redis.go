package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "shmoopland:transcript:"

// RedisSink appends entries to a Redis list per session. Lists expire ttl
// after their last write.
type RedisSink struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

var (
	_ Sink   = (*RedisSink)(nil)
	_ Reader = (*RedisSink)(nil)
)

// NewRedisSink connects to redisURL and checks the connection.
func NewRedisSink(ctx context.Context, redisURL string, ttl time.Duration, logger *slog.Logger) (*RedisSink, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	logger.Info("connected to redis for transcripts", "addr", opt.Addr)
	return &RedisSink{rdb: rdb, ttl: ttl, logger: logger}, nil
}

func (r *RedisSink) Record(ctx context.Context, e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal transcript entry: %w", err)
	}
	key := keyPrefix + e.SessionID
	pipe := r.rdb.TxPipeline()
	pipe.RPush(ctx, key, data)
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record transcript entry: %w", err)
	}
	return nil
}

func (r *RedisSink) Entries(ctx context.Context, sessionID string) ([]Entry, error) {
	raw, err := r.rdb.LRange(ctx, keyPrefix+sessionID, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}
	entries := make([]Entry, 0, len(raw))
	for _, s := range raw {
		var e Entry
		if err := json.Unmarshal([]byte(s), &e); err != nil {
			r.logger.Warn("skipping corrupt transcript entry", "session_id", sessionID, "error", err)
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (r *RedisSink) Close() error {
	return r.rdb.Close()
}
