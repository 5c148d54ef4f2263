package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisOptions holds connection settings for the Redis message store.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string // key prefix, e.g. "lounge:"
}

// RedisStore keeps messages in Redis: the record as JSON under
// <prefix>msg:<id>, and the id scored by creation time in <prefix>timeline
// so a range read yields messages in creation order.
type RedisStore struct {
	client *redis.Client
	prefix string
	logger zerolog.Logger
}

// NewRedis connects to Redis and verifies the connection with a ping.
func NewRedis(opts RedisOptions, logger zerolog.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisStore{
		client: client,
		prefix: opts.Prefix,
		logger: logger.With().Str("component", "redis-store").Logger(),
	}, nil
}

func (s *RedisStore) msgKey(id string) string { return s.prefix + "msg:" + id }
func (s *RedisStore) timelineKey() string     { return s.prefix + "timeline" }

// Append persists a message atomically: the record and its timeline entry
// are written in one transaction.
func (s *RedisStore) Append(ctx context.Context, username, text string) (Message, error) {
	msg, now := newMessage(username, text)

	data, err := json.Marshal(msg)
	if err != nil {
		return Message{}, fmt.Errorf("encode message: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.msgKey(msg.ID), data, 0)
	pipe.ZAdd(ctx, s.timelineKey(), redis.Z{
		Score:  float64(now.UnixNano()),
		Member: msg.ID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return Message{}, fmt.Errorf("append message: %w", err)
	}
	return msg, nil
}

// ListRecent reads up to limit ids from the timeline in ascending order and
// fetches their records in one round trip.
func (s *RedisStore) ListRecent(ctx context.Context, limit int) ([]Message, error) {
	ids, err := s.client.ZRange(ctx, s.timelineKey(), 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("read timeline: %w", err)
	}
	if len(ids) == 0 {
		return []Message{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.msgKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("read messages: %w", err)
	}

	messages := make([]Message, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Timeline entry without a record: deleted mid-read.
			continue
		}
		var msg Message
		if err := json.Unmarshal([]byte(raw), &msg); err != nil {
			s.logger.Warn().Err(err).Str("message_id", ids[i]).Msg("skipping undecodable message")
			continue
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// DeleteByID removes the record and its timeline entry. The Del count
// reports whether a message was actually removed.
func (s *RedisStore) DeleteByID(ctx context.Context, id string) (bool, error) {
	pipe := s.client.TxPipeline()
	pipe.ZRem(ctx, s.timelineKey(), id)
	del := pipe.Del(ctx, s.msgKey(id))
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("delete message: %w", err)
	}
	return del.Val() > 0, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
