package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps session memory in Redis so several API instances can
// share sessions. History lives in a list trimmed to maxMessages; the
// budget is a plain string key.
type RedisStore struct {
	client      redis.Cmdable
	maxMessages int
	ttl         time.Duration
}

// NewRedisStore creates a Redis-backed store. A zero ttl keeps keys forever.
func NewRedisStore(client redis.Cmdable, maxMessages int, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, maxMessages: maxMessages, ttl: ttl}
}

func sessionKey(id string) string  { return fmt.Sprintf("session:%s", id) }
func messagesKey(id string) string { return fmt.Sprintf("session:%s:messages", id) }
func budgetKey(id string) string   { return fmt.Sprintf("session:%s:budget", id) }

func (s *RedisStore) Create(ctx context.Context, sessionID string) error {
	if err := s.client.Set(ctx, sessionKey(sessionID), time.Now().UTC().Format(time.RFC3339), s.ttl).Err(); err != nil {
		return fmt.Errorf("creating session %s: %w", sessionID, err)
	}
	return nil
}

func (s *RedisStore) Exists(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.client.Exists(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("checking session %s: %w", sessionID, err)
	}
	return n > 0, nil
}

func (s *RedisStore) LoadState(ctx context.Context, sessionID string) (State, error) {
	if err := s.requireSession(ctx, sessionID); err != nil {
		return State{}, err
	}

	raw, err := s.client.Get(ctx, budgetKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return State{}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("get %s: %w", budgetKey(sessionID), err)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return State{}, fmt.Errorf("parsing stored budget %q: %w", raw, err)
	}
	return State{Budget: &v}, nil
}

func (s *RedisStore) SaveState(ctx context.Context, sessionID string, state State) error {
	if err := s.requireSession(ctx, sessionID); err != nil {
		return err
	}

	key := budgetKey(sessionID)
	pipe := s.client.Pipeline()
	if state.Budget == nil {
		pipe.Del(ctx, key)
	} else {
		pipe.Set(ctx, key, strconv.Itoa(*state.Budget), s.ttl)
	}
	s.touch(ctx, pipe, sessionID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("pipeline exec for %s: %w", key, err)
	}
	return nil
}

// AppendMessage adds a conversation entry to the Redis list and trims to maxMessages.
func (s *RedisStore) AppendMessage(ctx context.Context, sessionID string, entry ConversationEntry) error {
	if err := s.requireSession(ctx, sessionID); err != nil {
		return err
	}

	key := messagesKey(sessionID)
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling entry: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.RPush(ctx, key, string(data))
	if s.maxMessages > 0 {
		pipe.LTrim(ctx, key, int64(-s.maxMessages), -1)
	}
	s.touch(ctx, pipe, sessionID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("pipeline exec for %s: %w", key, err)
	}
	return nil
}

// GetRecentMessages returns the last `limit` entries, oldest first. A
// non-positive limit returns the whole history.
func (s *RedisStore) GetRecentMessages(ctx context.Context, sessionID string, limit int) ([]ConversationEntry, error) {
	if err := s.requireSession(ctx, sessionID); err != nil {
		return nil, err
	}

	key := messagesKey(sessionID)
	start := int64(0)
	if limit > 0 {
		start = int64(-limit)
	}
	vals, err := s.client.LRange(ctx, key, start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange %s: %w", key, err)
	}

	entries := make([]ConversationEntry, 0, len(vals))
	for _, v := range vals {
		var entry ConversationEntry
		if err := json.Unmarshal([]byte(v), &entry); err != nil {
			continue // skip malformed entries
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionKey(sessionID), messagesKey(sessionID), budgetKey(sessionID)).Err()
}

func (s *RedisStore) requireSession(ctx context.Context, sessionID string) error {
	ok, err := s.Exists(ctx, sessionID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrSessionNotFound
	}
	return nil
}

// touch refreshes the TTL of every key of the session.
func (s *RedisStore) touch(ctx context.Context, pipe redis.Pipeliner, sessionID string) {
	if s.ttl <= 0 {
		return
	}
	pipe.Expire(ctx, sessionKey(sessionID), s.ttl)
	pipe.Expire(ctx, messagesKey(sessionID), s.ttl)
	pipe.Expire(ctx, budgetKey(sessionID), s.ttl)
}
