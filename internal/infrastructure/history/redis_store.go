package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/retailscan/backend/internal/domain/scan"
)

// RedisHistoryStore keeps the scan history in a single Redis key holding the
// JSON-serialized entry list. The slot is read fully and rewritten fully on
// every mutation.
type RedisHistoryStore struct {
	client *redis.Client
	key    string
	logger *zap.Logger
}

// NewRedisHistoryStore creates a Redis-backed history store using an existing client
func NewRedisHistoryStore(client *redis.Client, key string, logger *zap.Logger) *RedisHistoryStore {
	if key == "" {
		key = "scan:history"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisHistoryStore{
		client: client,
		key:    key,
		logger: logger.Named("history"),
	}
}

// Load reads the full history list. A missing key yields an empty list; a
// corrupt value is logged and discarded rather than surfaced as an error, so
// the cache self-heals on the next write.
func (s *RedisHistoryStore) Load(ctx context.Context) ([]scan.HistoryEntry, error) {
	raw, err := s.client.Get(ctx, s.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []scan.HistoryEntry{}, nil
		}
		return nil, fmt.Errorf("failed to load scan history: %w", err)
	}

	return s.decodeSlot([]byte(raw)), nil
}

// decodeSlot deserializes the slot value. A corrupt value is logged and
// discarded rather than surfaced as an error; the cache self-heals on the
// next write.
func (s *RedisHistoryStore) decodeSlot(raw []byte) []scan.HistoryEntry {
	var entries []scan.HistoryEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		s.logger.Warn("discarding corrupt history slot",
			zap.String("key", s.key),
			zap.Error(err))
		return []scan.HistoryEntry{}
	}
	if entries == nil {
		entries = []scan.HistoryEntry{}
	}
	return entries
}

// Save rewrites the full history list
func (s *RedisHistoryStore) Save(ctx context.Context, entries []scan.HistoryEntry) error {
	payload, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to serialize scan history: %w", err)
	}
	if err := s.client.Set(ctx, s.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to save scan history: %w", err)
	}
	return nil
}

// Clear removes the history slot
func (s *RedisHistoryStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to clear scan history: %w", err)
	}
	return nil
}

// Ensure RedisHistoryStore implements HistoryStore
var _ scan.HistoryStore = (*RedisHistoryStore)(nil)
