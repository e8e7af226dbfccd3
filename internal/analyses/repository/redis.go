package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"leadgenius_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisPrefix = "leadgenius:analyses:"
	redisScanBatch     = 100
)

// RedisStore keeps each analysis as a JSON string and indexes ids in a
// sorted set scored by creation time in milliseconds.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// appendScript writes the record and its index entry in one step, or
// neither when the record key already exists.
var appendScript = redis.NewScript(`
if not redis.call('SET', KEYS[1], ARGV[1], 'NX') then
	return 0
end
redis.call('ZADD', KEYS[2], ARGV[2], ARGV[3])
return 1
`)

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: defaultRedisPrefix}
}

func (s *RedisStore) recordKey(id string) string { return s.prefix + "record:" + id }
func (s *RedisStore) indexKey() string           { return s.prefix + "index" }

func (s *RedisStore) Append(ctx context.Context, rec domain.LeadRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}

	id := rec.ID.String()
	keys := []string{s.recordKey(id), s.indexKey()}
	created, err := appendScript.Run(ctx, s.client, keys, payload, rec.Date.UnixMilli(), id).Int()
	if err != nil {
		return fmt.Errorf("store analysis: %w", err)
	}
	if created == 0 {
		return ErrDuplicate
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id uuid.UUID) (domain.LeadRecord, error) {
	raw, err := s.client.Get(ctx, s.recordKey(id.String())).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.LeadRecord{}, ErrNotFound
	}
	if err != nil {
		return domain.LeadRecord{}, fmt.Errorf("load analysis: %w", err)
	}
	return decodeRecord(raw)
}

// List pages the index directly when unfiltered. Filtered listings walk
// the index newest first in batches until the page is full.
func (s *RedisStore) List(ctx context.Context, filter ListFilter) ([]domain.LeadRecord, error) {
	filter = filter.Normalized()

	if filter.unfiltered() {
		start := int64(filter.Offset)
		ids, err := s.client.ZRevRange(ctx, s.indexKey(), start, start+int64(filter.Limit)-1).Result()
		if err != nil {
			return nil, fmt.Errorf("list analyses: %w", err)
		}
		return s.load(ctx, ids)
	}

	out := make([]domain.LeadRecord, 0)
	skipped := 0
	for start := int64(0); len(out) < filter.Limit; start += redisScanBatch {
		ids, err := s.client.ZRevRange(ctx, s.indexKey(), start, start+redisScanBatch-1).Result()
		if err != nil {
			return nil, fmt.Errorf("list analyses: %w", err)
		}
		if len(ids) == 0 {
			break
		}
		batch, err := s.load(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, rec := range batch {
			if !filter.matches(rec) {
				continue
			}
			if skipped < filter.Offset {
				skipped++
				continue
			}
			out = append(out, rec)
			if len(out) == filter.Limit {
				break
			}
		}
	}
	return out, nil
}

// Ping checks connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) load(ctx context.Context, ids []string) ([]domain.LeadRecord, error) {
	out := make([]domain.LeadRecord, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.recordKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load analyses: %w", err)
	}
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		rec, err := decodeRecord([]byte(raw))
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func decodeRecord(raw []byte) (domain.LeadRecord, error) {
	var rec domain.LeadRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.LeadRecord{}, fmt.Errorf("decode analysis: %w", err)
	}
	return rec, nil
}
