// Package cache holds the shared rate cache store used when several engine
// instances must see the same cached rates.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SscSPs/fx_exchange_engine/internal/core/domain"
	"github.com/SscSPs/fx_exchange_engine/internal/core/ports/gateways"
	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "fx:rate:"

// putIfNewer stores the record unless the stored one was observed at or after it.
// KEYS[1] = pair key, ARGV[1] = observedAt (unix nanos), ARGV[2] = JSON record, ARGV[3] = ttl (ms).
var putIfNewer = redis.NewScript(`
local current = redis.call('HGET', KEYS[1], 'observed_at')
if current and tonumber(current) >= tonumber(ARGV[1]) then
  return 0
end
redis.call('HSET', KEYS[1], 'observed_at', ARGV[1], 'record', ARGV[2])
redis.call('PEXPIRE', KEYS[1], ARGV[3])
return 1
`)

// RedisRateStore keeps the newest RateRecord per pair in a Redis hash.
// Entries expire after ttl so abandoned pairs do not accumulate; freshness
// itself is decided by the rate cache from ObservedAt.
type RedisRateStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

var _ gateways.RateCacheStore = (*RedisRateStore)(nil)

func NewRedisRateStore(client redis.UniversalClient, ttl time.Duration) *RedisRateStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisRateStore{client: client, prefix: defaultKeyPrefix, ttl: ttl}
}

func (r *RedisRateStore) key(pair domain.CurrencyPair) string {
	return r.prefix + pair.Base + ":" + pair.Quote
}

func (r *RedisRateStore) Get(ctx context.Context, pairs []domain.CurrencyPair) (map[domain.CurrencyPair]domain.RateRecord, error) {
	if len(pairs) == 0 {
		return map[domain.CurrencyPair]domain.RateRecord{}, nil
	}
	cmds := make([]*redis.StringCmd, len(pairs))
	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, p := range pairs {
			cmds[i] = pipe.HGet(ctx, r.key(p), "record")
		}
		return nil
	})
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to read rates from redis: %w", err)
	}

	out := make(map[domain.CurrencyPair]domain.RateRecord, len(pairs))
	for i, cmd := range cmds {
		data, err := cmd.Bytes()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read rate %s from redis: %w", pairs[i], err)
		}
		rec, err := decodeRecord(data)
		if err != nil {
			return nil, err
		}
		out[pairs[i]] = rec
	}
	return out, nil
}

func (r *RedisRateStore) Put(ctx context.Context, records []domain.RateRecord) error {
	for _, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to marshal rate record: %w", err)
		}
		err = putIfNewer.Run(ctx, r.client,
			[]string{r.key(rec.Pair())},
			rec.ObservedAt.UnixNano(), data, r.ttl.Milliseconds()).Err()
		if err != nil {
			return fmt.Errorf("failed to store rate %s in redis: %w", rec.Pair(), err)
		}
	}
	return nil
}

func decodeRecord(data []byte) (domain.RateRecord, error) {
	var rec domain.RateRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.RateRecord{}, fmt.Errorf("failed to unmarshal rate record: %w", err)
	}
	return rec, nil
}
