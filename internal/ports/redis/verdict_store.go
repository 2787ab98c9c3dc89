package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"solitaire/internal/ports"
)

const keyPrefix = "solitaire:verdict:"

// VerdictStore implements ports.VerdictPort on Redis string keys holding
// JSON-encoded verdicts.
type VerdictStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewVerdictStore wraps client. A zero ttl keeps verdicts forever.
func NewVerdictStore(client *redis.Client, ttl time.Duration) *VerdictStore {
	return &VerdictStore{client: client, ttl: ttl}
}

// Connect opens a client for addr and checks it with a ping.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

// Key returns the Redis key for seed.
func Key(seed uint64) string {
	return keyPrefix + strconv.FormatUint(seed, 10)
}

func (s *VerdictStore) GetVerdict(ctx context.Context, seed uint64) (ports.DealVerdict, bool, error) {
	data, err := s.client.Get(ctx, Key(seed)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ports.DealVerdict{}, false, nil
	}
	if err != nil {
		return ports.DealVerdict{}, false, fmt.Errorf("failed to get verdict %d: %w", seed, err)
	}

	var v ports.DealVerdict
	if err := json.Unmarshal(data, &v); err != nil {
		return ports.DealVerdict{}, false, fmt.Errorf("failed to unmarshal verdict %d: %w", seed, err)
	}
	return v, true, nil
}

func (s *VerdictStore) PutVerdict(ctx context.Context, v ports.DealVerdict) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal verdict: %w", err)
	}
	if err := s.client.Set(ctx, Key(v.Seed), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set verdict %d: %w", v.Seed, err)
	}
	return nil
}
