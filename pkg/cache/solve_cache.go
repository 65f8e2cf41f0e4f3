package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/sma-scheduler-api/internal/scheduler"
)

// SolveCache memoizes a solved Solution by the SHA-256 hash of its
// validated parameters, so two requests asking for the same timetable
// shape never pay the solver twice within the TTL window. This is the
// one piece of durable-looking state the service owns; it is
// deliberately a cache, not a system of record — an eviction or a
// cold Redis is always safe, it only costs a re-solve.
type SolveCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSolveCache(client *redis.Client, ttl time.Duration) *SolveCache {
	return &SolveCache{client: client, ttl: ttl}
}

// Key hashes the option set's canonical JSON encoding. Options has no
// unexported fields affecting its JSON shape other than the fieldSet
// bookkeeping, which Validate has already resolved into params by the
// time the service calls Key — callers pass the validated Params, not
// the raw Options, so two requests that differ only in "was this
// field explicit" but validate to the same Params still share a cache
// entry.
func Key(p *scheduler.Params) (string, error) {
	encoded, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(encoded)
	return "timetable:solve:" + hex.EncodeToString(sum[:]), nil
}

func (c *SolveCache) Get(ctx context.Context, key string) (*scheduler.Solution, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var sol scheduler.Solution
	if err := json.Unmarshal(raw, &sol); err != nil {
		return nil, false, err
	}
	return &sol, true, nil
}

func (c *SolveCache) Set(ctx context.Context, key string, sol *scheduler.Solution) error {
	encoded, err := json.Marshal(sol)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, encoded, c.ttl).Err()
}
