package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is the expiry used by GetOrComputeDefault.
const DefaultTTL = 10 * time.Minute

// GetOrCompute returns the value cached under key on the aliased client, or
// calls compute on a miss. A computed value is stored with the given ttl
// only when it is truthy; falsy results are recomputed on every call.
//
// A cached value is JSON decoded into T. When decoding fails and T is string
// or any, the raw cached string is returned; otherwise the entry is treated
// as a miss. Redis read and write failures degrade to a miss and are logged.
func GetOrCompute[T any](ctx context.Context, store *Store, ttl time.Duration, alias, key string, compute func(context.Context) (T, error)) (T, error) {
	var zero T
	client, err := store.Client(alias)
	if err != nil {
		return zero, err
	}

	raw, err := client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if v, ok := decode[T](raw); ok {
			return v, nil
		}
		slog.WarnContext(ctx, "cache entry undecodable, recomputing", "key", key)
	case !errors.Is(err, redis.Nil):
		slog.WarnContext(ctx, "cache read failed", "key", key, "error", err)
	}

	v, err := compute(ctx)
	if err != nil {
		return zero, err
	}
	if !Truthy(v) {
		return v, nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		slog.WarnContext(ctx, "cache encode failed", "key", key, "error", err)
		return v, nil
	}
	if err := client.Set(ctx, key, b, ttl).Err(); err != nil {
		slog.WarnContext(ctx, "cache write failed", "key", key, "error", err)
	}
	return v, nil
}

// GetOrComputeDefault is GetOrCompute with DefaultTTL on DefaultAlias.
func GetOrComputeDefault[T any](ctx context.Context, store *Store, key string, compute func(context.Context) (T, error)) (T, error) {
	return GetOrCompute(ctx, store, DefaultTTL, DefaultAlias, key, compute)
}

func decode[T any](raw []byte) (T, bool) {
	var out T
	if err := json.Unmarshal(raw, &out); err == nil {
		return out, true
	}
	if s, ok := any(string(raw)).(T); ok {
		return s, true
	}
	return out, false
}
