package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// ViewCache caches availability views in Redis with singleflight loading, so
// a burst of identical calendar queries builds the view once.
//
// Invalidation is by version counter: every view key embeds the arena's
// current version, and InvalidateArena bumps it. Stale entries are never
// served and simply age out with the TTL.
type ViewCache struct {
	rdb *redis.Client
	sf  singleflight.Group
	ttl time.Duration
}

func New(client *redis.Client, ttl time.Duration) *ViewCache {
	return &ViewCache{rdb: client, ttl: ttl}
}

const allArenasScope = "all"

func scope(arenaID string) string {
	if arenaID == "" {
		return allArenasScope
	}
	return arenaID
}

func keyVersion(arenaID string) string {
	return "availability:ver:" + scope(arenaID)
}

func keyView(arenaID string, version int64, from, to time.Time) string {
	return fmt.Sprintf("availability:view:%s:%d:%d:%d",
		scope(arenaID), version, from.UTC().Unix(), to.UTC().Unix())
}

func (c *ViewCache) version(ctx context.Context, arenaID string) (int64, error) {
	v, err := c.rdb.Get(ctx, keyVersion(arenaID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// InvalidateArena bumps the arena's version and the all-arenas version, which
// orphans every cached view touching the arena.
func (c *ViewCache) InvalidateArena(ctx context.Context, arenaID string) error {
	pipe := c.rdb.Pipeline()
	pipe.Incr(ctx, keyVersion(arenaID))
	pipe.Incr(ctx, keyVersion(""))
	_, err := pipe.Exec(ctx)
	return err
}

// GetOrBuild returns the cached view for the query, building and storing it
// on a miss. Cache failures degrade to building directly.
func GetOrBuild[T any](
	ctx context.Context,
	c *ViewCache,
	arenaID string,
	from, to time.Time,
	loader func(ctx context.Context) (T, error),
) (T, error) {
	var zero T

	version, err := c.version(ctx, arenaID)
	if err != nil {
		return loader(ctx)
	}
	key := keyView(arenaID, version, from, to)

	if v, ok, err := getJSON[T](ctx, c, key); err == nil && ok {
		return v, nil
	}

	vAny, err, _ := c.sf.Do(key, func() (any, error) {
		if v, ok, err := getJSON[T](ctx, c, key); err == nil && ok {
			return v, nil
		}
		v, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		_ = setJSON(ctx, c, key, v)
		return v, nil
	})
	if err != nil {
		return zero, err
	}

	v, ok := vAny.(T)
	if !ok {
		return zero, errors.New("type assertion failed")
	}
	return v, nil
}

func getJSON[T any](ctx context.Context, c *ViewCache, key string) (T, bool, error) {
	var zero T

	s, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}

	var out T
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return zero, false, err
	}
	return out, true, nil
}

func setJSON(ctx context.Context, c *ViewCache, key string, val any) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, string(b), c.ttl).Err()
}
