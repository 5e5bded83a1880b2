package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"gl-setup/models"
)

// redisClient is the part of *redis.Client the cache uses.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
}

// Redis keeps exported documents under gl:<ledger>:doc:<kind>:<hierarchy>.
// Lists cached by other services live under gl:<ledger>:list:<name> and are
// deleted on invalidation too.
type Redis struct {
	client redisClient
	ttl    time.Duration
}

func NewRedis(addr string, ttl time.Duration) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

func docKey(ledger int, kind models.NodeKind, hierarchy string) string {
	return fmt.Sprintf("gl:%d:doc:%s:%s", ledger, kind, hierarchy)
}

func listKey(ledger int, name string) string {
	return fmt.Sprintf("gl:%d:list:%s", ledger, name)
}

func (r *Redis) GetDocument(ctx context.Context, ledger int, kind models.NodeKind, hierarchy string) ([]byte, bool, error) {
	b, err := r.client.Get(ctx, docKey(ledger, kind, hierarchy)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (r *Redis) PutDocument(ctx context.Context, ledger int, kind models.NodeKind, hierarchy string, doc []byte) error {
	return r.client.Set(ctx, docKey(ledger, kind, hierarchy), doc, r.ttl).Err()
}

func (r *Redis) Invalidate(ctx context.Context, ledger int, names []string) error {
	keys := make([]string, 0, len(names))
	for _, n := range names {
		keys = append(keys, listKey(ledger, n))
	}
	for _, kind := range kindsOf(names) {
		var cursor uint64
		for {
			found, next, err := r.client.Scan(ctx, cursor, docKey(ledger, kind, "*"), 100).Result()
			if err != nil {
				return err
			}
			keys = append(keys, found...)
			if next == 0 {
				break
			}
			cursor = next
		}
	}
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

func (r *Redis) Close() error {
	if c, ok := r.client.(*redis.Client); ok {
		return c.Close()
	}
	return nil
}
