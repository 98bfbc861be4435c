package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// sealedKeys are encrypted before they reach Redis.
var sealedKeys = map[string]bool{KeyToken: true, KeyRefreshToken: true}

// RedisBackend stores each session as a Redis hash under prefix:id.  Token
// values are sealed; values that fail to open are dropped so a tampered or
// rotated-secret session reads as signed out.
type RedisBackend struct {
	rdb    *redis.Client
	sealer *Sealer
	prefix string
}

// NewRedisBackend returns a backend using rdb.  prefix namespaces the keys.
func NewRedisBackend(rdb *redis.Client, sealer *Sealer, prefix string) *RedisBackend {
	if prefix == "" {
		prefix = "sess"
	}
	return &RedisBackend{rdb: rdb, sealer: sealer, prefix: prefix}
}

func (b *RedisBackend) key(id string) string { return b.prefix + ":" + id }

func (b *RedisBackend) Load(ctx context.Context, id string) (Values, error) {
	raw, err := b.rdb.HGetAll(ctx, b.key(id)).Result()
	if err != nil {
		return nil, err
	}
	out := make(Values, len(raw))
	for k, v := range raw {
		if sealedKeys[k] {
			plain, err := b.sealer.Open(v)
			if err != nil {
				continue
			}
			v = plain
		}
		out[k] = v
	}
	return out, nil
}

func (b *RedisBackend) Save(ctx context.Context, id string, v Values, ttl time.Duration) error {
	fields, err := b.seal(v)
	if err != nil {
		return err
	}
	key := b.key(id)
	_, err = b.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, key)
		if len(fields) > 0 {
			p.HSet(ctx, key, fields)
			p.Expire(ctx, key, ttl)
		}
		return nil
	})
	return err
}

// Update writes set and removes del in one transaction.  Fields not named
// are left as they are; a hash left empty disappears.
func (b *RedisBackend) Update(ctx context.Context, id string, set Values, del []string, ttl time.Duration) error {
	fields, err := b.seal(set)
	if err != nil {
		return err
	}
	key := b.key(id)
	_, err = b.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		if len(fields) > 0 {
			p.HSet(ctx, key, fields)
		}
		if len(del) > 0 {
			p.HDel(ctx, key, del...)
		}
		p.Expire(ctx, key, ttl)
		return nil
	})
	return err
}

func (b *RedisBackend) seal(v Values) (map[string]any, error) {
	fields := make(map[string]any, len(v))
	for k, val := range v {
		if sealedKeys[k] && val != "" {
			sealed, err := b.sealer.Seal(val)
			if err != nil {
				return nil, err
			}
			val = sealed
		}
		fields[k] = val
	}
	return fields, nil
}

func (b *RedisBackend) Delete(ctx context.Context, id string) error {
	return b.rdb.Del(ctx, b.key(id)).Err()
}
