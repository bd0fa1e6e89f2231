package cache

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

var cacheOps = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "cache_operations_total", Help: "Cache lookups by result"},
	[]string{"result"},
)

func init() { prometheus.MustRegister(cacheOps) }

// Cache 为 nil 时所有方法直接回源，调用方无需判空
type Cache struct {
	RDB *redis.Client
	sf  singleflight.Group
}

func New(addr, pass string, db int) *Cache {
	return &Cache{
		RDB: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
	}
}

func (c *Cache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.RDB.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.RDB.Close()
}

// GetOrLoad 先读缓存，未命中时同 key 只回源一次；redis 出错按未命中处理
func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if c == nil {
		return load(ctx)
	}
	b, err := c.RDB.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		cacheOps.WithLabelValues("hit").Inc()
		return b, nil
	case errors.Is(err, redis.Nil):
		cacheOps.WithLabelValues("miss").Inc()
	default:
		cacheOps.WithLabelValues("error").Inc()
	}

	v, err, _ := c.sf.Do(key, func() (any, error) {
		b, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.RDB.Set(ctx, key, b, ttl).Err(); err != nil {
			cacheOps.WithLabelValues("error").Inc()
		}
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Del 失效；redis 故障只会导致短暂脏读（TTL 兜底），不向上抛
func (c *Cache) Del(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	_ = c.RDB.Del(ctx, keys...).Err()
}

// DelTwice 立即删一次，delay 后再删一次；删除前已开始回源、删除后才写回的旧值由第二次删除清掉
func (c *Cache) DelTwice(ctx context.Context, delay time.Duration, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	c.Del(ctx, keys...)
	time.AfterFunc(delay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		c.Del(ctx, keys...)
	})
}
