package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name string `json:"name"`
}

func TestNilCacheLoadsThrough(t *testing.T) {
	var c *Cache
	calls := 0
	load := func(context.Context) (*item, error) {
		calls++
		return &item{Name: "x"}, nil
	}
	for i := 0; i < 2; i++ {
		got, err := GetOrLoadJSON(c, context.Background(), "k", time.Minute, load)
		require.NoError(t, err)
		assert.Equal(t, "x", got.Name)
	}
	assert.Equal(t, 2, calls)
	c.Del(context.Background(), "k")
	assert.NoError(t, c.Ping(context.Background()))
}

func TestNilCachePropagatesLoadError(t *testing.T) {
	var c *Cache
	boom := errors.New("boom")
	_, err := GetOrLoadJSON(c, context.Background(), "k", time.Minute, func(context.Context) (*item, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestUnreachableRedisFallsBackToLoad(t *testing.T) {
	c := &Cache{RDB: redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 50 * time.Millisecond,
	})}
	defer c.Close()

	calls := 0
	got, err := GetOrLoadJSON(c, context.Background(), "hotel:h1", time.Minute, func(context.Context) (*item, error) {
		calls++
		return &item{Name: "Grand"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Grand", got.Name)
	assert.Equal(t, 1, calls)
	assert.Error(t, c.Ping(context.Background()))
}

func TestDecode(t *testing.T) {
	got, err := decode[item]([]byte(`{"name":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, "x", got.Name)

	got, err = decode[item]([]byte("null"))
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = decode[item]([]byte("{broken"))
	assert.Error(t, err)
}

// delCounter 拦下 DEL，不真正访问 redis
type delCounter struct{ n atomic.Int32 }

func (h *delCounter) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h *delCounter) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if cmd.Name() == "del" {
			h.n.Add(1)
			return nil
		}
		return next(ctx, cmd)
	}
}

func (h *delCounter) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestDelTwice(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	defer rdb.Close()
	h := &delCounter{}
	rdb.AddHook(h)
	c := &Cache{RDB: rdb}

	c.DelTwice(context.Background(), 20*time.Millisecond, "hotel:h1")
	assert.EqualValues(t, 1, h.n.Load())
	assert.Eventually(t, func() bool { return h.n.Load() == 2 }, time.Second, 5*time.Millisecond)

	var nilCache *Cache
	nilCache.DelTwice(context.Background(), time.Millisecond, "hotel:h1")
}
