package docstore

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// redisOptions points at REDIS_URL when set and at an in-process server otherwise.
func redisOptions(t *testing.T) *redis.Options {
	t.Helper()
	if url := os.Getenv("REDIS_URL"); url != "" {
		opt, err := redis.ParseURL(url)
		require.NoError(t, err)
		return opt
	}
	mr := miniredis.RunT(t)
	return &redis.Options{Addr: mr.Addr()}
}

func newRedisStoreAt(t *testing.T, opt *redis.Options, ns string) *RedisStore {
	t.Helper()
	rdb := redis.NewClient(opt)
	s, err := NewRedisStore(context.Background(), rdb, ns)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Close()
		_ = rdb.Del(context.Background(), s.treeKey).Err()
		_ = rdb.Close()
	})
	return s
}

func newRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	return newRedisStoreAt(t, redisOptions(t), "test-"+NewKey()[:12])
}

func TestRedisStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store {
		return newRedisStore(t)
	})
}

func TestRedisStoreFansOutAcrossProcesses(t *testing.T) {
	opt := redisOptions(t)
	ns := "test-" + NewKey()[:12]
	a := newRedisStoreAt(t, opt, ns)
	// A second store on the same namespace stands in for another process.
	b := newRedisStoreAt(t, opt, ns)

	sub, err := b.Subscribe(context.Background(), "messages/T1")
	require.NoError(t, err)
	defer sub.Close()
	receive(t, sub)

	_, err = a.Push(context.Background(), "messages/T1", map[string]string{"message": "hello"})
	require.NoError(t, err)

	m, err := DecodeChildren[map[string]string](receive(t, sub))
	require.NoError(t, err)
	assert.Len(t, m, 1)
}

func TestRedisStoreWritersOnSeparateClients(t *testing.T) {
	opt := redisOptions(t)
	ns := "test-" + NewKey()[:12]
	a := newRedisStoreAt(t, opt, ns)
	b := newRedisStoreAt(t, opt, ns)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		s := a
		if i%2 == 1 {
			s = b
		}
		wg.Add(1)
		go func(i int, s Store) {
			defer wg.Done()
			assert.NoError(t, s.Set(ctx, fmt.Sprintf("teacherAppointments/T%d/k", i), map[string]string{"status": "Pending"}))
		}(i, s)
	}
	wg.Wait()

	snap, err := a.Get(ctx, "teacherAppointments")
	require.NoError(t, err)
	children, err := snap.Children()
	require.NoError(t, err)
	assert.Len(t, children, 40)
}

func TestRedisStoreCloseTwice(t *testing.T) {
	s := newRedisStore(t)
	require.NoError(t, s.Close())
	assert.NotPanics(t, func() { _ = s.Close() })
}
