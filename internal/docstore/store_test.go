package docstore

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testDoc struct {
	Email    string `json:"email"`
	UserName string `json:"userName"`
	Status   string `json:"status,omitempty"`
}

// runStoreSuite exercises the behaviour every backend must share.
func runStoreSuite(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("get missing", func(t *testing.T) {
		s := newStore(t)
		snap, err := s.Get(context.Background(), "students/nobody")
		require.NoError(t, err)
		assert.False(t, snap.Exists())
	})

	t.Run("set replaces subtree", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.Set(ctx, "students/E1", testDoc{Email: "a@x.io", UserName: "Alice", Status: "old"}))
		require.NoError(t, s.Set(ctx, "students/E1", testDoc{Email: "b@x.io", UserName: "Alice"}))

		snap, err := s.Get(ctx, "students/E1")
		require.NoError(t, err)
		var got testDoc
		require.NoError(t, snap.Decode(&got))
		assert.Equal(t, testDoc{Email: "b@x.io", UserName: "Alice"}, got)
	})

	t.Run("set under scalar replaces it", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.Set(ctx, "a/b", "scalar"))
		require.NoError(t, s.Set(ctx, "a/b/c", 1))

		snap, err := s.Get(ctx, "a")
		require.NoError(t, err)
		assert.JSONEq(t, `{"b":{"c":1}}`, string(snap.Raw()))
	})

	t.Run("update merges fields", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.Set(ctx, "teacherAppointments/T1/k", testDoc{Email: "a@x.io", UserName: "Alice"}))
		require.NoError(t, s.Update(ctx, "teacherAppointments/T1/k", map[string]any{"status": "Accepted"}))

		snap, err := s.Get(ctx, "teacherAppointments/T1/k")
		require.NoError(t, err)
		var got testDoc
		require.NoError(t, snap.Decode(&got))
		assert.Equal(t, testDoc{Email: "a@x.io", UserName: "Alice", Status: "Accepted"}, got)
	})

	t.Run("update nil deletes field", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.Set(ctx, "x", map[string]any{"a": 1, "b": 2}))
		require.NoError(t, s.Update(ctx, "x", map[string]any{"a": nil}))

		snap, err := s.Get(ctx, "x")
		require.NoError(t, err)
		assert.JSONEq(t, `{"b":2}`, string(snap.Raw()))
	})

	t.Run("push appends ordered keys", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		var keys []string
		for _, body := range []string{"one", "two", "three"} {
			k, err := s.Push(ctx, "messages/T1", map[string]string{"message": body})
			require.NoError(t, err)
			keys = append(keys, k)
		}

		snap, err := s.Get(ctx, "messages/T1")
		require.NoError(t, err)
		children, err := snap.Children()
		require.NoError(t, err)
		require.Len(t, children, 3)
		for i, c := range children {
			assert.Equal(t, keys[i], c.Key())
		}
	})

	t.Run("invalid path", func(t *testing.T) {
		s := newStore(t)
		err := s.Set(context.Background(), "students/a.b", 1)
		assert.ErrorIs(t, err, ErrInvalidPath)
	})

	t.Run("subscribe delivers initial and changes", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		sub, err := s.Subscribe(ctx, "students/E1/notifications")
		require.NoError(t, err)
		defer sub.Close()

		first := receive(t, sub)
		assert.False(t, first.Exists())

		_, err = s.Push(ctx, "students/E1/notifications", map[string]string{"message": "hi"})
		require.NoError(t, err)

		next := receive(t, sub)
		m, err := DecodeChildren[map[string]string](next)
		require.NoError(t, err)
		assert.Len(t, m, 1)
	})

	t.Run("ancestor write reaches descendant subscriber", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		sub, err := s.Subscribe(ctx, "teachers/T1")
		require.NoError(t, err)
		defer sub.Close()
		receive(t, sub)

		require.NoError(t, s.Set(ctx, "teachers", map[string]any{"T1": testDoc{Email: "t@x.io"}}))

		var got testDoc
		require.NoError(t, receive(t, sub).Decode(&got))
		assert.Equal(t, "t@x.io", got.Email)
	})

	t.Run("concurrent writes to unrelated paths all land", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := s.Push(ctx, fmt.Sprintf("messages/T%d", i), map[string]string{"message": "x"})
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()

		snap, err := s.Get(ctx, "messages")
		require.NoError(t, err)
		children, err := snap.Children()
		require.NoError(t, err)
		assert.Len(t, children, 50)
	})

	t.Run("concurrent pushes to one list all land", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		var wg sync.WaitGroup
		for i := 0; i < 30; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.Push(ctx, "messages/T1", map[string]string{"message": "x"})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		snap, err := s.Get(ctx, "messages/T1")
		require.NoError(t, err)
		children, err := snap.Children()
		require.NoError(t, err)
		assert.Len(t, children, 30)
	})
}

func receive(t *testing.T, sub *Subscription) Snapshot {
	t.Helper()
	select {
	case snap, ok := <-sub.C():
		require.True(t, ok, "subscription closed")
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return Snapshot{}
	}
}

func TestMemoryStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store {
		s := NewMemoryStore()
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestSubscriptionCoalescesWithoutBlockingWriters(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	sub, err := s.Subscribe(ctx, "counter")
	require.NoError(t, err)
	defer sub.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 1; i <= 100; i++ {
			assert.NoError(t, s.Set(ctx, "counter/value", i))
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("writer blocked by an idle subscriber")
	}

	var last Snapshot
	for len(sub.C()) > 0 {
		last = <-sub.C()
	}
	assert.JSONEq(t, `{"value":100}`, string(last.Raw()))
}

func TestSubscriptionReleasedOnContextCancel(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	sub, err := s.Subscribe(ctx, "students")
	require.NoError(t, err)
	receive(t, sub)

	cancel()

	select {
	case <-sub.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("subscription not released")
	}

	_, ok := <-sub.C()
	assert.False(t, ok)

	// Writes after release must not panic on the closed channel.
	require.NoError(t, s.Set(context.Background(), "students/E1/email", "a@x.io"))
	sub.Close()
}

func TestConcurrentPushes(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Push(ctx, "messages/T1", map[string]string{"message": "x"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	snap, err := s.Get(ctx, "messages/T1")
	require.NoError(t, err)
	children, err := snap.Children()
	require.NoError(t, err)
	assert.Len(t, children, 50)
}

func TestClosedStoreRejectsWrites(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Close())

	err := s.Set(context.Background(), "a", 1)
	assert.ErrorIs(t, err, ErrClosed)
}
