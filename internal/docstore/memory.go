package docstore

import (
	"context"
	"sync"
)

// MemoryStore keeps the tree in process. It backs development runs and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	data   leaves
	closed bool

	hub *hub
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{data: leaves{}}
	s.hub = newHub(s.Get)
	return s
}

func (s *MemoryStore) Get(ctx context.Context, path string) (Snapshot, error) {
	p, err := Clean(path)
	if err != nil {
		return Snapshot{}, err
	}
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}

	s.mu.RLock()
	sub := leaves{}
	for k, v := range s.data {
		if k == p || isUnder(k, p) {
			sub[k] = v
		}
	}
	s.mu.RUnlock()

	raw, err := inflate(p, sub)
	if err != nil {
		return Snapshot{}, err
	}
	return NewSnapshot(p, raw), nil
}

func (s *MemoryStore) Set(ctx context.Context, path string, value any) error {
	p, err := Clean(path)
	if err != nil {
		return err
	}
	return s.apply(ctx, []write{{path: p, value: value}})
}

func (s *MemoryStore) Update(ctx context.Context, path string, fields map[string]any) error {
	p, err := Clean(path)
	if err != nil {
		return err
	}
	ws, err := updateWrites(p, fields)
	if err != nil {
		return err
	}
	return s.apply(ctx, ws)
}

func (s *MemoryStore) Push(ctx context.Context, path string, value any) (string, error) {
	return push(ctx, s, path, value)
}

func (s *MemoryStore) NewKey() string {
	return NewKey()
}

func (s *MemoryStore) Subscribe(ctx context.Context, path string) (*Subscription, error) {
	p, err := Clean(path)
	if err != nil {
		return nil, err
	}
	return s.hub.subscribe(ctx, p)
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.hub.close()
	return nil
}

func (s *MemoryStore) apply(ctx context.Context, ws []write) error {
	if len(ws) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	puts, err := encodeWrites(ws)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	existing := make([]string, 0)
	for k := range s.data {
		existing = append(existing, k)
	}
	pl := buildPlan(ws, puts, existing)
	for _, k := range pl.deletes {
		delete(s.data, k)
	}
	for k, v := range pl.puts {
		s.data[k] = v
	}
	s.mu.Unlock()

	s.hub.notify(context.WithoutCancel(ctx), touched(ws)...)
	return nil
}
