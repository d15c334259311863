// Package docstoretest provides store wrappers for failure testing.
package docstoretest

import (
	"context"
	"strings"
	"sync"

	"github.com/BruksfildServices01/student-teacher-portal/internal/docstore"
)

type Op string

const (
	OpGet       Op = "get"
	OpSet       Op = "set"
	OpUpdate    Op = "update"
	OpPush      Op = "push"
	OpSubscribe Op = "subscribe"
)

// Faulty delegates to Store unless Fail returns an error for the call.
type Faulty struct {
	docstore.Store
	Fail func(op Op, path string) error

	mu    sync.Mutex
	calls []Call
}

type Call struct {
	Op   Op
	Path string
}

var _ docstore.Store = (*Faulty)(nil)

func New(s docstore.Store, fail func(op Op, path string) error) *Faulty {
	return &Faulty{Store: s, Fail: fail}
}

// FailAfter fails every write once n writes have gone through.
func FailAfter(n int, err error) func(op Op, path string) error {
	var mu sync.Mutex
	writes := 0
	return func(op Op, _ string) error {
		if op == OpGet || op == OpSubscribe {
			return nil
		}
		mu.Lock()
		defer mu.Unlock()
		if writes >= n {
			return err
		}
		writes++
		return nil
	}
}

// FailPrefix fails every write whose path starts with prefix.
func FailPrefix(prefix string, err error) func(op Op, path string) error {
	return func(op Op, path string) error {
		if op == OpGet || op == OpSubscribe {
			return nil
		}
		if strings.HasPrefix(path, prefix) {
			return err
		}
		return nil
	}
}

func (f *Faulty) check(op Op, path string) error {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Op: op, Path: path})
	f.mu.Unlock()
	if f.Fail == nil {
		return nil
	}
	return f.Fail(op, path)
}

// Calls returns every recorded call, failed ones included.
func (f *Faulty) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

func (f *Faulty) Get(ctx context.Context, path string) (docstore.Snapshot, error) {
	if err := f.check(OpGet, path); err != nil {
		return docstore.Snapshot{}, err
	}
	return f.Store.Get(ctx, path)
}

func (f *Faulty) Set(ctx context.Context, path string, value any) error {
	if err := f.check(OpSet, path); err != nil {
		return err
	}
	return f.Store.Set(ctx, path, value)
}

func (f *Faulty) Update(ctx context.Context, path string, fields map[string]any) error {
	if err := f.check(OpUpdate, path); err != nil {
		return err
	}
	return f.Store.Update(ctx, path, fields)
}

func (f *Faulty) Push(ctx context.Context, path string, value any) (string, error) {
	if err := f.check(OpPush, path); err != nil {
		return "", err
	}
	return f.Store.Push(ctx, path, value)
}

func (f *Faulty) Subscribe(ctx context.Context, path string) (*docstore.Subscription, error) {
	if err := f.check(OpSubscribe, path); err != nil {
		return nil, err
	}
	return f.Store.Subscribe(ctx, path)
}
