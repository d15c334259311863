package docstore

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var ErrClosed = errors.New("docstore: store closed")

// Store is a hierarchical document tree addressed by slash separated paths.
// Concurrent writes are last-write-wins per leaf.
type Store interface {
	// Get returns the subtree at path. A missing path yields a snapshot whose Exists is false.
	Get(ctx context.Context, path string) (Snapshot, error)
	// Set replaces the subtree at path. A nil value deletes it.
	Set(ctx context.Context, path string, value any) error
	// Update replaces each field below path in one atomic step.
	Update(ctx context.Context, path string, fields map[string]any) error
	// Push stores value under a fresh key below path and returns the key.
	Push(ctx context.Context, path string, value any) (string, error)
	// NewKey allocates a key without writing anything.
	NewKey() string
	// Subscribe delivers the current snapshot at path and a fresh one after
	// every change that may affect it.
	Subscribe(ctx context.Context, path string) (*Subscription, error)
	Close() error
}

// NewKey returns a UUIDv7 without dashes: unique and ordered by creation time.
func NewKey() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return strings.ReplaceAll(id.String(), "-", "")
}

func push(ctx context.Context, s Store, path string, value any) (string, error) {
	key := s.NewKey()
	if err := s.Set(ctx, Join(path, key), value); err != nil {
		return "", err
	}
	return key, nil
}
