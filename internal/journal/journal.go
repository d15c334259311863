// Package journal makes multi-document writes repairable. An entry listing
// every write is stored before the first one is applied; each step is marked
// done as it lands. Steps target preallocated paths, so replaying an entry
// never duplicates a document.
package journal

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/BruksfildServices01/student-teacher-portal/internal/docstore"
	"github.com/BruksfildServices01/student-teacher-portal/internal/models"
	"github.com/BruksfildServices01/student-teacher-portal/internal/paths"
	"github.com/BruksfildServices01/student-teacher-portal/internal/timezone"
)

// Step is one write of an entry. Op is models.StepSet or models.StepUpdate;
// an update takes a map value.
type Step struct {
	Op    string
	Path  string
	Value any
}

func Set(path string, value any) Step {
	return Step{Op: models.StepSet, Path: path, Value: value}
}

func Update(path string, fields map[string]any) Step {
	return Step{Op: models.StepUpdate, Path: path, Value: fields}
}

type Entry struct {
	Key string
	models.JournalEntry
}

// Progress counts the domain writes of an entry that have landed.
type Progress struct {
	Done  int
	Total int
}

func (p Progress) Complete() bool {
	return p.Done == p.Total
}

type Journal struct {
	store docstore.Store
	now   func() time.Time
}

func New(store docstore.Store) *Journal {
	return &Journal{store: store, now: timezone.Now}
}

// Begin persists the entry. Nothing has been applied when it returns.
func (j *Journal) Begin(ctx context.Context, kind, token string, steps []Step) (*Entry, error) {
	if len(steps) == 0 {
		return nil, errors.New("journal: entry without steps")
	}

	now := timezone.ISO(j.now())
	e := &Entry{
		Key: j.store.NewKey(),
		JournalEntry: models.JournalEntry{
			Kind:             kind,
			CorrelationToken: token,
			State:            models.JournalPending,
			CreatedAt:        now,
			UpdatedAt:        now,
			Steps:            make(map[string]models.JournalStep, len(steps)),
		},
	}

	for i, s := range steps {
		if s.Op != models.StepSet && s.Op != models.StepUpdate {
			return nil, errors.Errorf("journal: unknown op %q", s.Op)
		}
		payload, err := json.Marshal(s.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "journal: encode step %d", i)
		}
		e.Steps[strconv.Itoa(i)] = models.JournalStep{
			Op:      s.Op,
			Path:    s.Path,
			Payload: string(payload),
		}
	}

	if err := j.store.Set(ctx, paths.JournalEntry(e.Key), e.JournalEntry); err != nil {
		return nil, err
	}
	// An unindexed entry is never replayed, so drop it rather than leave it behind.
	if err := j.store.Set(ctx, paths.JournalPending(e.Key), now); err != nil {
		_ = j.store.Set(ctx, paths.JournalEntry(e.Key), nil)
		return nil, err
	}
	return e, nil
}

// Apply runs the remaining steps in order. It stops at the first failure;
// the returned progress tells how many domain writes are in place.
func (j *Journal) Apply(ctx context.Context, e *Entry) (Progress, error) {
	order := stepOrder(e.Steps)
	p := Progress{Total: len(order)}

	for _, idx := range order {
		step := e.Steps[idx]
		if step.Done {
			p.Done++
			continue
		}

		if err := j.applyStep(ctx, step); err != nil {
			return p, err
		}
		p.Done++

		step.Done = true
		e.Steps[idx] = step
		if err := j.store.Update(ctx, paths.JournalEntry(e.Key), map[string]any{
			"steps/" + idx + "/done": true,
			"updatedAt":              timezone.ISO(j.now()),
		}); err != nil {
			return p, err
		}
	}

	if err := j.store.Update(ctx, paths.JournalEntry(e.Key), map[string]any{
		"state":     models.JournalComplete,
		"updatedAt": timezone.ISO(j.now()),
	}); err != nil {
		return p, err
	}
	e.State = models.JournalComplete

	if err := j.store.Set(ctx, paths.JournalPending(e.Key), nil); err != nil {
		return p, err
	}
	return p, nil
}

func (j *Journal) applyStep(ctx context.Context, step models.JournalStep) error {
	raw := json.RawMessage(step.Payload)

	switch step.Op {
	case models.StepSet:
		return j.store.Set(ctx, step.Path, raw)
	case models.StepUpdate:
		var fields map[string]any
		if err := json.Unmarshal(raw, &fields); err != nil {
			return errors.Wrapf(err, "journal: decode update for %q", step.Path)
		}
		return j.store.Update(ctx, step.Path, fields)
	}
	return errors.Errorf("journal: unknown op %q", step.Op)
}

// Pending lists indexed entries not yet marked complete, oldest first.
// Completed entries still in the index are unindexed on the way.
func (j *Journal) Pending(ctx context.Context) ([]*Entry, error) {
	snap, err := j.store.Get(ctx, paths.JournalPendingRoot)
	if err != nil {
		return nil, err
	}
	index, err := docstore.DecodeChildren[string](snap)
	if err != nil {
		return nil, err
	}

	var out []*Entry
	for _, k := range docstore.SortedKeys(index) {
		e, err := j.Get(ctx, k)
		if err != nil {
			return nil, err
		}
		if e == nil || e.State == models.JournalComplete {
			if err := j.store.Set(ctx, paths.JournalPending(k), nil); err != nil {
				log.Printf("journal: unindex %s: %v", k, err)
			}
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (j *Journal) Get(ctx context.Context, key string) (*Entry, error) {
	snap, err := j.store.Get(ctx, paths.JournalEntry(key))
	if err != nil {
		return nil, err
	}
	if !snap.Exists() {
		return nil, nil
	}
	var e models.JournalEntry
	if err := snap.Decode(&e); err != nil {
		return nil, err
	}
	return &Entry{Key: key, JournalEntry: e}, nil
}

func stepOrder(steps map[string]models.JournalStep) []string {
	keys := make([]string, 0, len(steps))
	for k := range steps {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		x, _ := strconv.Atoi(keys[a])
		y, _ := strconv.Atoi(keys[b])
		return x < y
	})
	return keys
}
