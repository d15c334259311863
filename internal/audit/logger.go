package audit

import (
	"context"
	"encoding/json"

	"github.com/BruksfildServices01/student-teacher-portal/internal/docstore"
	"github.com/BruksfildServices01/student-teacher-portal/internal/models"
	"github.com/BruksfildServices01/student-teacher-portal/internal/paths"
	"github.com/BruksfildServices01/student-teacher-portal/internal/timezone"
)

type Logger struct {
	store docstore.Store
}

func New(store docstore.Store) *Logger {
	return &Logger{store: store}
}

func (l *Logger) Log(ctx context.Context, ev Event) error {
	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	entry := models.AuditLog{
		Action:    ev.Action,
		Entity:    ev.Entity,
		Actor:     ev.Actor,
		Path:      ev.Path,
		Metadata:  metaJSON,
		Timestamp: timezone.ISO(timezone.Now()),
	}

	_, err := l.store.Push(ctx, paths.AuditLogs(), entry)
	return err
}

type Filter struct {
	Actor  string
	Action string
	Entity string
}

func (f Filter) match(l models.AuditLog) bool {
	return (f.Actor == "" || l.Actor == f.Actor) &&
		(f.Action == "" || l.Action == f.Action) &&
		(f.Entity == "" || l.Entity == f.Entity)
}

// List returns matching entries, newest first.
func (l *Logger) List(ctx context.Context, f Filter) ([]models.AuditLog, error) {
	snap, err := l.store.Get(ctx, paths.AuditLogs())
	if err != nil {
		return nil, err
	}
	all, err := docstore.DecodeChildren[models.AuditLog](snap)
	if err != nil {
		return nil, err
	}

	keys := docstore.SortedKeys(all)
	out := make([]models.AuditLog, 0, len(keys))
	for i := len(keys) - 1; i >= 0; i-- {
		if e := all[keys[i]]; f.match(e) {
			out = append(out, e)
		}
	}
	return out, nil
}
