package journal

import (
	"context"
	"log"
	"time"

	"github.com/BruksfildServices01/student-teacher-portal/internal/audit"
	"github.com/BruksfildServices01/student-teacher-portal/internal/paths"
	"github.com/BruksfildServices01/student-teacher-portal/internal/timezone"
)

type Report struct {
	Scanned  int
	Repaired int
	Failed   int
}

// Reconciler replays entries left pending by an interrupted operation.
type Reconciler struct {
	journal *Journal
	audit   *audit.Dispatcher
}

func NewReconciler(j *Journal, audit *audit.Dispatcher) *Reconciler {
	return &Reconciler{journal: j, audit: audit}
}

// Sweep replays pending entries created more than olderThan ago. Younger
// entries may still be in flight and are left alone.
func (r *Reconciler) Sweep(ctx context.Context, olderThan time.Duration) (Report, error) {
	pending, err := r.journal.Pending(ctx)
	if err != nil {
		return Report{}, err
	}

	cutoff := r.journal.now().Add(-olderThan)
	var rep Report

	for _, e := range pending {
		created, err := timezone.ParseISO(e.CreatedAt)
		if err == nil && created.After(cutoff) {
			continue
		}
		rep.Scanned++

		if _, err := r.journal.Apply(ctx, e); err != nil {
			rep.Failed++
			log.Printf("journal: repair %s (%s %s) failed: %v", e.Key, e.Kind, e.CorrelationToken, err)
			continue
		}
		rep.Repaired++

		r.audit.Dispatch(audit.Event{
			Action:   audit.ActionJournalRepaired,
			Entity:   "journal",
			Actor:    "reconciler",
			Path:     paths.JournalEntry(e.Key),
			Metadata: map[string]string{"kind": e.Kind, "correlationToken": e.CorrelationToken},
		})
	}

	return rep, nil
}
