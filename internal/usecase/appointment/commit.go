package appointment

import (
	"context"
	"log"

	"github.com/BruksfildServices01/student-teacher-portal/internal/httperr"
	"github.com/BruksfildServices01/student-teacher-portal/internal/journal"
)

var errNotResolved = httperr.ErrNotFound("identity_not_resolved", "User is not authenticated")

// commit journals steps and applies them. Nothing is rolled back on failure:
// the entry stays pending and the sweep finishes it later.
//
//	0 writes landed      -> remote write failure
//	some writes landed   -> partial write
//	all landed, the completion mark failed -> success
func commit(
	ctx context.Context,
	j *journal.Journal,
	kind string,
	token string,
	steps []journal.Step,
	failCode string,
	failMessage string,
) error {

	entry, err := j.Begin(ctx, kind, token, steps)
	if err != nil {
		return httperr.ErrRemoteWrite(failCode, failMessage, err)
	}

	p, err := j.Apply(ctx, entry)
	if err == nil {
		return nil
	}

	switch {
	case p.Complete():
		log.Printf("journal: %s %s applied but not marked complete: %v", kind, entry.Key, err)
		return nil
	case p.Done == 0:
		return httperr.ErrRemoteWrite(failCode, failMessage, err)
	default:
		log.Printf("journal: %s %s stopped after %d of %d writes: %v", kind, entry.Key, p.Done, p.Total, err)
		return httperr.ErrPartialWrite("partial_write", failMessage+" (saved partially, it will be completed automatically)", err)
	}
}
