package notification

import (
	"context"

	"github.com/BruksfildServices01/student-teacher-portal/internal/docstore"
	"github.com/BruksfildServices01/student-teacher-portal/internal/domain/directory"
	"github.com/BruksfildServices01/student-teacher-portal/internal/models"
	"github.com/BruksfildServices01/student-teacher-portal/internal/paths"
)

// Projection maps notification keys to their content. Order is not part of
// the projection; sort the keys for display.
type Projection map[string]models.Notification

// Feed is the read side of a student's notifications.
type Feed struct {
	store docstore.Store
}

func NewFeed(store docstore.Store) *Feed {
	return &Feed{store: store}
}

func (f *Feed) List(ctx context.Context, studentID directory.StudentID) (Projection, error) {
	snap, err := f.store.Get(ctx, paths.Notifications(studentID.String()))
	if err != nil {
		return nil, err
	}
	return project(snap)
}

// Subscription yields a fresh projection after every change. Close it, or
// cancel the context passed to Subscribe, to release it.
type Subscription struct {
	sub *docstore.Subscription
	out chan Projection
}

func (s *Subscription) C() <-chan Projection {
	return s.out
}

func (s *Subscription) Close() {
	s.sub.Close()
}

func (f *Feed) Subscribe(ctx context.Context, studentID directory.StudentID) (*Subscription, error) {
	sub, err := f.store.Subscribe(ctx, paths.Notifications(studentID.String()))
	if err != nil {
		return nil, err
	}

	s := &Subscription{sub: sub, out: make(chan Projection, 1)}
	go s.run()
	return s, nil
}

func (s *Subscription) run() {
	defer close(s.out)
	for snap := range s.sub.C() {
		p, err := project(snap)
		if err != nil {
			continue
		}
		// Keep only the newest projection when the reader lags.
		select {
		case <-s.out:
		default:
		}
		select {
		case s.out <- p:
		case <-s.sub.Done():
			return
		}
	}
}

func project(snap docstore.Snapshot) (Projection, error) {
	m, err := docstore.DecodeChildren[models.Notification](snap)
	if err != nil {
		return nil, err
	}
	return Projection(m), nil
}
