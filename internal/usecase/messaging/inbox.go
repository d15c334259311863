package messaging

import (
	"context"

	"github.com/BruksfildServices01/student-teacher-portal/internal/docstore"
	"github.com/BruksfildServices01/student-teacher-portal/internal/domain/directory"
	"github.com/BruksfildServices01/student-teacher-portal/internal/dto"
	"github.com/BruksfildServices01/student-teacher-portal/internal/models"
	"github.com/BruksfildServices01/student-teacher-portal/internal/paths"
	"github.com/BruksfildServices01/student-teacher-portal/internal/timezone"
)

type Inbox struct {
	store     docstore.Store
	displayTZ string
}

func NewInbox(store docstore.Store, displayTZ string) *Inbox {
	return &Inbox{store: store, displayTZ: displayTZ}
}

func (uc *Inbox) Execute(ctx context.Context, teacherID directory.TeacherID) ([]dto.MessageDTO, error) {
	snap, err := uc.store.Get(ctx, paths.Messages(teacherID.String()))
	if err != nil {
		return nil, err
	}
	return uc.Project(snap)
}

// Watch streams inbox snapshots; project them with Project.
func (uc *Inbox) Watch(ctx context.Context, teacherID directory.TeacherID) (*docstore.Subscription, error) {
	return uc.store.Subscribe(ctx, paths.Messages(teacherID.String()))
}

// Project turns an inbox snapshot into rows ordered by key.
func (uc *Inbox) Project(snap docstore.Snapshot) ([]dto.MessageDTO, error) {
	msgs, err := docstore.DecodeChildren[models.Message](snap)
	if err != nil {
		return nil, err
	}

	out := make([]dto.MessageDTO, 0, len(msgs))
	for _, k := range docstore.SortedKeys(msgs) {
		m := msgs[k]
		out = append(out, dto.MessageDTO{
			Key:              k,
			StudentName:      m.StudentName,
			EnrollmentNumber: m.EnrollmentNumber,
			Message:          m.Message,
			Timestamp:        m.Timestamp,
			SentAt:           timezone.Display(m.Timestamp, uc.displayTZ),
		})
	}
	return out, nil
}
