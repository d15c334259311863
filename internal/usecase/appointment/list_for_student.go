package appointment

import (
	"context"

	"github.com/BruksfildServices01/student-teacher-portal/internal/docstore"
	domain "github.com/BruksfildServices01/student-teacher-portal/internal/domain/appointment"
	"github.com/BruksfildServices01/student-teacher-portal/internal/domain/directory"
	"github.com/BruksfildServices01/student-teacher-portal/internal/dto"
	"github.com/BruksfildServices01/student-teacher-portal/internal/timezone"
)

// ListForStudent shows the student-view copies. They never carry a status;
// outcomes reach the student as notifications.
type ListForStudent struct {
	repo      domain.Repository
	displayTZ string
}

func NewListForStudent(repo domain.Repository, displayTZ string) *ListForStudent {
	return &ListForStudent{repo: repo, displayTZ: displayTZ}
}

func (uc *ListForStudent) Execute(
	ctx context.Context,
	studentID directory.StudentID,
) ([]dto.StudentAppointmentDTO, error) {

	if studentID == "" {
		return nil, errNotResolved
	}

	recs, err := uc.repo.ListStudentAppointments(ctx, studentID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.StudentAppointmentDTO, 0, len(recs))
	for _, k := range docstore.SortedKeys(recs) {
		rec := recs[k]
		out = append(out, dto.StudentAppointmentDTO{
			Key:           k,
			AppointmentID: rec.AppointmentID,
			TeacherID:     rec.TeacherID,
			Date:          rec.Date,
			Time:          rec.Time,
			RequestedAt:   timezone.Display(rec.Timestamp, uc.displayTZ),
		})
	}
	return out, nil
}
