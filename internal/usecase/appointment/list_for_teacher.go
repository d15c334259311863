package appointment

import (
	"context"

	"github.com/BruksfildServices01/student-teacher-portal/internal/docstore"
	domain "github.com/BruksfildServices01/student-teacher-portal/internal/domain/appointment"
	"github.com/BruksfildServices01/student-teacher-portal/internal/domain/directory"
	"github.com/BruksfildServices01/student-teacher-portal/internal/dto"
	"github.com/BruksfildServices01/student-teacher-portal/internal/models"
	"github.com/BruksfildServices01/student-teacher-portal/internal/timezone"
)

type ListForTeacher struct {
	repo      domain.Repository
	displayTZ string
}

func NewListForTeacher(repo domain.Repository, displayTZ string) *ListForTeacher {
	return &ListForTeacher{repo: repo, displayTZ: displayTZ}
}

func (uc *ListForTeacher) Execute(
	ctx context.Context,
	teacherID directory.TeacherID,
) ([]dto.TeacherAppointmentDTO, error) {

	if teacherID == "" {
		return nil, errNotResolved
	}

	recs, err := uc.repo.ListTeacherAppointments(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	return uc.rows(recs), nil
}

// Watch streams the teacher's queue; turn each snapshot into rows with Project.
func (uc *ListForTeacher) Watch(
	ctx context.Context,
	teacherID directory.TeacherID,
) (*docstore.Subscription, error) {

	if teacherID == "" {
		return nil, errNotResolved
	}
	return uc.repo.WatchTeacherAppointments(ctx, teacherID)
}

func (uc *ListForTeacher) Project(snap docstore.Snapshot) ([]dto.TeacherAppointmentDTO, error) {
	recs, err := docstore.DecodeChildren[models.TeacherAppointment](snap)
	if err != nil {
		return nil, err
	}
	return uc.rows(recs), nil
}

func (uc *ListForTeacher) rows(recs map[string]models.TeacherAppointment) []dto.TeacherAppointmentDTO {
	out := make([]dto.TeacherAppointmentDTO, 0, len(recs))
	for _, k := range docstore.SortedKeys(recs) {
		rec := recs[k]

		actions := []string{}
		for _, a := range domain.AvailableActions(domain.Status(rec.Status)) {
			actions = append(actions, string(a))
		}

		out = append(out, dto.TeacherAppointmentDTO{
			Key:              k,
			AppointmentID:    rec.AppointmentID,
			StudentName:      rec.StudentName,
			EnrollmentNumber: rec.EnrollmentNumber,
			Date:             rec.Date,
			Time:             rec.Time,
			Status:           rec.Status,
			StatusLabel:      domain.StatusLabel(rec),
			Actions:          actions,
			RequestedAt:      timezone.Display(rec.Timestamp, uc.displayTZ),
		})
	}
	return out
}
