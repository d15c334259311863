package appointment

import (
	"context"

	"github.com/BruksfildServices01/student-teacher-portal/internal/docstore"
	"github.com/BruksfildServices01/student-teacher-portal/internal/domain/directory"
	"github.com/BruksfildServices01/student-teacher-portal/internal/models"
)

// Repository covers the reads of the coordinator. Writes go through the journal.
type Repository interface {
	// -------- Teacher view --------
	GetTeacherAppointment(
		ctx context.Context,
		teacherID directory.TeacherID,
		key string,
	) (*models.TeacherAppointment, error)

	ListTeacherAppointments(
		ctx context.Context,
		teacherID directory.TeacherID,
	) (map[string]models.TeacherAppointment, error)

	WatchTeacherAppointments(
		ctx context.Context,
		teacherID directory.TeacherID,
	) (*docstore.Subscription, error)

	// -------- Student view --------
	ListStudentAppointments(
		ctx context.Context,
		studentID directory.StudentID,
	) (map[string]models.StudentAppointment, error)

	// -------- Teacher --------
	GetTeacher(
		ctx context.Context,
		teacherID directory.TeacherID,
	) (*models.Teacher, error)
}
