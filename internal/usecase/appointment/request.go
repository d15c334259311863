package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/BruksfildServices01/student-teacher-portal/internal/audit"
	"github.com/BruksfildServices01/student-teacher-portal/internal/docstore"
	domain "github.com/BruksfildServices01/student-teacher-portal/internal/domain/appointment"
	"github.com/BruksfildServices01/student-teacher-portal/internal/domain/directory"
	"github.com/BruksfildServices01/student-teacher-portal/internal/journal"
	"github.com/BruksfildServices01/student-teacher-portal/internal/models"
	"github.com/BruksfildServices01/student-teacher-portal/internal/paths"
	"github.com/BruksfildServices01/student-teacher-portal/internal/timezone"
	"github.com/BruksfildServices01/student-teacher-portal/internal/validators"
)

const KindRequest = "appointment_request"

// ======================================================
// INPUT
// ======================================================

type RequestInput struct {
	Student   directory.StudentIdentity
	TeacherID string `validate:"required"`
	Date      string `validate:"required"`
	Time      string `validate:"required"`
}

var requestFallback = validators.Message{
	Code: "missing_fields",
	Text: "Please select a teacher, date, and time.",
}

type RequestResult struct {
	AppointmentID   string `json:"appointment_id"`
	StudentKey      string `json:"student_key"`
	TeacherKey      string `json:"teacher_key"`
	NotificationKey string `json:"notification_key"`
}

// ======================================================
// USE CASE
// ======================================================

type RequestAppointment struct {
	store   docstore.Store
	journal *journal.Journal
	audit   *audit.Dispatcher
	prefix  string
	now     func() time.Time
}

func NewRequestAppointment(
	store docstore.Store,
	j *journal.Journal,
	audit *audit.Dispatcher,
	prefix string,
) *RequestAppointment {
	return &RequestAppointment{
		store:   store,
		journal: j,
		audit:   audit,
		prefix:  prefix,
		now:     timezone.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *RequestAppointment) Execute(
	ctx context.Context,
	in RequestInput,
) (*RequestResult, error) {

	// --------------------------------------------------
	// 1. Input
	// --------------------------------------------------
	in.TeacherID = strings.TrimSpace(in.TeacherID)
	in.Date = strings.TrimSpace(in.Date)
	in.Time = strings.TrimSpace(in.Time)
	if err := validators.Struct(in, nil, requestFallback); err != nil {
		return nil, err
	}

	teacherID, err := directory.ParseTeacherID(in.TeacherID, uc.prefix)
	if err != nil {
		return nil, err
	}
	if in.Student.ID == "" {
		return nil, errNotResolved
	}
	studentID := in.Student.ID.String()

	// --------------------------------------------------
	// 2. Correlation token. Two requests in the same
	// millisecond share it; the keys stay unique.
	// --------------------------------------------------
	now := timezone.ISO(uc.now())
	token := now

	// --------------------------------------------------
	// 3. Keys are allocated up front so a replay of the
	// journal entry rewrites the same documents.
	// --------------------------------------------------
	res := &RequestResult{
		AppointmentID:   token,
		StudentKey:      uc.store.NewKey(),
		TeacherKey:      uc.store.NewKey(),
		NotificationKey: uc.store.NewKey(),
	}

	steps := []journal.Step{
		journal.Set(paths.StudentAppointment(studentID, res.StudentKey), models.StudentAppointment{
			AppointmentID:    token,
			StudentName:      in.Student.Name,
			EnrollmentNumber: studentID,
			Date:             in.Date,
			Time:             in.Time,
			TeacherID:        teacherID.String(),
			Timestamp:        now,
		}),
		journal.Set(paths.TeacherAppointment(teacherID.String(), res.TeacherKey), models.TeacherAppointment{
			AppointmentID:    token,
			StudentName:      in.Student.Name,
			EnrollmentNumber: studentID,
			Date:             in.Date,
			Time:             in.Time,
			Timestamp:        now,
		}),
		journal.Set(paths.Notification(studentID, res.NotificationKey), models.Notification{
			Message:   domain.RequestSentMessage,
			Timestamp: now,
		}),
	}

	// --------------------------------------------------
	// 4. Apply
	// --------------------------------------------------
	if err := commit(ctx, uc.journal, KindRequest, token, steps, "request_failed", "Failed to book appointment"); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 5. Audit
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		Action:   audit.ActionAppointmentRequested,
		Entity:   "appointment",
		Actor:    studentID,
		Path:     paths.TeacherAppointment(teacherID.String(), res.TeacherKey),
		Metadata: map[string]string{"appointmentID": token},
	})

	return res, nil
}
