package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/student-teacher-portal/internal/audit"
	"github.com/BruksfildServices01/student-teacher-portal/internal/docstore"
	domain "github.com/BruksfildServices01/student-teacher-portal/internal/domain/appointment"
	"github.com/BruksfildServices01/student-teacher-portal/internal/domain/directory"
	"github.com/BruksfildServices01/student-teacher-portal/internal/httperr"
	"github.com/BruksfildServices01/student-teacher-portal/internal/journal"
	"github.com/BruksfildServices01/student-teacher-portal/internal/models"
	"github.com/BruksfildServices01/student-teacher-portal/internal/paths"
	"github.com/BruksfildServices01/student-teacher-portal/internal/timezone"
)

const KindTransition = "appointment_transition"

type TransitionInput struct {
	TeacherID directory.TeacherID
	Key       string
	Action    domain.Action
	NewDate   string
	NewTime   string
}

// TransitionAppointment changes the teacher view only and tells the student
// through a new notification. Without strict mode a repeated call overwrites
// the status again and sends another notification.
type TransitionAppointment struct {
	repo    domain.Repository
	store   docstore.Store
	journal *journal.Journal
	audit   *audit.Dispatcher
	strict  bool
	now     func() time.Time
}

func NewTransitionAppointment(
	repo domain.Repository,
	store docstore.Store,
	j *journal.Journal,
	audit *audit.Dispatcher,
	strict bool,
) *TransitionAppointment {
	return &TransitionAppointment{
		repo:    repo,
		store:   store,
		journal: j,
		audit:   audit,
		strict:  strict,
		now:     timezone.Now,
	}
}

var auditActions = map[domain.Action]string{
	domain.ActionAccept:     audit.ActionAppointmentAccepted,
	domain.ActionReject:     audit.ActionAppointmentRejected,
	domain.ActionReschedule: audit.ActionAppointmentRescheduled,
}

func (uc *TransitionAppointment) Execute(
	ctx context.Context,
	in TransitionInput,
) (*models.TeacherAppointment, error) {

	if in.TeacherID == "" {
		return nil, errNotResolved
	}
	if in.Action.Target() == domain.StatusUnset {
		return nil, httperr.ErrValidation("invalid_action", "Unknown appointment action.")
	}

	// --------------------------------------------------
	// Record
	// --------------------------------------------------
	rec, err := uc.repo.GetTeacherAppointment(ctx, in.TeacherID, in.Key)
	if err != nil {
		return nil, err
	}

	if uc.strict {
		if err := domain.CanTransition(domain.Status(rec.Status), in.Action); err != nil {
			return nil, err
		}
	}

	changes, err := domain.Changes(in.Action, in.NewDate, in.NewTime)
	if err != nil {
		return nil, err
	}
	newDate, _ := changes["date"].(string)
	newTime, _ := changes["time"].(string)

	// A record without a usable enrollment number has no notification feed.
	studentID, err := directory.ParseStudentID(rec.EnrollmentNumber)
	if err != nil {
		return nil, httperr.ErrValidation("appointment_without_student", "This appointment is not linked to a student.")
	}

	// --------------------------------------------------
	// Notification text
	// --------------------------------------------------
	teacher, err := uc.repo.GetTeacher(ctx, in.TeacherID)
	if err != nil {
		return nil, err
	}
	name := directory.DisplayName("")
	if teacher != nil {
		name = directory.DisplayName(teacher.UserName)
	}

	now := timezone.ISO(uc.now())
	notification := models.Notification{
		Message:   domain.TransitionMessage(in.Action, name, *rec, newDate, newTime),
		Timestamp: now,
	}

	// --------------------------------------------------
	// Writes
	// --------------------------------------------------
	steps := []journal.Step{
		journal.Update(paths.TeacherAppointment(in.TeacherID.String(), in.Key), changes),
		journal.Set(paths.Notification(studentID.String(), uc.store.NewKey()), notification),
	}
	if err := commit(ctx, uc.journal, KindTransition, rec.AppointmentID, steps, "transition_failed", "Failed to update appointment"); err != nil {
		return nil, err
	}

	out := *rec
	out.Status = string(in.Action.Target())
	if in.Action == domain.ActionReschedule {
		out.Date, out.Time = newDate, newTime
	}

	uc.audit.Dispatch(audit.Event{
		Action: auditActions[in.Action],
		Entity: "appointment",
		Actor:  in.TeacherID.String(),
		Path:   paths.TeacherAppointment(in.TeacherID.String(), in.Key),
		Metadata: map[string]string{
			"appointmentID": rec.AppointmentID,
			"status":        out.Status,
		},
	})

	return &out, nil
}
