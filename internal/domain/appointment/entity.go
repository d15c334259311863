package appointment

import (
	"fmt"
	"strings"

	"github.com/BruksfildServices01/student-teacher-portal/internal/httperr"
	"github.com/BruksfildServices01/student-teacher-portal/internal/models"
)

const RequestSentMessage = "Your appointment request has been sent successfully."

// ===============================
// Domain Actions
// ===============================

// Changes returns the teacher-view fields written by a.
func Changes(a Action, newDate, newTime string) (map[string]any, error) {
	fields := map[string]any{"status": string(a.Target())}

	if a == ActionReschedule {
		newDate, newTime = strings.TrimSpace(newDate), strings.TrimSpace(newTime)
		if newDate == "" || newTime == "" {
			return nil, httperr.ErrValidation("missing_fields", "Please enter both a new date and a new time.")
		}
		fields["date"] = newDate
		fields["time"] = newTime
	}
	return fields, nil
}

// TransitionMessage renders the notification sent to the student.
func TransitionMessage(a Action, teacherName string, rec models.TeacherAppointment, newDate, newTime string) string {
	switch a {
	case ActionReschedule:
		return fmt.Sprintf("Your appointment with %s has been rescheduled to %s at %s.", teacherName, newDate, newTime)
	case ActionAccept:
		return fmt.Sprintf("Your appointment with %s on %s at %s has been accepted.", teacherName, rec.Date, rec.Time)
	default:
		return fmt.Sprintf("Your appointment with %s on %s at %s has been rejected.", teacherName, rec.Date, rec.Time)
	}
}

// StatusLabel is the teacher-facing description of a record.
func StatusLabel(rec models.TeacherAppointment) string {
	switch Status(rec.Status) {
	case StatusUnset:
		return "Pending"
	case StatusRescheduled:
		return fmt.Sprintf("Rescheduled to %s at %s", rec.Date, rec.Time)
	}
	return rec.Status
}
