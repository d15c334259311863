package appointment

import (
	"strings"

	"github.com/BruksfildServices01/student-teacher-portal/internal/httperr"
)

// ===============================
// Appointment Status
// ===============================

// Status of the teacher-view record. StatusUnset means the field is absent.
type Status string

const (
	StatusUnset       Status = ""
	StatusAccepted    Status = "Accepted"
	StatusRejected    Status = "Rejected"
	StatusRescheduled Status = "Rescheduled"
)

// ===============================
// Actions
// ===============================

type Action string

const (
	ActionAccept     Action = "accept"
	ActionReject     Action = "reject"
	ActionReschedule Action = "reschedule"
)

func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionAccept, ActionReject, ActionReschedule:
		return a, nil
	}
	return "", httperr.ErrValidation("invalid_action", "Unknown appointment action.")
}

// Target is the status an action writes.
func (a Action) Target() Status {
	switch a {
	case ActionAccept:
		return StatusAccepted
	case ActionReject:
		return StatusRejected
	case ActionReschedule:
		return StatusRescheduled
	}
	return StatusUnset
}

// ===============================
// Validations
// ===============================

// AvailableActions lists what a teacher may do next. Rescheduled stays open
// so the teacher can still settle the new slot.
func AvailableActions(current Status) []Action {
	switch current {
	case StatusUnset, StatusRescheduled:
		return []Action{ActionAccept, ActionReject, ActionReschedule}
	}
	return nil
}

// CanTransition is only enforced when the coordinator runs in strict mode.
func CanTransition(current Status, a Action) error {
	for _, allowed := range AvailableActions(current) {
		if allowed == a {
			return nil
		}
	}
	return httperr.ErrValidation("invalid_state", "This appointment has already been "+strings.ToLower(string(current))+".")
}
