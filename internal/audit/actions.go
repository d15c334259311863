package audit

const (
	ActionAppointmentRequested   = "appointment_requested"
	ActionAppointmentAccepted    = "appointment_accepted"
	ActionAppointmentRejected    = "appointment_rejected"
	ActionAppointmentRescheduled = "appointment_rescheduled"
	ActionMessageSent            = "message_sent"
	ActionStudentRegistered      = "student_registered"
	ActionTeacherRegistered      = "teacher_registered"
	ActionJournalRepaired        = "journal_repaired"
)
