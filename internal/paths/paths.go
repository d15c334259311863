// Package paths builds the document tree locations used by the portal.
package paths

import "github.com/BruksfildServices01/student-teacher-portal/internal/docstore"

const (
	StudentsRoot            = "students"
	TeachersRoot            = "teachers"
	MessagesRoot            = "messages"
	AppointmentsRoot        = "appointments"
	TeacherAppointmentsRoot = "teacherAppointments"
	JournalRoot             = "journal"
	JournalPendingRoot      = "journalPending"
	AuditLogsRoot           = "auditLogs"

	notificationsDir = "notifications"
)

func Students() string { return StudentsRoot }

func Student(id string) string { return docstore.Join(StudentsRoot, id) }

func Notifications(studentID string) string {
	return docstore.Join(StudentsRoot, studentID, notificationsDir)
}

func Notification(studentID, key string) string {
	return docstore.Join(Notifications(studentID), key)
}

func Teachers() string { return TeachersRoot }

func Teacher(id string) string { return docstore.Join(TeachersRoot, id) }

func Messages(teacherID string) string { return docstore.Join(MessagesRoot, teacherID) }

func Appointments(enrollmentNumber string) string {
	return docstore.Join(AppointmentsRoot, enrollmentNumber)
}

func StudentAppointment(enrollmentNumber, key string) string {
	return docstore.Join(AppointmentsRoot, enrollmentNumber, key)
}

func TeacherAppointments(teacherID string) string {
	return docstore.Join(TeacherAppointmentsRoot, teacherID)
}

func TeacherAppointment(teacherID, key string) string {
	return docstore.Join(TeacherAppointmentsRoot, teacherID, key)
}

func Journal() string { return JournalRoot }

func JournalEntry(key string) string { return docstore.Join(JournalRoot, key) }

// JournalPending indexes entries that are not complete yet.
func JournalPending(key string) string { return docstore.Join(JournalPendingRoot, key) }

func AuditLogs() string { return AuditLogsRoot }
