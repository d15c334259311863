package models

// StudentAppointment is the student-view copy, stored under
// appointments/{enrollmentNumber}/{key}. It is written once.
type StudentAppointment struct {
	AppointmentID    string `json:"appointmentID"`
	StudentName      string `json:"studentName"`
	EnrollmentNumber string `json:"enrollmentNumber"`
	Date             string `json:"date"`
	Time             string `json:"time"`
	TeacherID        string `json:"teacherId"`
	Timestamp        string `json:"timestamp"`
}

// TeacherAppointment is the teacher-view copy, stored under
// teacherAppointments/{teacherID}/{key}. Status is absent until the
// teacher responds; date and time change on reschedule.
type TeacherAppointment struct {
	AppointmentID    string `json:"appointmentID"`
	StudentName      string `json:"studentName"`
	EnrollmentNumber string `json:"enrollmentNumber"`
	Date             string `json:"date"`
	Time             string `json:"time"`
	Timestamp        string `json:"timestamp"`
	Status           string `json:"status,omitempty"`
}
