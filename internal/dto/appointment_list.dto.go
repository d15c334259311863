package dto

// TeacherAppointmentDTO is one row of a teacher's queue.
type TeacherAppointmentDTO struct {
	Key              string   `json:"key"`
	AppointmentID    string   `json:"appointment_id"`
	StudentName      string   `json:"student_name"`
	EnrollmentNumber string   `json:"enrollment_number"`
	Date             string   `json:"date"`
	Time             string   `json:"time"`
	Status           string   `json:"status"`
	StatusLabel      string   `json:"status_label"`
	Actions          []string `json:"actions"`
	RequestedAt      string   `json:"requested_at"`
}

type StudentAppointmentDTO struct {
	Key           string `json:"key"`
	AppointmentID string `json:"appointment_id"`
	TeacherID     string `json:"teacher_id"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	RequestedAt   string `json:"requested_at"`
}
