package dto

type MessageDTO struct {
	Key              string `json:"key"`
	StudentName      string `json:"student_name"`
	EnrollmentNumber string `json:"enrollment_number"`
	Message          string `json:"message"`
	Timestamp        string `json:"timestamp"`
	SentAt           string `json:"sent_at"`
}

type NotificationDTO struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}
