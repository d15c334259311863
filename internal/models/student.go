package models

type Student struct {
	Email            string `json:"email"`
	EnrollmentNumber string `json:"enrollmentNumber"`
	UserName         string `json:"userName"`
	CreatedAt        string `json:"createdAt"`
}

// Notification lives under students/{id}/notifications/{key}. Append only.
type Notification struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}
