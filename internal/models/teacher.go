package models

type Teacher struct {
	Email     string `json:"email"`
	TeacherID string `json:"teacherID"`
	UserName  string `json:"userName"`
	CreatedAt string `json:"createdAt"`
}

// Message lives under messages/{teacherID}/{key}.
type Message struct {
	StudentName      string `json:"studentName"`
	EnrollmentNumber string `json:"enrollmentNumber"`
	Message          string `json:"message"`
	Timestamp        string `json:"timestamp"`
}
