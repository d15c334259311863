package dto

type TeacherOptionDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type SignupResultDTO struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type LoginResultDTO struct {
	ID      string `json:"id"`
	Token   string `json:"token"`
	Message string `json:"message"`
}
