package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/student-teacher-portal/internal/dto"
	"github.com/BruksfildServices01/student-teacher-portal/internal/httperr"
	"github.com/BruksfildServices01/student-teacher-portal/internal/httpresp"
	ucDirectory "github.com/BruksfildServices01/student-teacher-portal/internal/usecase/directory"
)

type AuthHandler struct {
	registerStudent *ucDirectory.RegisterStudent
	registerTeacher *ucDirectory.RegisterTeacher
	login           *ucDirectory.Login
}

func NewAuthHandler(
	registerStudent *ucDirectory.RegisterStudent,
	registerTeacher *ucDirectory.RegisterTeacher,
	login *ucDirectory.Login,
) *AuthHandler {
	return &AuthHandler{
		registerStudent: registerStudent,
		registerTeacher: registerTeacher,
		login:           login,
	}
}

// --------- Requests ---------

type SignupRequest struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (r SignupRequest) input() ucDirectory.RegisterInput {
	return ucDirectory.RegisterInput{
		ID:              r.ID,
		Name:            r.Name,
		Email:           r.Email,
		Password:        r.Password,
		ConfirmPassword: r.ConfirmPassword,
	}
}

type LoginRequest struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

// --------- Handlers ---------

func (h *AuthHandler) SignupStudent(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Please fill in all fields.")
		return
	}

	student, err := h.registerStudent.Execute(c.Request.Context(), req.input())
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, dto.SignupResultDTO{
		ID:      student.EnrollmentNumber,
		Name:    student.UserName,
		Email:   student.Email,
		Message: "Signup successful!",
	})
}

func (h *AuthHandler) SignupTeacher(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Please fill in all fields.")
		return
	}

	teacher, err := h.registerTeacher.Execute(c.Request.Context(), req.input())
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, dto.SignupResultDTO{
		ID:      teacher.TeacherID,
		Name:    teacher.UserName,
		Email:   teacher.Email,
		Message: "Signup successful!",
	})
}

func (h *AuthHandler) LoginStudent(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Please enter your ID and password.")
		return
	}

	token, err := h.login.Student(c.Request.Context(), req.ID, req.Password)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.LoginResultDTO{ID: req.ID, Token: token, Message: "Login successful!"})
}

func (h *AuthHandler) LoginTeacher(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Please enter your ID and password.")
		return
	}

	token, err := h.login.Teacher(c.Request.Context(), req.ID, req.Password)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.LoginResultDTO{ID: req.ID, Token: token, Message: "Login successful!"})
}
