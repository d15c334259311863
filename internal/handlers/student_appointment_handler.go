package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/student-teacher-portal/internal/httperr"
	"github.com/BruksfildServices01/student-teacher-portal/internal/httpresp"
	"github.com/BruksfildServices01/student-teacher-portal/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/student-teacher-portal/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type StudentAppointmentHandler struct {
	request *ucAppointment.RequestAppointment
	list    *ucAppointment.ListForStudent
}

func NewStudentAppointmentHandler(
	request *ucAppointment.RequestAppointment,
	list *ucAppointment.ListForStudent,
) *StudentAppointmentHandler {
	return &StudentAppointmentHandler{request: request, list: list}
}

// ======================================================
// REQUESTS
// ======================================================

type RequestAppointmentRequest struct {
	TeacherID string `json:"teacher_id"`
	Date      string `json:"date"`
	Time      string `json:"time"`
}

// ======================================================
// CREATE
// ======================================================

func (h *StudentAppointmentHandler) Create(c *gin.Context) {
	var req RequestAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Please select a teacher, date, and time.")
		return
	}

	res, err := h.request.Execute(c.Request.Context(), ucAppointment.RequestInput{
		Student:   middleware.Student(c),
		TeacherID: req.TeacherID,
		Date:      req.Date,
		Time:      req.Time,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, res)
}

// ======================================================
// LIST
// ======================================================

func (h *StudentAppointmentHandler) List(c *gin.Context) {
	rows, err := h.list.Execute(c.Request.Context(), middleware.Student(c).ID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, rows)
}
