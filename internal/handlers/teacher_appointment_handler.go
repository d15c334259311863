package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/student-teacher-portal/internal/docstore"
	domain "github.com/BruksfildServices01/student-teacher-portal/internal/domain/appointment"
	"github.com/BruksfildServices01/student-teacher-portal/internal/httperr"
	"github.com/BruksfildServices01/student-teacher-portal/internal/httpresp"
	"github.com/BruksfildServices01/student-teacher-portal/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/student-teacher-portal/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type TeacherAppointmentHandler struct {
	transition *ucAppointment.TransitionAppointment
	list       *ucAppointment.ListForTeacher
}

func NewTeacherAppointmentHandler(
	transition *ucAppointment.TransitionAppointment,
	list *ucAppointment.ListForTeacher,
) *TeacherAppointmentHandler {
	return &TeacherAppointmentHandler{transition: transition, list: list}
}

// ======================================================
// REQUESTS
// ======================================================

type RescheduleRequest struct {
	NewDate string `json:"new_date"`
	NewTime string `json:"new_time"`
}

// ======================================================
// LIST
// ======================================================

func (h *TeacherAppointmentHandler) List(c *gin.Context) {
	rows, err := h.list.Execute(c.Request.Context(), middleware.Teacher(c).ID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, rows)
}

func (h *TeacherAppointmentHandler) Stream(c *gin.Context) {
	sub, err := h.list.Watch(c.Request.Context(), middleware.Teacher(c).ID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	defer sub.Close()

	streamSSE(c, "appointments", sub.C(), func(snap docstore.Snapshot) (any, error) {
		return h.list.Project(snap)
	})
}

// ======================================================
// TRANSITIONS
// ======================================================

func (h *TeacherAppointmentHandler) Accept(c *gin.Context) {
	h.apply(c, domain.ActionAccept, RescheduleRequest{})
}

func (h *TeacherAppointmentHandler) Reject(c *gin.Context) {
	h.apply(c, domain.ActionReject, RescheduleRequest{})
}

func (h *TeacherAppointmentHandler) Reschedule(c *gin.Context) {
	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "missing_fields", "Please enter both a new date and a new time.")
		return
	}
	h.apply(c, domain.ActionReschedule, req)
}

func (h *TeacherAppointmentHandler) apply(c *gin.Context, action domain.Action, req RescheduleRequest) {
	rec, err := h.transition.Execute(c.Request.Context(), ucAppointment.TransitionInput{
		TeacherID: middleware.Teacher(c).ID,
		Key:       c.Param("key"),
		Action:    action,
		NewDate:   req.NewDate,
		NewTime:   req.NewTime,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"key":          c.Param("key"),
		"appointment":  rec,
		"status_label": domain.StatusLabel(*rec),
	})
}
