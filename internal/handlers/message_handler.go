package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/student-teacher-portal/internal/docstore"
	"github.com/BruksfildServices01/student-teacher-portal/internal/httperr"
	"github.com/BruksfildServices01/student-teacher-portal/internal/httpresp"
	"github.com/BruksfildServices01/student-teacher-portal/internal/middleware"
	ucMessaging "github.com/BruksfildServices01/student-teacher-portal/internal/usecase/messaging"
)

type MessageHandler struct {
	send  *ucMessaging.Send
	inbox *ucMessaging.Inbox
}

func NewMessageHandler(send *ucMessaging.Send, inbox *ucMessaging.Inbox) *MessageHandler {
	return &MessageHandler{send: send, inbox: inbox}
}

type SendMessageRequest struct {
	TeacherID string `json:"teacher_id"`
	Message   string `json:"message"`
}

// Send is the student side.
func (h *MessageHandler) Send(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "missing_fields", "Please select a teacher and enter a message.")
		return
	}

	key, msg, err := h.send.Execute(c.Request.Context(), ucMessaging.SendInput{
		Sender:    middleware.Student(c),
		Recipient: req.TeacherID,
		Body:      req.Message,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, gin.H{
		"key":     key,
		"message": msg,
		"status":  "Message sent successfully!",
	})
}

// Inbox and InboxStream are the teacher side.
func (h *MessageHandler) Inbox(c *gin.Context) {
	rows, err := h.inbox.Execute(c.Request.Context(), middleware.Teacher(c).ID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, rows)
}

func (h *MessageHandler) InboxStream(c *gin.Context) {
	sub, err := h.inbox.Watch(c.Request.Context(), middleware.Teacher(c).ID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	defer sub.Close()

	streamSSE(c, "messages", sub.C(), func(snap docstore.Snapshot) (any, error) {
		return h.inbox.Project(snap)
	})
}
