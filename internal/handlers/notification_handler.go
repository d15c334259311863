package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/student-teacher-portal/internal/docstore"
	"github.com/BruksfildServices01/student-teacher-portal/internal/dto"
	"github.com/BruksfildServices01/student-teacher-portal/internal/httperr"
	"github.com/BruksfildServices01/student-teacher-portal/internal/httpresp"
	"github.com/BruksfildServices01/student-teacher-portal/internal/middleware"
	"github.com/BruksfildServices01/student-teacher-portal/internal/usecase/notification"
)

type NotificationHandler struct {
	feed *notification.Feed
}

func NewNotificationHandler(feed *notification.Feed) *NotificationHandler {
	return &NotificationHandler{feed: feed}
}

func (h *NotificationHandler) List(c *gin.Context) {
	p, err := h.feed.List(c.Request.Context(), middleware.Student(c).ID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, notificationRows(p))
}

func (h *NotificationHandler) Stream(c *gin.Context) {
	sub, err := h.feed.Subscribe(c.Request.Context(), middleware.Student(c).ID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	defer sub.Close()

	streamSSE(c, "notifications", sub.C(), func(p notification.Projection) (any, error) {
		return notificationRows(p), nil
	})
}

// notificationRows orders by key, which follows creation order.
func notificationRows(p notification.Projection) []dto.NotificationDTO {
	out := make([]dto.NotificationDTO, 0, len(p))
	for _, k := range docstore.SortedKeys(p) {
		out = append(out, dto.NotificationDTO{Message: p[k].Message, Timestamp: p[k].Timestamp})
	}
	return out
}
