package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/student-teacher-portal/internal/httperr"
	"github.com/BruksfildServices01/student-teacher-portal/internal/httpresp"
	ucDirectory "github.com/BruksfildServices01/student-teacher-portal/internal/usecase/directory"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

// PublicHandler serves data needed before sign in.
type PublicHandler struct {
	teachers *ucDirectory.ListTeachers
}

func NewPublicHandler(teachers *ucDirectory.ListTeachers) *PublicHandler {
	return &PublicHandler{teachers: teachers}
}

////////////////////////////////////////////////////////
// TEACHERS
////////////////////////////////////////////////////////

func (h *PublicHandler) ListTeachers(c *gin.Context) {
	list, err := h.teachers.Execute(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, list)
}
