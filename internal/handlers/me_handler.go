package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/student-teacher-portal/internal/domain/directory"
	"github.com/BruksfildServices01/student-teacher-portal/internal/httperr"
	"github.com/BruksfildServices01/student-teacher-portal/internal/middleware"
	ucDirectory "github.com/BruksfildServices01/student-teacher-portal/internal/usecase/directory"
)

type MeHandler struct {
	resolver *ucDirectory.Resolver
}

func NewMeHandler(resolver *ucDirectory.Resolver) *MeHandler {
	return &MeHandler{resolver: resolver}
}

// GetMe tells the client which portal the signed in email belongs to.
func (h *MeHandler) GetMe(c *gin.Context) {
	email := c.GetString(middleware.ContextEmail)
	if email == "" {
		httperr.Unauthorized(c, "user_not_in_context", "User is not authenticated")
		return
	}

	ctx := c.Request.Context()

	s, err := h.resolver.ResolveStudent(ctx, email)
	if err == nil {
		c.JSON(http.StatusOK, gin.H{
			"role":  string(directory.Students),
			"id":    s.ID,
			"name":  s.Name,
			"email": s.Email,
		})
		return
	}
	if !httperr.IsBusiness(err, "identity_not_resolved") {
		httperr.Respond(c, err)
		return
	}

	t, err := h.resolver.ResolveTeacher(ctx, email)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"role":  string(directory.Teachers),
		"id":    t.ID,
		"name":  t.Name,
		"email": t.Email,
	})
}
