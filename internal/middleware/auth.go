package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/student-teacher-portal/internal/httperr"
	"github.com/BruksfildServices01/student-teacher-portal/internal/identity"
)

const (
	ContextEmail   = "principalEmail"
	ContextStudent = "studentIdentity"
	ContextTeacher = "teacherIdentity"
)

func AuthMiddleware(verifier identity.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing_authorization_header", "User is not authenticated")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c, "invalid_authorization_header", "User is not authenticated")
			return
		}

		p, err := verifier.Verify(c.Request.Context(), parts[1])
		if err != nil {
			abortUnauthorized(c, "invalid_token", "User is not authenticated")
			return
		}

		c.Set(ContextEmail, p.Email)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, code, message string) {
	httperr.Unauthorized(c, code, message)
	c.Abort()
}
