package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/student-teacher-portal/internal/domain/directory"
	"github.com/BruksfildServices01/student-teacher-portal/internal/httperr"
)

type Resolver interface {
	ResolveStudent(ctx context.Context, email string) (directory.StudentIdentity, error)
	ResolveTeacher(ctx context.Context, email string) (directory.TeacherIdentity, error)
}

// ResolveStudent maps the authenticated email to a student document. Runs
// after AuthMiddleware.
func ResolveStudent(r Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		who, err := r.ResolveStudent(c.Request.Context(), c.GetString(ContextEmail))
		if err != nil {
			httperr.Respond(c, err)
			c.Abort()
			return
		}
		c.Set(ContextStudent, who)
		c.Next()
	}
}

func ResolveTeacher(r Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		who, err := r.ResolveTeacher(c.Request.Context(), c.GetString(ContextEmail))
		if err != nil {
			httperr.Respond(c, err)
			c.Abort()
			return
		}
		c.Set(ContextTeacher, who)
		c.Next()
	}
}

type Awaiter interface {
	AwaitStudent(ctx context.Context, email string) (directory.StudentIdentity, error)
	AwaitTeacher(ctx context.Context, email string) (directory.TeacherIdentity, error)
}

// AwaitStudent is ResolveStudent for long-lived streams: it holds the request
// up to wait for the student document to appear.
func AwaitStudent(r Awaiter, wait time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), wait)
		who, err := r.AwaitStudent(ctx, c.GetString(ContextEmail))
		cancel()
		if err != nil {
			httperr.Respond(c, err)
			c.Abort()
			return
		}
		c.Set(ContextStudent, who)
		c.Next()
	}
}

func AwaitTeacher(r Awaiter, wait time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), wait)
		who, err := r.AwaitTeacher(ctx, c.GetString(ContextEmail))
		cancel()
		if err != nil {
			httperr.Respond(c, err)
			c.Abort()
			return
		}
		c.Set(ContextTeacher, who)
		c.Next()
	}
}

func Student(c *gin.Context) directory.StudentIdentity {
	return c.MustGet(ContextStudent).(directory.StudentIdentity)
}

func Teacher(c *gin.Context) directory.TeacherIdentity {
	return c.MustGet(ContextTeacher).(directory.TeacherIdentity)
}
