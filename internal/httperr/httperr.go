package httperr

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func BadGateway(c *gin.Context, code, message string) {
	Write(c, http.StatusBadGateway, code, message)
}

// Respond converts any operation error into the user-facing payload.
// Nothing is retried here.
func Respond(c *gin.Context, err error) {
	var be BusinessError
	if !errors.As(err, &be) {
		log.Printf("unclassified error on %s %s: %v", c.Request.Method, c.FullPath(), err)
		Internal(c, "internal_error", "Something went wrong.")
		return
	}

	msg := be.Message
	if msg == "" {
		msg = be.Code
	}

	switch be.Kind {
	case KindValidation:
		BadRequest(c, be.Code, msg)
	case KindNotFound:
		NotFound(c, be.Code, msg)
	case KindUnauthorized:
		Unauthorized(c, be.Code, msg)
	case KindRemoteWrite, KindPartialWrite:
		if be.Err != nil {
			msg = msg + ": " + be.Err.Error()
		}
		BadGateway(c, be.Code, msg)
	default:
		Internal(c, be.Code, msg)
	}
}
