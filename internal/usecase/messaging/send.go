package messaging

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/student-teacher-portal/internal/audit"
	"github.com/BruksfildServices01/student-teacher-portal/internal/docstore"
	"github.com/BruksfildServices01/student-teacher-portal/internal/domain/directory"
	"github.com/BruksfildServices01/student-teacher-portal/internal/httperr"
	"github.com/BruksfildServices01/student-teacher-portal/internal/models"
	"github.com/BruksfildServices01/student-teacher-portal/internal/paths"
	"github.com/BruksfildServices01/student-teacher-portal/internal/timezone"
	"github.com/BruksfildServices01/student-teacher-portal/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type SendInput struct {
	Sender    directory.StudentIdentity
	Recipient string `validate:"required"`
	Body      string `validate:"required"`
}

var sendMessages = validators.Messages{}

var sendFallback = validators.Message{
	Code: "missing_fields",
	Text: "Please select a teacher and enter a message.",
}

// ======================================================
// USE CASE
// ======================================================

// Send appends one message to the recipient's list. A retried call stores
// a second copy.
type Send struct {
	store  docstore.Store
	audit  *audit.Dispatcher
	prefix string
}

func NewSend(store docstore.Store, audit *audit.Dispatcher, prefix string) *Send {
	return &Send{store: store, audit: audit, prefix: prefix}
}

func (uc *Send) Execute(ctx context.Context, in SendInput) (string, *models.Message, error) {
	in.Recipient = strings.TrimSpace(in.Recipient)
	in.Body = strings.TrimSpace(in.Body)
	if err := validators.Struct(in, sendMessages, sendFallback); err != nil {
		return "", nil, err
	}

	teacherID, err := directory.ParseTeacherID(in.Recipient, uc.prefix)
	if err != nil {
		return "", nil, err
	}

	msg := models.Message{
		StudentName:      in.Sender.Name,
		EnrollmentNumber: in.Sender.ID.String(),
		Message:          in.Body,
		Timestamp:        timezone.ISO(timezone.Now()),
	}

	key, err := uc.store.Push(ctx, paths.Messages(teacherID.String()), msg)
	if err != nil {
		return "", nil, httperr.ErrRemoteWrite("send_failed", "Failed to send message", err)
	}

	uc.audit.Dispatch(audit.Event{
		Action: audit.ActionMessageSent,
		Entity: "message",
		Actor:  in.Sender.ID.String(),
		Path:   docstore.Join(paths.Messages(teacherID.String()), key),
	})

	return key, &msg, nil
}
