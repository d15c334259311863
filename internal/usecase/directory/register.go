package directory

import (
	"context"
	"errors"
	"strings"

	"github.com/BruksfildServices01/student-teacher-portal/internal/audit"
	domain "github.com/BruksfildServices01/student-teacher-portal/internal/domain/directory"
	"github.com/BruksfildServices01/student-teacher-portal/internal/httperr"
	"github.com/BruksfildServices01/student-teacher-portal/internal/identity"
	"github.com/BruksfildServices01/student-teacher-portal/internal/models"
	"github.com/BruksfildServices01/student-teacher-portal/internal/paths"
	"github.com/BruksfildServices01/student-teacher-portal/internal/timezone"
	"github.com/BruksfildServices01/student-teacher-portal/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type RegisterInput struct {
	ID              string
	Name            string `validate:"required"`
	Email           string `validate:"required,portalemail"`
	Password        string `validate:"required,datepassword"`
	ConfirmPassword string `validate:"eqfield=Password"`
}

var signupMessages = validators.Messages{
	"Name":                    {Code: "missing_name", Text: "Please enter your name."},
	"Email":                   {Code: "invalid_email", Text: "Please enter a valid email address."},
	"Password":                {Code: "invalid_password", Text: "Password must be in YYYY-MM-DD format."},
	"ConfirmPassword.eqfield": {Code: "password_mismatch", Text: "Passwords do not match."},
}

var signupFallback = validators.Message{Code: "invalid_request", Text: "Please fill in all fields."}

// ======================================================
// SHARED
// ======================================================

type registrar struct {
	repo         domain.Repository
	accounts     identity.Accounts
	audit        *audit.Dispatcher
	verifyDomain bool
}

func (r registrar) validate(in *RegisterInput) error {
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)

	if err := validators.Struct(*in, signupMessages, signupFallback); err != nil {
		return err
	}
	if r.verifyDomain && !validators.IsEmailDomainValid(in.Email) {
		return httperr.ErrValidation("invalid_email_domain", "The email domain does not appear to be valid.")
	}
	return nil
}

func (r registrar) ensureFree(ctx context.Context, c domain.Collection, key, message string) error {
	exists, err := r.repo.Exists(ctx, c, key)
	if err != nil {
		return httperr.ErrRemoteWrite("signup_failed", "Failed to sign up", err)
	}
	if exists {
		return httperr.ErrValidation("id_in_use", message)
	}
	return nil
}

func (r registrar) signUp(ctx context.Context, in RegisterInput) error {
	if _, err := r.accounts.SignUp(ctx, in.Email, in.Password); err != nil {
		if errors.Is(err, identity.ErrEmailInUse) {
			return httperr.ErrValidation("email_in_use", "This email is already in use.")
		}
		return httperr.ErrRemoteWrite("signup_failed", "Failed to sign up", err)
	}
	return nil
}

// ======================================================
// STUDENT
// ======================================================

type RegisterStudent struct {
	registrar
}

func NewRegisterStudent(
	repo domain.Repository,
	accounts identity.Accounts,
	audit *audit.Dispatcher,
	verifyDomain bool,
) *RegisterStudent {
	return &RegisterStudent{registrar{repo: repo, accounts: accounts, audit: audit, verifyDomain: verifyDomain}}
}

func (uc *RegisterStudent) Execute(ctx context.Context, in RegisterInput) (*models.Student, error) {
	id, err := domain.ParseStudentID(in.ID)
	if err != nil {
		return nil, err
	}
	if err := uc.validate(&in); err != nil {
		return nil, err
	}
	if err := uc.ensureFree(ctx, domain.Students, id.String(), "This enrollment number is already in use."); err != nil {
		return nil, err
	}
	if err := uc.signUp(ctx, in); err != nil {
		return nil, err
	}

	student := models.Student{
		Email:            in.Email,
		EnrollmentNumber: id.String(),
		UserName:         in.Name,
		CreatedAt:        timezone.ISO(timezone.Now()),
	}
	if err := uc.repo.CreateStudent(ctx, student); err != nil {
		return nil, httperr.ErrRemoteWrite("signup_failed", "Failed to sign up", err)
	}

	uc.audit.Dispatch(audit.Event{
		Action: audit.ActionStudentRegistered,
		Entity: "student",
		Actor:  id.String(),
		Path:   paths.Student(id.String()),
	})

	return &student, nil
}

// ======================================================
// TEACHER
// ======================================================

type RegisterTeacher struct {
	registrar
	prefix string
}

func NewRegisterTeacher(
	repo domain.Repository,
	accounts identity.Accounts,
	audit *audit.Dispatcher,
	verifyDomain bool,
	prefix string,
) *RegisterTeacher {
	return &RegisterTeacher{
		registrar: registrar{repo: repo, accounts: accounts, audit: audit, verifyDomain: verifyDomain},
		prefix:    prefix,
	}
}

func (uc *RegisterTeacher) Execute(ctx context.Context, in RegisterInput) (*models.Teacher, error) {
	id, err := domain.ParseTeacherID(in.ID, uc.prefix)
	if err != nil {
		return nil, err
	}
	if err := uc.validate(&in); err != nil {
		return nil, err
	}
	if err := uc.ensureFree(ctx, domain.Teachers, id.String(), "This ID is already in use."); err != nil {
		return nil, err
	}
	if err := uc.signUp(ctx, in); err != nil {
		return nil, err
	}

	teacher := models.Teacher{
		Email:     in.Email,
		TeacherID: id.String(),
		UserName:  in.Name,
		CreatedAt: timezone.ISO(timezone.Now()),
	}
	if err := uc.repo.CreateTeacher(ctx, teacher); err != nil {
		return nil, httperr.ErrRemoteWrite("signup_failed", "Failed to sign up", err)
	}

	uc.audit.Dispatch(audit.Event{
		Action: audit.ActionTeacherRegistered,
		Entity: "teacher",
		Actor:  id.String(),
		Path:   paths.Teacher(id.String()),
	})

	return &teacher, nil
}
