package directory

import (
	"context"
	"errors"

	domain "github.com/BruksfildServices01/student-teacher-portal/internal/domain/directory"
	"github.com/BruksfildServices01/student-teacher-portal/internal/httperr"
	"github.com/BruksfildServices01/student-teacher-portal/internal/identity"
)

// Login signs in by domain identifier: the document gives the email the
// provider knows the account by.
type Login struct {
	repo     domain.Repository
	accounts identity.Accounts
	prefix   string
}

func NewLogin(repo domain.Repository, accounts identity.Accounts, prefix string) *Login {
	return &Login{repo: repo, accounts: accounts, prefix: prefix}
}

func (uc *Login) Student(ctx context.Context, rawID, password string) (string, error) {
	id, err := domain.ParseStudentID(rawID)
	if err != nil {
		return "", err
	}

	s, err := uc.repo.GetStudent(ctx, id)
	if err != nil {
		return "", err
	}
	if s == nil {
		return "", httperr.ErrUnauthorized("invalid_enrollment_number", "Invalid Enrollment Number.")
	}
	return uc.signIn(ctx, s.Email, password)
}

func (uc *Login) Teacher(ctx context.Context, rawID, password string) (string, error) {
	id, err := domain.ParseTeacherID(rawID, uc.prefix)
	if err != nil {
		return "", err
	}

	t, err := uc.repo.GetTeacher(ctx, id)
	if err != nil {
		return "", err
	}
	if t == nil {
		return "", httperr.ErrUnauthorized("invalid_teacher_id", "Invalid Teacher ID.")
	}
	return uc.signIn(ctx, t.Email, password)
}

func (uc *Login) signIn(ctx context.Context, email, password string) (string, error) {
	token, err := uc.accounts.SignIn(ctx, email, password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return "", httperr.ErrUnauthorized("invalid_credentials", "Incorrect password.")
		}
		return "", err
	}
	return token, nil
}
