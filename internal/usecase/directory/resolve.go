package directory

import (
	"context"
	"errors"
	"strings"

	"github.com/BruksfildServices01/student-teacher-portal/internal/docstore"
	domain "github.com/BruksfildServices01/student-teacher-portal/internal/domain/directory"
	"github.com/BruksfildServices01/student-teacher-portal/internal/httperr"
)

// Resolver maps an authenticated email to a student or teacher key. Nothing
// is cached; every call scans the collection again.
type Resolver struct {
	repo domain.Repository
}

func NewResolver(repo domain.Repository) *Resolver {
	return &Resolver{repo: repo}
}

func errNotResolved(c domain.Collection) error {
	role := "student"
	if c == domain.Teachers {
		role = "teacher"
	}
	return httperr.ErrNotFound(
		"identity_not_resolved",
		"No "+role+" record is linked to this account yet.",
	)
}

func match(entries []domain.Entry, email string) (domain.Entry, bool) {
	email = strings.TrimSpace(email)
	for _, e := range entries {
		if email != "" && strings.EqualFold(e.Email, email) {
			return e, true
		}
	}
	return domain.Entry{}, false
}

// Resolve returns the first document in key order whose email matches.
func (r *Resolver) Resolve(
	ctx context.Context,
	email string,
	c domain.Collection,
) (domain.Entry, error) {

	if !c.Valid() {
		return domain.Entry{}, httperr.ErrValidation("invalid_collection", "Unknown collection.")
	}

	entries, err := r.repo.Scan(ctx, c)
	if err != nil {
		return domain.Entry{}, err
	}

	e, ok := match(entries, email)
	if !ok {
		return domain.Entry{}, errNotResolved(c)
	}
	return e, nil
}

func (r *Resolver) ResolveStudent(ctx context.Context, email string) (domain.StudentIdentity, error) {
	e, err := r.Resolve(ctx, email, domain.Students)
	if err != nil {
		return domain.StudentIdentity{}, err
	}
	return StudentIdentityOf(e), nil
}

func (r *Resolver) ResolveTeacher(ctx context.Context, email string) (domain.TeacherIdentity, error) {
	e, err := r.Resolve(ctx, email, domain.Teachers)
	if err != nil {
		return domain.TeacherIdentity{}, err
	}
	return TeacherIdentityOf(e), nil
}

// Await blocks until the email resolves in c or ctx ends. It covers the
// window where a principal exists before its directory document does.
func (r *Resolver) Await(
	ctx context.Context,
	email string,
	c domain.Collection,
) (domain.Entry, error) {

	if !c.Valid() {
		return domain.Entry{}, httperr.ErrValidation("invalid_collection", "Unknown collection.")
	}

	sub, err := r.repo.Watch(ctx, c)
	if err != nil {
		return domain.Entry{}, err
	}
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return domain.Entry{}, ctx.Err()
		case snap, ok := <-sub.C():
			if !ok {
				if err := ctx.Err(); err != nil {
					return domain.Entry{}, err
				}
				return domain.Entry{}, docstore.ErrClosed
			}
			entries, err := domain.EntriesFrom(snap)
			if err != nil {
				return domain.Entry{}, err
			}
			if e, ok := match(entries, email); ok {
				return e, nil
			}
		}
	}
}

// AwaitStudent is Await over students. A ctx deadline reads as not resolved.
func (r *Resolver) AwaitStudent(ctx context.Context, email string) (domain.StudentIdentity, error) {
	if who, err := r.ResolveStudent(ctx, email); err == nil {
		return who, nil
	}
	e, err := r.Await(ctx, email, domain.Students)
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.StudentIdentity{}, errNotResolved(domain.Students)
	}
	if err != nil {
		return domain.StudentIdentity{}, err
	}
	return StudentIdentityOf(e), nil
}

func (r *Resolver) AwaitTeacher(ctx context.Context, email string) (domain.TeacherIdentity, error) {
	if who, err := r.ResolveTeacher(ctx, email); err == nil {
		return who, nil
	}
	e, err := r.Await(ctx, email, domain.Teachers)
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.TeacherIdentity{}, errNotResolved(domain.Teachers)
	}
	if err != nil {
		return domain.TeacherIdentity{}, err
	}
	return TeacherIdentityOf(e), nil
}

func StudentIdentityOf(e domain.Entry) domain.StudentIdentity {
	return domain.StudentIdentity{ID: domain.StudentID(e.Key), Name: e.UserName, Email: e.Email}
}

func TeacherIdentityOf(e domain.Entry) domain.TeacherIdentity {
	return domain.TeacherIdentity{ID: domain.TeacherID(e.Key), Name: e.UserName, Email: e.Email}
}
