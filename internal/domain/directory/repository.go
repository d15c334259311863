package directory

import (
	"context"

	"github.com/BruksfildServices01/student-teacher-portal/internal/docstore"
	"github.com/BruksfildServices01/student-teacher-portal/internal/models"
)

// Entry is the part of a student or teacher document the resolver needs.
type Entry struct {
	Key      string
	Email    string
	UserName string
}

type Repository interface {
	// Scan returns every document of the collection sorted by key.
	Scan(ctx context.Context, c Collection) ([]Entry, error)

	// Watch streams snapshots of the whole collection.
	Watch(ctx context.Context, c Collection) (*docstore.Subscription, error)

	Exists(ctx context.Context, c Collection, key string) (bool, error)

	GetStudent(ctx context.Context, id StudentID) (*models.Student, error)
	GetTeacher(ctx context.Context, id TeacherID) (*models.Teacher, error)

	CreateStudent(ctx context.Context, s models.Student) error
	CreateTeacher(ctx context.Context, t models.Teacher) error
}

// EntriesFrom decodes a collection snapshot.
func EntriesFrom(snap docstore.Snapshot) ([]Entry, error) {
	docs, err := docstore.DecodeChildren[struct {
		Email    string `json:"email"`
		UserName string `json:"userName"`
	}](snap)
	if err != nil {
		return nil, err
	}

	out := make([]Entry, 0, len(docs))
	for _, k := range docstore.SortedKeys(docs) {
		out = append(out, Entry{Key: k, Email: docs[k].Email, UserName: docs[k].UserName})
	}
	return out, nil
}
