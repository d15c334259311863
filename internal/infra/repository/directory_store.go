package repository

import (
	"context"

	"github.com/BruksfildServices01/student-teacher-portal/internal/docstore"
	"github.com/BruksfildServices01/student-teacher-portal/internal/domain/directory"
	"github.com/BruksfildServices01/student-teacher-portal/internal/models"
	"github.com/BruksfildServices01/student-teacher-portal/internal/paths"
)

type DirectoryStoreRepository struct {
	store docstore.Store
}

var _ directory.Repository = (*DirectoryStoreRepository)(nil)

func NewDirectoryStoreRepository(store docstore.Store) *DirectoryStoreRepository {
	return &DirectoryStoreRepository{store: store}
}

func (r *DirectoryStoreRepository) Scan(
	ctx context.Context,
	c directory.Collection,
) ([]directory.Entry, error) {

	snap, err := r.store.Get(ctx, string(c))
	if err != nil {
		return nil, err
	}
	return directory.EntriesFrom(snap)
}

func (r *DirectoryStoreRepository) Watch(
	ctx context.Context,
	c directory.Collection,
) (*docstore.Subscription, error) {
	return r.store.Subscribe(ctx, string(c))
}

func (r *DirectoryStoreRepository) Exists(
	ctx context.Context,
	c directory.Collection,
	key string,
) (bool, error) {

	snap, err := r.store.Get(ctx, docstore.Join(string(c), key))
	if err != nil {
		return false, err
	}
	return snap.Exists(), nil
}

func (r *DirectoryStoreRepository) GetStudent(
	ctx context.Context,
	id directory.StudentID,
) (*models.Student, error) {

	snap, err := r.store.Get(ctx, paths.Student(id.String()))
	if err != nil {
		return nil, err
	}
	if !snap.Exists() {
		return nil, nil
	}
	var s models.Student
	if err := snap.Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *DirectoryStoreRepository) GetTeacher(
	ctx context.Context,
	id directory.TeacherID,
) (*models.Teacher, error) {
	return getTeacher(ctx, r.store, id)
}

func (r *DirectoryStoreRepository) CreateStudent(ctx context.Context, s models.Student) error {
	return r.store.Set(ctx, paths.Student(s.EnrollmentNumber), s)
}

func (r *DirectoryStoreRepository) CreateTeacher(ctx context.Context, t models.Teacher) error {
	return r.store.Set(ctx, paths.Teacher(t.TeacherID), t)
}
