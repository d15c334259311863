package repository

import (
	"context"

	"github.com/BruksfildServices01/student-teacher-portal/internal/docstore"
	domain "github.com/BruksfildServices01/student-teacher-portal/internal/domain/appointment"
	"github.com/BruksfildServices01/student-teacher-portal/internal/domain/directory"
	"github.com/BruksfildServices01/student-teacher-portal/internal/httperr"
	"github.com/BruksfildServices01/student-teacher-portal/internal/models"
	"github.com/BruksfildServices01/student-teacher-portal/internal/paths"
)

type AppointmentStoreRepository struct {
	store docstore.Store
}

var _ domain.Repository = (*AppointmentStoreRepository)(nil)

func NewAppointmentStoreRepository(store docstore.Store) *AppointmentStoreRepository {
	return &AppointmentStoreRepository{store: store}
}

// --------------------------------------------------
// Teacher view
// --------------------------------------------------

func (r *AppointmentStoreRepository) GetTeacherAppointment(
	ctx context.Context,
	teacherID directory.TeacherID,
	key string,
) (*models.TeacherAppointment, error) {

	if err := docstore.ValidateSegment(key); err != nil {
		return nil, httperr.ErrNotFound("appointment_not_found", "Appointment not found.")
	}

	snap, err := r.store.Get(ctx, paths.TeacherAppointment(teacherID.String(), key))
	if err != nil {
		return nil, err
	}
	if !snap.Exists() {
		return nil, httperr.ErrNotFound("appointment_not_found", "Appointment not found.")
	}

	var rec models.TeacherAppointment
	if err := snap.Decode(&rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *AppointmentStoreRepository) ListTeacherAppointments(
	ctx context.Context,
	teacherID directory.TeacherID,
) (map[string]models.TeacherAppointment, error) {

	snap, err := r.store.Get(ctx, paths.TeacherAppointments(teacherID.String()))
	if err != nil {
		return nil, err
	}
	return docstore.DecodeChildren[models.TeacherAppointment](snap)
}

func (r *AppointmentStoreRepository) WatchTeacherAppointments(
	ctx context.Context,
	teacherID directory.TeacherID,
) (*docstore.Subscription, error) {
	return r.store.Subscribe(ctx, paths.TeacherAppointments(teacherID.String()))
}

// --------------------------------------------------
// Student view
// --------------------------------------------------

func (r *AppointmentStoreRepository) ListStudentAppointments(
	ctx context.Context,
	studentID directory.StudentID,
) (map[string]models.StudentAppointment, error) {

	snap, err := r.store.Get(ctx, paths.Appointments(studentID.String()))
	if err != nil {
		return nil, err
	}
	return docstore.DecodeChildren[models.StudentAppointment](snap)
}

// --------------------------------------------------
// Teacher
// --------------------------------------------------

func (r *AppointmentStoreRepository) GetTeacher(
	ctx context.Context,
	teacherID directory.TeacherID,
) (*models.Teacher, error) {
	return getTeacher(ctx, r.store, teacherID)
}

func getTeacher(ctx context.Context, store docstore.Store, id directory.TeacherID) (*models.Teacher, error) {
	snap, err := store.Get(ctx, paths.Teacher(id.String()))
	if err != nil {
		return nil, err
	}
	if !snap.Exists() {
		return nil, nil
	}
	var t models.Teacher
	if err := snap.Decode(&t); err != nil {
		return nil, err
	}
	return &t, nil
}
