package directory

import (
	"context"

	domain "github.com/BruksfildServices01/student-teacher-portal/internal/domain/directory"
	"github.com/BruksfildServices01/student-teacher-portal/internal/dto"
)

type ListTeachers struct {
	repo domain.Repository
}

func NewListTeachers(repo domain.Repository) *ListTeachers {
	return &ListTeachers{repo: repo}
}

func (uc *ListTeachers) Execute(ctx context.Context) ([]dto.TeacherOptionDTO, error) {
	entries, err := uc.repo.Scan(ctx, domain.Teachers)
	if err != nil {
		return nil, err
	}

	out := make([]dto.TeacherOptionDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.TeacherOptionDTO{
			ID:   e.Key,
			Name: domain.DisplayName(e.UserName),
		})
	}
	return out, nil
}
