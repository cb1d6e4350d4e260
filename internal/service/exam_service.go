package service

import (
	"context"
	"errors"

	"github.com/brightpath/institute-api/internal/model"
	"github.com/brightpath/institute-api/internal/repository"
)

// ExamService adds the public exam lookups on top of the content CRUD.
type ExamService struct {
	*ContentService[model.Exam, *model.Exam]
	exams ExamFinder
}

// ExamRepo is what ExamService needs from the exam repository.
type ExamRepo interface {
	repository.Collection[model.Exam]
	ExamFinder
}

// NewExamService creates a new ExamService.
func NewExamService(exams ExamRepo) *ExamService {
	return &ExamService{
		ContentService: NewContentService[model.Exam, *model.Exam](exams),
		exams:          exams,
	}
}

// GetPublic resolves an active exam by id, falling back to its slug.
func (s *ExamService) GetPublic(ctx context.Context, idOrSlug string) (*model.Exam, error) {
	if _, err := repository.ParseID(idOrSlug); err == nil {
		exam, err := s.Get(ctx, idOrSlug, true)
		if err == nil || !errors.Is(err, repository.ErrNotFound) {
			return exam, err
		}
	}

	exam, err := s.exams.FindBySlug(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}
	if !exam.Active {
		return nil, repository.ErrNotFound
	}
	return exam, nil
}
