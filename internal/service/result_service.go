package service

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/brightpath/institute-api/internal/model"
	"github.com/brightpath/institute-api/internal/repository"
)

// Sentinel errors for result lookups.
var (
	ErrResultNotFound      = errors.New("result not found")
	ErrResultsNotPublished = errors.New("results not published")
	ErrLookupKeyRequired   = errors.New("registration number or email required")
)

// ResultService manages results and the public lookup.
type ResultService struct {
	*ContentService[model.ExamResult, *model.ExamResult]
	results ResultStore
	exams   ExamGetter
}

// NewResultService creates a new ResultService.
func NewResultService(results ResultStore, exams ExamGetter) *ResultService {
	return &ResultService{
		ContentService: NewContentService[model.ExamResult, *model.ExamResult](results),
		results:        results,
		exams:          exams,
	}
}

// Lookup finds a candidate's result. It is hidden until the exam has
// showResults set.
func (s *ResultService) Lookup(ctx context.Context, q model.ResultLookup) (*model.ExamResult, error) {
	if q.RegistrationNumber == "" && q.Email == "" {
		return nil, ErrLookupKeyRequired
	}

	var examID *primitive.ObjectID
	if q.ExamID != "" {
		oid, err := repository.ParseID(q.ExamID)
		if err != nil {
			return nil, ErrExamNotFound
		}
		examID = &oid
	}

	res, err := s.results.FindForCandidate(ctx, examID, q.RegistrationNumber, q.Email)
	if err != nil {
		if isMissing(err) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("find result: %w", err)
	}

	exam, err := s.exams.Get(ctx, res.ExamID.Hex())
	if err != nil {
		if isMissing(err) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("load exam: %w", err)
	}
	if !exam.ShowResults {
		return nil, ErrResultsNotPublished
	}
	return res, nil
}
