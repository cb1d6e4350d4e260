package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/brightpath/institute-api/internal/model"
)

// ExamRepository handles exam data access.
type ExamRepository struct {
	*Store[model.Exam]
}

// NewExamRepository creates a new ExamRepository. Exams list by exam date.
func NewExamRepository(db *mongo.Database) *ExamRepository {
	return &ExamRepository{Store: NewStore[model.Exam](db, CollExams, SortByExamDate)}
}

// FindBySlug returns the exam with the given slug.
func (r *ExamRepository) FindBySlug(ctx context.Context, slug string) (*model.Exam, error) {
	return r.FindOne(ctx, bson.M{"slug": slug})
}

// ListUpcoming returns active exams dated on or after now, soonest first.
func (r *ExamRepository) ListUpcoming(ctx context.Context, now time.Time, limit int64) ([]model.Exam, error) {
	return r.List(ctx, ListQuery{
		ActiveOnly: true,
		Filter:     bson.M{"examDate": bson.M{"$gte": now}},
		Limit:      limit,
	})
}
