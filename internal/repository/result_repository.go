package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/brightpath/institute-api/internal/model"
)

// ResultRepository handles exam result data access.
type ResultRepository struct {
	*Store[model.ExamResult]
}

// NewResultRepository creates a new ResultRepository. Results list by rank.
func NewResultRepository(db *mongo.Database) *ResultRepository {
	return &ResultRepository{Store: NewStore[model.ExamResult](db, CollResults,
		bson.D{{Key: "rank", Value: 1}, {Key: "createdAt", Value: -1}})}
}

// FindForCandidate finds a result by registration number, or by email when
// the number is empty. examID narrows the search when non-nil.
func (r *ResultRepository) FindForCandidate(ctx context.Context, examID *primitive.ObjectID, number, email string) (*model.ExamResult, error) {
	filter := bson.M{}
	if examID != nil {
		filter["examId"] = *examID
	}
	if number != "" {
		filter["registrationNumber"] = number
	} else {
		filter["email"] = email
	}
	return r.FindOne(ctx, filter)
}
