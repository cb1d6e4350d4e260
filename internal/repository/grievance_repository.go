package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/brightpath/institute-api/internal/model"
)

// GrievanceRepository handles grievance data access.
type GrievanceRepository struct {
	*Store[model.Grievance]
}

// NewGrievanceRepository creates a new GrievanceRepository.
func NewGrievanceRepository(db *mongo.Database) *GrievanceRepository {
	return &GrievanceRepository{Store: NewStore[model.Grievance](db, CollGrievances, SortNewest)}
}

// UpdateReview writes whichever of status and reply are set.
func (r *GrievanceRepository) UpdateReview(ctx context.Context, id primitive.ObjectID, status *model.GrievanceStatus, reply *string, now time.Time) (int64, error) {
	set := bson.M{"updatedAt": now}
	if status != nil {
		set["status"] = *status
	}
	if reply != nil {
		set["adminReply"] = *reply
	}
	return r.UpdateFields(ctx, id, set)
}

// Search lists grievances matching f, newest first.
func (r *GrievanceRepository) Search(ctx context.Context, f model.GrievanceFilter) ([]model.Grievance, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.ExamID != "" {
		oid, err := ParseID(f.ExamID)
		if err != nil {
			return nil, err
		}
		filter["examId"] = oid
	}
	return r.List(ctx, ListQuery{Filter: filter})
}

// CountByStatus counts grievances per status.
func (r *GrievanceRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return r.CountBy(ctx, "status")
}
