package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/brightpath/institute-api/internal/model"
)

// ContactRepository handles contact enquiry data access.
type ContactRepository struct {
	*Store[model.Contact]
}

// NewContactRepository creates a new ContactRepository.
func NewContactRepository(db *mongo.Database) *ContactRepository {
	return &ContactRepository{Store: NewStore[model.Contact](db, CollContacts, SortNewest)}
}

// CountNew returns how many enquiries nobody has picked up yet.
func (r *ContactRepository) CountNew(ctx context.Context) (int64, error) {
	return r.Count(ctx, bson.M{"status": model.ContactNew})
}
