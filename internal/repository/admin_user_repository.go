package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/brightpath/institute-api/internal/model"
)

// AdminUserRepository handles admin account data access.
type AdminUserRepository struct {
	*Store[model.AdminUser]
}

// NewAdminUserRepository creates a new AdminUserRepository.
func NewAdminUserRepository(db *mongo.Database) *AdminUserRepository {
	return &AdminUserRepository{Store: NewStore[model.AdminUser](db, CollAdminUsers, SortNewest)}
}

// FindByEmail looks up an account by exact (case-sensitive) email.
func (r *AdminUserRepository) FindByEmail(ctx context.Context, email string) (*model.AdminUser, error) {
	return r.FindOne(ctx, bson.M{"email": email})
}

// TouchLastLogin stamps lastLoginAt.
func (r *AdminUserRepository) TouchLastLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	_, err := r.UpdateFields(ctx, id, bson.M{"lastLoginAt": at})
	return err
}
