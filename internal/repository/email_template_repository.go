package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/brightpath/institute-api/internal/model"
)

// EmailTemplateRepository handles admin-editable email templates.
type EmailTemplateRepository struct {
	*Store[model.EmailTemplate]
}

// NewEmailTemplateRepository creates a new EmailTemplateRepository.
func NewEmailTemplateRepository(db *mongo.Database) *EmailTemplateRepository {
	return &EmailTemplateRepository{Store: NewStore[model.EmailTemplate](db, CollEmailTemplates, SortByOrder)}
}

// FindActiveByKey returns the active template registered for key.
func (r *EmailTemplateRepository) FindActiveByKey(ctx context.Context, key string) (*model.EmailTemplate, error) {
	return r.FindOne(ctx, bson.M{"key": key, "active": true})
}
