package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/brightpath/institute-api/internal/model"
)

type SettingRepository struct {
	coll *mongo.Collection
}

func NewSettingRepository(db *mongo.Database) *SettingRepository {
	return &SettingRepository{coll: db.Collection(CollSettings)}
}

func (r *SettingRepository) GetAll(ctx context.Context) ([]model.Setting, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "key", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find settings: %w", err)
	}
	defer cursor.Close(ctx)

	settings := []model.Setting{}
	if err := cursor.All(ctx, &settings); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return settings, nil
}

func (r *SettingRepository) Upsert(ctx context.Context, key, value string, now time.Time) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"key": key},
		bson.M{"$set": bson.M{"value": value, "updatedAt": now}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *SettingRepository) GetByKey(ctx context.Context, key string) (*model.Setting, error) {
	var s model.Setting
	if err := r.coll.FindOne(ctx, bson.M{"key": key}).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}
