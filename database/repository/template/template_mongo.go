package templateRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aircare/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoTemplateRepo struct {
	coll *mongo.Collection
}

func NewMongoTemplateRepo(db *mongo.Database) *MongoTemplateRepo {
	return &MongoTemplateRepo{coll: db.Collection("notification_templates")}
}

func (r *MongoTemplateRepo) List(ctx context.Context) ([]models.NotificationTemplate, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("error listing templates: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.NotificationTemplate
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("error decoding templates: %w", err)
	}
	return out, nil
}

func (r *MongoTemplateRepo) GetByID(ctx context.Context, id string) (*models.NotificationTemplate, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var tmpl models.NotificationTemplate
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&tmpl)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching template %s: %w", id, err)
	}
	return &tmpl, nil
}

func (r *MongoTemplateRepo) Upsert(ctx context.Context, tmpl *models.NotificationTemplate) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"id": tmpl.ID}, tmpl, opts); err != nil {
		return fmt.Errorf("failed to save template %s: %w", tmpl.ID, err)
	}
	return nil
}
