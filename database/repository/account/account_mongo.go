package accountRepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"aircare/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoAccountRepo implements AccountRepository using MongoDB.
type MongoAccountRepo struct {
	coll *mongo.Collection
}

func NewMongoAccountRepo(db *mongo.Database) (*MongoAccountRepo, error) {
	repo := &MongoAccountRepo{coll: db.Collection("accounts")}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := repo.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create account indexes: %w", err)
	}
	return repo, nil
}

func (r *MongoAccountRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var acc models.Account
	err := r.coll.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&acc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching account: %w", err)
	}
	return &acc, nil
}

func (r *MongoAccountRepo) Upsert(ctx context.Context, account *models.Account) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	account.Email = strings.ToLower(account.Email)
	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"email": account.Email}, account, opts); err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}
	return nil
}
