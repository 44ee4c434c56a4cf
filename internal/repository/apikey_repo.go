package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/civiform/civiform-go/internal/model"
)

type ApiKeyRepo interface {
	Create(ctx context.Context, key *model.ApiKey) error
	GetByID(ctx context.Context, id string) (*model.ApiKey, error)
	GetAll(ctx context.Context) ([]*model.ApiKey, error)
	Retire(ctx context.Context, id string) error
	RecordCall(ctx context.Context, id string, at time.Time) error
}

type apiKeyRepo struct {
	collection *mongo.Collection
}

func NewApiKeyRepo(client *mongo.Client) ApiKeyRepo {
	db := client.Database(databaseName)
	return &apiKeyRepo{
		collection: db.Collection("api_keys"),
	}
}

func (r *apiKeyRepo) Create(ctx context.Context, key *model.ApiKey) error {
	_, err := r.collection.InsertOne(ctx, key)
	return err
}

func (r *apiKeyRepo) GetByID(ctx context.Context, id string) (*model.ApiKey, error) {
	var key model.ApiKey
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&key)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // Key not found
		}
		return nil, err
	}
	return &key, nil
}

func (r *apiKeyRepo) GetAll(ctx context.Context) ([]*model.ApiKey, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var keys []*model.ApiKey
	if err = cursor.All(ctx, &keys); err != nil {
		return nil, err
	}
	return keys, nil
}

func (r *apiKeyRepo) Retire(ctx context.Context, id string) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"retired": true}})
	return err
}

func (r *apiKeyRepo) RecordCall(ctx context.Context, id string, at time.Time) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"lastCallAt": at}})
	return err
}
