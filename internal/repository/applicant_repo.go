package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/civiform/civiform-go/internal/model"
)

type ApplicantRepo interface {
	Create(ctx context.Context, applicant *model.Applicant) (*model.Applicant, error)
	GetByID(ctx context.Context, id int64) (*model.Applicant, error)
	GetByAccountID(ctx context.Context, accountID string) (*model.Applicant, error)
	Update(ctx context.Context, applicant *model.Applicant) error
}

type applicantRepo struct {
	db         *mongo.Database
	collection *mongo.Collection
}

func NewApplicantRepo(client *mongo.Client) ApplicantRepo {
	db := client.Database(databaseName)
	return &applicantRepo{
		db:         db,
		collection: db.Collection("applicants"),
	}
}

func (r *applicantRepo) Create(ctx context.Context, applicant *model.Applicant) (*model.Applicant, error) {
	if applicant.ID == 0 {
		id, err := nextID(ctx, r.db, "applicants")
		if err != nil {
			return nil, err
		}
		applicant.ID = id
	}

	now := time.Now().UTC()
	applicant.CreatedAt = now
	applicant.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, applicant); err != nil {
		return nil, err
	}
	return applicant, nil
}

func (r *applicantRepo) GetByID(ctx context.Context, id int64) (*model.Applicant, error) {
	var applicant model.Applicant
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&applicant)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // Applicant not found
		}
		return nil, err
	}
	return &applicant, nil
}

func (r *applicantRepo) GetByAccountID(ctx context.Context, accountID string) (*model.Applicant, error) {
	var applicant model.Applicant
	err := r.collection.FindOne(ctx, bson.M{"accountId": accountID}).Decode(&applicant)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &applicant, nil
}

func (r *applicantRepo) Update(ctx context.Context, applicant *model.Applicant) error {
	applicant.UpdatedAt = time.Now().UTC()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": applicant.ID}, applicant)
	return err
}
