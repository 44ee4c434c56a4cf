package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/civiform/civiform-go/internal/model"
)

type ProgramRepo interface {
	// Basic CRUD Operations
	Create(ctx context.Context, program *model.ProgramDefinition) (*model.ProgramDefinition, error)
	GetByID(ctx context.Context, id int64) (*model.ProgramDefinition, error)
	Update(ctx context.Context, program *model.ProgramDefinition) error
	Delete(ctx context.Context, id int64) error

	// Version Support Methods
	GetByIDs(ctx context.Context, ids []int64) ([]*model.ProgramDefinition, error)
	GetByAdminName(ctx context.Context, adminName string) ([]*model.ProgramDefinition, error)
}

type programRepo struct {
	db         *mongo.Database
	collection *mongo.Collection
}

func NewProgramRepo(client *mongo.Client) ProgramRepo {
	db := client.Database(databaseName)
	return &programRepo{
		db:         db,
		collection: db.Collection("programs"),
	}
}

func (r *programRepo) Create(ctx context.Context, program *model.ProgramDefinition) (*model.ProgramDefinition, error) {
	// Assign the next id when the program has not been persisted yet
	if program.ID == 0 {
		id, err := nextID(ctx, r.db, "programs")
		if err != nil {
			return nil, err
		}
		program.ID = id
	}

	if _, err := r.collection.InsertOne(ctx, program); err != nil {
		return nil, err
	}

	return program, nil
}

func (r *programRepo) GetByID(ctx context.Context, id int64) (*model.ProgramDefinition, error) {
	var program model.ProgramDefinition
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&program)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // Program not found
		}
		return nil, err
	}
	return &program, nil
}

func (r *programRepo) Update(ctx context.Context, program *model.ProgramDefinition) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": program.ID}, program)
	return err
}

func (r *programRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *programRepo) GetByIDs(ctx context.Context, ids []int64) ([]*model.ProgramDefinition, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var programs []*model.ProgramDefinition
	if err = cursor.All(ctx, &programs); err != nil {
		return nil, err
	}
	return programs, nil
}

func (r *programRepo) GetByAdminName(ctx context.Context, adminName string) ([]*model.ProgramDefinition, error) {
	// Every revision of a program shares its admin name
	cursor, err := r.collection.Find(ctx, bson.M{"adminName": adminName})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var programs []*model.ProgramDefinition
	if err = cursor.All(ctx, &programs); err != nil {
		return nil, err
	}
	return programs, nil
}
