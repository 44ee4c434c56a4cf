package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/civiform/civiform-go/internal/model"
)

type QuestionRepo interface {
	// Basic CRUD Operations
	Create(ctx context.Context, question *model.QuestionDefinition) (*model.QuestionDefinition, error)
	GetByID(ctx context.Context, id int64) (*model.QuestionDefinition, error)
	Update(ctx context.Context, question *model.QuestionDefinition) error
	Delete(ctx context.Context, id int64) error

	// Version Support Methods
	GetByIDs(ctx context.Context, ids []int64) ([]*model.QuestionDefinition, error)
	GetByName(ctx context.Context, name string) ([]*model.QuestionDefinition, error)

	// Management Methods
	GetAll(ctx context.Context) ([]*model.QuestionDefinition, error)
}

type questionRepo struct {
	db         *mongo.Database
	collection *mongo.Collection
}

func NewQuestionRepo(client *mongo.Client) QuestionRepo {
	db := client.Database(databaseName)
	return &questionRepo{
		db:         db,
		collection: db.Collection("questions"),
	}
}

// questionDocument is the stored form of a definition. Validation
// predicates are stored as the opaque JSON string they serialize to, so
// unknown predicate fields survive a read-write cycle untouched.
type questionDocument struct {
	ID                   int64                  `bson:"_id"`
	Name                 string                 `bson:"name"`
	EnumeratorID         *int64                 `bson:"enumeratorId,omitempty"`
	Description          string                 `bson:"description"`
	QuestionText         map[string]string      `bson:"questionText"`
	QuestionHelpText     map[string]string      `bson:"questionHelpText,omitempty"`
	Type                 string                 `bson:"type"`
	ValidationPredicates string                 `bson:"validationPredicates"`
	Options              []model.QuestionOption `bson:"options,omitempty"`
	EntityType           map[string]string      `bson:"entityType,omitempty"`
}

func toQuestionDocument(q *model.QuestionDefinition) (*questionDocument, error) {
	predicates, err := model.SerializeValidationPredicates(q.Predicates)
	if err != nil {
		return nil, err
	}
	return &questionDocument{
		ID:                   q.ID,
		Name:                 q.Name,
		EnumeratorID:         q.EnumeratorID,
		Description:          q.Description,
		QuestionText:         q.QuestionText,
		QuestionHelpText:     q.QuestionHelpText,
		Type:                 string(q.Type),
		ValidationPredicates: string(predicates),
		Options:              q.Options,
		EntityType:           q.EntityType,
	}, nil
}

func fromQuestionDocument(doc *questionDocument) (*model.QuestionDefinition, error) {
	questionType, err := model.ParseQuestionType(doc.Type)
	if err != nil {
		return nil, err
	}
	predicates, err := model.ParseValidationPredicates(questionType, []byte(doc.ValidationPredicates))
	if err != nil {
		return nil, err
	}
	return &model.QuestionDefinition{
		ID:               doc.ID,
		Name:             doc.Name,
		EnumeratorID:     doc.EnumeratorID,
		Description:      doc.Description,
		QuestionText:     doc.QuestionText,
		QuestionHelpText: doc.QuestionHelpText,
		Type:             questionType,
		Predicates:       predicates,
		Options:          doc.Options,
		EntityType:       doc.EntityType,
	}, nil
}

func (r *questionRepo) Create(ctx context.Context, question *model.QuestionDefinition) (*model.QuestionDefinition, error) {
	// Assign the next id when the definition has not been persisted yet
	if question.ID == 0 {
		id, err := nextID(ctx, r.db, "questions")
		if err != nil {
			return nil, err
		}
		question.ID = id
	}

	doc, err := toQuestionDocument(question)
	if err != nil {
		return nil, err
	}

	// Insert the question into MongoDB
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return nil, err
	}

	return question, nil
}

func (r *questionRepo) GetByID(ctx context.Context, id int64) (*model.QuestionDefinition, error) {
	// Find the question by ID
	var doc questionDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // Question not found
		}
		return nil, err
	}

	return fromQuestionDocument(&doc)
}

func (r *questionRepo) Update(ctx context.Context, question *model.QuestionDefinition) error {
	doc, err := toQuestionDocument(question)
	if err != nil {
		return err
	}

	// Update the question
	_, err = r.collection.ReplaceOne(ctx, bson.M{"_id": question.ID}, doc)
	return err
}

func (r *questionRepo) Delete(ctx context.Context, id int64) error {
	// Delete the question
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *questionRepo) GetByIDs(ctx context.Context, ids []int64) ([]*model.QuestionDefinition, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	// Find questions by IDs
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeQuestions(ctx, cursor)
}

func (r *questionRepo) GetByName(ctx context.Context, name string) ([]*model.QuestionDefinition, error) {
	// Every revision of a question shares its admin name
	cursor, err := r.collection.Find(ctx, bson.M{"name": name})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeQuestions(ctx, cursor)
}

func (r *questionRepo) GetAll(ctx context.Context) ([]*model.QuestionDefinition, error) {
	// Find all questions
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeQuestions(ctx, cursor)
}

func decodeQuestions(ctx context.Context, cursor *mongo.Cursor) ([]*model.QuestionDefinition, error) {
	var questions []*model.QuestionDefinition
	for cursor.Next(ctx) {
		var doc questionDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		question, err := fromQuestionDocument(&doc)
		if err != nil {
			return nil, err
		}
		questions = append(questions, question)
	}
	return questions, cursor.Err()
}
