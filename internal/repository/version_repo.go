package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/civiform/civiform-go/internal/model"
)

type VersionRepo interface {
	// Lifecycle Lookups
	GetActive(ctx context.Context) (*model.Version, error)
	GetDraft(ctx context.Context) (*model.Version, error)
	GetDraftOrCreate(ctx context.Context) (*model.Version, error)
	GetByID(ctx context.Context, id int64) (*model.Version, error)
	GetPrevious(ctx context.Context, version *model.Version) (*model.Version, error)

	// Membership Updates
	AddQuestion(ctx context.Context, versionID, questionID int64) error
	RemoveQuestion(ctx context.Context, versionID, questionID int64) error
	AddProgram(ctx context.Context, versionID, programID int64) error
	RemoveProgram(ctx context.Context, versionID, programID int64) error
	AddTombstone(ctx context.Context, versionID int64, questionName string) error
	RemoveTombstone(ctx context.Context, versionID int64, questionName string) error

	// Publish atomically retires the active version and promotes the
	// draft in its place.
	Publish(ctx context.Context, draft, active *model.Version) error
}

type versionRepo struct {
	db         *mongo.Database
	collection *mongo.Collection
}

func NewVersionRepo(client *mongo.Client) VersionRepo {
	db := client.Database(databaseName)
	return &versionRepo{
		db:         db,
		collection: db.Collection("versions"),
	}
}

func (r *versionRepo) GetActive(ctx context.Context) (*model.Version, error) {
	return r.getByStage(ctx, model.LifecycleStageActive)
}

func (r *versionRepo) GetDraft(ctx context.Context) (*model.Version, error) {
	return r.getByStage(ctx, model.LifecycleStageDraft)
}

func (r *versionRepo) getByStage(ctx context.Context, stage model.LifecycleStage) (*model.Version, error) {
	var version model.Version
	err := r.collection.FindOne(ctx, bson.M{"lifecycleStage": stage}).Decode(&version)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // No version at this stage
		}
		return nil, err
	}
	return &version, nil
}

// GetDraftOrCreate returns the single draft version, creating an empty
// one linked to the active version when none exists. Creation races
// resolve through the upsert: both callers observe the same draft.
func (r *versionRepo) GetDraftOrCreate(ctx context.Context) (*model.Version, error) {
	if draft, err := r.GetDraft(ctx); err != nil || draft != nil {
		return draft, err
	}

	active, err := r.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	id, err := nextID(ctx, r.db, "versions")
	if err != nil {
		return nil, err
	}

	insert := bson.M{
		"_id":                     id,
		"questionIds":             []int64{},
		"programIds":              []int64{},
		"tombstonedQuestionNames": []string{},
		"createdAt":               time.Now().UTC(),
	}
	if active != nil {
		insert["previousVersionId"] = active.ID
	}

	// Upsert keyed on the lifecycle stage keeps the draft a singleton
	var draft model.Version
	err = r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"lifecycleStage": model.LifecycleStageDraft},
		bson.M{"$setOnInsert": insert},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&draft)
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

func (r *versionRepo) GetByID(ctx context.Context, id int64) (*model.Version, error) {
	var version model.Version
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&version)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil // Version not found
		}
		return nil, err
	}
	return &version, nil
}

func (r *versionRepo) GetPrevious(ctx context.Context, version *model.Version) (*model.Version, error) {
	if version.PreviousVersionID == nil {
		return nil, nil
	}
	return r.GetByID(ctx, *version.PreviousVersionID)
}

func (r *versionRepo) AddQuestion(ctx context.Context, versionID, questionID int64) error {
	// $addToSet keeps the membership idempotent
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": versionID},
		bson.M{"$addToSet": bson.M{"questionIds": questionID}})
	return err
}

func (r *versionRepo) RemoveQuestion(ctx context.Context, versionID, questionID int64) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": versionID},
		bson.M{"$pull": bson.M{"questionIds": questionID}})
	return err
}

func (r *versionRepo) AddProgram(ctx context.Context, versionID, programID int64) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": versionID},
		bson.M{"$addToSet": bson.M{"programIds": programID}})
	return err
}

func (r *versionRepo) RemoveProgram(ctx context.Context, versionID, programID int64) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": versionID},
		bson.M{"$pull": bson.M{"programIds": programID}})
	return err
}

func (r *versionRepo) AddTombstone(ctx context.Context, versionID int64, questionName string) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": versionID},
		bson.M{"$addToSet": bson.M{"tombstonedQuestionNames": questionName}})
	return err
}

func (r *versionRepo) RemoveTombstone(ctx context.Context, versionID int64, questionName string) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": versionID},
		bson.M{"$pull": bson.M{"tombstonedQuestionNames": questionName}})
	return err
}

func (r *versionRepo) Publish(ctx context.Context, draft, active *model.Version) error {
	// Both stage flips happen in one transaction so readers never see
	// zero or two active versions.
	session, err := r.db.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	now := time.Now().UTC()
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if active != nil {
			_, err := r.collection.UpdateOne(sc,
				bson.M{"_id": active.ID, "lifecycleStage": model.LifecycleStageActive},
				bson.M{"$set": bson.M{"lifecycleStage": model.LifecycleStageObsolete}})
			if err != nil {
				return nil, err
			}
		}
		_, err := r.collection.UpdateOne(sc,
			bson.M{"_id": draft.ID, "lifecycleStage": model.LifecycleStageDraft},
			bson.M{"$set": bson.M{
				"lifecycleStage": model.LifecycleStageActive,
				"submittedAt":    now,
			}})
		return nil, err
	})
	return err
}
