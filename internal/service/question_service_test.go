package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civiform/civiform-go/internal/model"
)

type serviceFixture struct {
	questionRepo *fakeQuestionRepo
	versionRepo  *fakeVersionRepo
	programRepo  *fakeProgramRepo
	broadcaster  *recordingBroadcaster

	questions *QuestionService
	programs  *ProgramService
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		questionRepo: newFakeQuestionRepo(),
		versionRepo:  newFakeVersionRepo(),
		programRepo:  newFakeProgramRepo(),
		broadcaster:  &recordingBroadcaster{},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.questions = NewQuestionService(f.questionRepo, f.versionRepo, f.programRepo, f.broadcaster, logger)
	f.programs = NewProgramService(f.programRepo, f.questionRepo, f.versionRepo, f.broadcaster, logger)
	return f
}

func textQuestion(t *testing.T, name string) *model.QuestionDefinition {
	t.Helper()
	def, err := model.NewQuestionDefinition(model.QuestionDefinitionConfig{
		Name:         name,
		Description:  "a " + name + " question",
		QuestionText: model.LocalizedStrings{model.DefaultLocale: "Please answer " + name},
		Type:         model.QuestionTypeText,
	})
	require.NoError(t, err)
	return def
}

func TestCreatePutsQuestionInDraft(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	created, errs, err := f.questions.Create(ctx, textQuestion(t, "favorite color"))
	require.NoError(t, err)
	require.Empty(t, errs)
	assert.True(t, created.IsPersisted())

	draft, err := f.versionRepo.GetDraft(ctx)
	require.NoError(t, err)
	require.NotNil(t, draft)
	assert.True(t, draft.HasQuestion(created.ID))

	require.Len(t, f.broadcaster.events, 1)
	assert.Equal(t, model.DraftEventQuestionCreated, f.broadcaster.events[0].Type)
}

func TestCreateRejectsInvalidDefinition(t *testing.T) {
	f := newServiceFixture()

	def, err := model.NewQuestionDefinition(model.QuestionDefinitionConfig{
		Name:         "",
		Description:  "",
		QuestionText: model.LocalizedStrings{},
		Type:         model.QuestionTypeText,
	})
	require.NoError(t, err)

	created, errs, err := f.questions.Create(context.Background(), def)
	require.NoError(t, err)
	assert.Nil(t, created)
	assert.NotEmpty(t, errs)
}

func TestCreateDetectsPathConflicts(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	_, errs, err := f.questions.Create(ctx, textQuestion(t, "applicant address"))
	require.NoError(t, err)
	require.Empty(t, errs)

	// Same name normalizes to the same path segment
	_, errs, err = f.questions.Create(ctx, textQuestion(t, "Applicant Address!"))
	require.NoError(t, err)
	require.NotEmpty(t, errs)

	// Same segment under a different enumerator parent is fine
	enumerated := textQuestion(t, "applicant address")
	parent := int64(99)
	enumerated.Name = "member address"
	enumerated.EnumeratorID = &parent
	_, errs, err = f.questions.Create(ctx, enumerated)
	require.NoError(t, err)
	assert.Empty(t, errs)
}

func TestUpdateRejectsImmutableFieldChanges(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	created, errs, err := f.questions.Create(ctx, textQuestion(t, "favorite color"))
	require.NoError(t, err)
	require.Empty(t, errs)

	edited := *created
	edited.Name = "favorite colour"
	edited.Type = model.QuestionTypeNumber

	_, _, err = f.questions.Update(ctx, &edited)
	var invalid *InvalidUpdateError
	require.ErrorAs(t, err, &invalid)
	// Every mismatch is listed: name, derived path segment and type
	assert.Len(t, invalid.Reasons, 3)
}

func TestUpdateEditsDraftRevisionInPlace(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	created, _, err := f.questions.Create(ctx, textQuestion(t, "favorite color"))
	require.NoError(t, err)

	edited := *created
	edited.Description = "updated description"
	updated, errs, err := f.questions.Update(ctx, &edited)
	require.NoError(t, err)
	require.Empty(t, errs)

	// The question was never published, so the draft row is edited in
	// place rather than forked.
	assert.Equal(t, created.ID, updated.ID)
	stored, err := f.questionRepo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "updated description", stored.Description)
}

func TestUpdateForksActiveRevision(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	created, _, err := f.questions.Create(ctx, textQuestion(t, "favorite color"))
	require.NoError(t, err)
	_, err = f.programs.Publish(ctx)
	require.NoError(t, err)

	edited := *created
	edited.Description = "second revision"
	updated, errs, err := f.questions.Update(ctx, &edited)
	require.NoError(t, err)
	require.Empty(t, errs)

	assert.NotEqual(t, created.ID, updated.ID)

	active, err := f.versionRepo.GetActive(ctx)
	require.NoError(t, err)
	assert.True(t, active.HasQuestion(created.ID))

	draft, err := f.versionRepo.GetDraft(ctx)
	require.NoError(t, err)
	assert.True(t, draft.HasQuestion(updated.ID))
	assert.False(t, draft.HasQuestion(created.ID))
}

func TestDiscardDraftRequiresPublishedRevision(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	created, _, err := f.questions.Create(ctx, textQuestion(t, "favorite color"))
	require.NoError(t, err)

	// The first revision has no active revision to fall back to
	err = f.questions.DiscardDraft(ctx, created.ID)
	var invalid *InvalidUpdateError
	require.ErrorAs(t, err, &invalid)
}

func TestDiscardDraftRevertsToActiveRevision(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	created, _, err := f.questions.Create(ctx, textQuestion(t, "favorite color"))
	require.NoError(t, err)
	_, err = f.programs.Publish(ctx)
	require.NoError(t, err)

	edited := *created
	edited.Description = "second revision"
	updated, _, err := f.questions.Update(ctx, &edited)
	require.NoError(t, err)

	require.NoError(t, f.questions.DiscardDraft(ctx, updated.ID))

	draft, err := f.versionRepo.GetDraft(ctx)
	require.NoError(t, err)
	assert.False(t, draft.HasQuestion(updated.ID))

	gone, err := f.questionRepo.GetByID(ctx, updated.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestArchiveAndRestoreLifecycle(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	created, _, err := f.questions.Create(ctx, textQuestion(t, "favorite color"))
	require.NoError(t, err)
	_, err = f.programs.Publish(ctx)
	require.NoError(t, err)

	deletionStatus := func() model.DeletionStatus {
		snapshot, err := f.questions.ReadOnly(ctx)
		require.NoError(t, err)
		view, err := snapshot.GetActiveAndDraftQuestions()
		require.NoError(t, err)
		return view.DeletionStatus(created.Name)
	}

	assert.Equal(t, model.DeletionStatusDeletable, deletionStatus())

	require.NoError(t, f.questions.Archive(ctx, created.ID))
	assert.Equal(t, model.DeletionStatusPendingDeletion, deletionStatus())

	// Archiving twice is rejected
	var invalid *InvalidUpdateError
	require.ErrorAs(t, f.questions.Archive(ctx, created.ID), &invalid)

	require.NoError(t, f.questions.Restore(ctx, created.ID))
	assert.Equal(t, model.DeletionStatusDeletable, deletionStatus())

	// Restoring an unarchived question is rejected
	require.ErrorAs(t, f.questions.Restore(ctx, created.ID), &invalid)
}

func TestArchiveRejectsReferencedQuestion(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	created, _, err := f.questions.Create(ctx, textQuestion(t, "favorite color"))
	require.NoError(t, err)

	program, errs, err := f.programs.Create(ctx, &model.ProgramDefinition{
		AdminName:     "food assistance",
		LocalizedName: model.LocalizedStrings{model.DefaultLocale: "Food Assistance"},
	})
	require.NoError(t, err)
	require.Empty(t, errs)
	program, err = f.programs.AddBlock(ctx, program.ID, nil)
	require.NoError(t, err)
	_, err = f.programs.AddQuestionToBlock(ctx, program.ID, program.Blocks[0].ID, created.ID, false)
	require.NoError(t, err)

	err = f.questions.Archive(ctx, created.ID)
	var invalid *InvalidUpdateError
	require.ErrorAs(t, err, &invalid)
}

func TestArchiveRejectsUnpublishedQuestion(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	created, _, err := f.questions.Create(ctx, textQuestion(t, "favorite color"))
	require.NoError(t, err)

	// Nothing to delete from the active version yet; the draft should
	// be discarded instead.
	err = f.questions.Archive(ctx, created.ID)
	var invalid *InvalidUpdateError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Reasons[0], "no published revision")
}

func TestArchivedQuestionStaysPendingDeletionWhenReferenced(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	created, _, err := f.questions.Create(ctx, textQuestion(t, "favorite color"))
	require.NoError(t, err)
	_, err = f.programs.Publish(ctx)
	require.NoError(t, err)

	require.NoError(t, f.questions.Archive(ctx, created.ID))

	// A draft program picking the question up afterwards does not
	// demote the standing tombstone to a reference conflict.
	program, errs, err := f.programs.Create(ctx, &model.ProgramDefinition{
		AdminName:     "food assistance",
		LocalizedName: model.LocalizedStrings{model.DefaultLocale: "Food Assistance"},
	})
	require.NoError(t, err)
	require.Empty(t, errs)
	program, err = f.programs.AddBlock(ctx, program.ID, nil)
	require.NoError(t, err)
	_, err = f.programs.AddQuestionToBlock(ctx, program.ID, program.Blocks[0].ID, created.ID, false)
	require.NoError(t, err)

	snapshot, err := f.questions.ReadOnly(ctx)
	require.NoError(t, err)
	view, err := snapshot.GetActiveAndDraftQuestions()
	require.NoError(t, err)
	assert.Equal(t, model.DeletionStatusPendingDeletion, view.DeletionStatus(created.Name))
}

func TestNotActiveStatusForUnpublishedQuestion(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	created, _, err := f.questions.Create(ctx, textQuestion(t, "favorite color"))
	require.NoError(t, err)

	snapshot, err := f.questions.ReadOnly(ctx)
	require.NoError(t, err)
	view, err := snapshot.GetActiveAndDraftQuestions()
	require.NoError(t, err)
	assert.Equal(t, model.DeletionStatusNotActive, view.DeletionStatus(created.Name))
}

func TestVersionedSnapshotRejectsDraftQueries(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	_, _, err := f.questions.Create(ctx, textQuestion(t, "favorite color"))
	require.NoError(t, err)
	published, err := f.programs.Publish(ctx)
	require.NoError(t, err)

	snapshot, err := f.questions.ReadOnlyVersioned(ctx, published.ID)
	require.NoError(t, err)

	var unsupported *UnsupportedOperationError
	_, err = snapshot.GetUpToDateQuestions()
	require.ErrorAs(t, err, &unsupported)
	_, err = snapshot.GetActiveAndDraftQuestions()
	require.ErrorAs(t, err, &unsupported)

	assert.Len(t, snapshot.GetAllQuestions(), 1)
}

func TestMissingQuestionLookupReturnsSentinel(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	snapshot, err := f.questions.ReadOnly(ctx)
	require.NoError(t, err)

	sentinel := snapshot.GetQuestionDefinition(12345)
	require.NotNil(t, sentinel)
	assert.Equal(t, int64(12345), sentinel.ID)
	assert.Empty(t, sentinel.Name)
}

func TestUpToDateQuestionsMergeActiveAndDraft(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	colorQ, _, err := f.questions.Create(ctx, textQuestion(t, "favorite color"))
	require.NoError(t, err)
	foodQ, _, err := f.questions.Create(ctx, textQuestion(t, "favorite food"))
	require.NoError(t, err)
	_, err = f.programs.Publish(ctx)
	require.NoError(t, err)

	// Edit one question and archive the other
	edited := *colorQ
	edited.Description = "second revision"
	updatedColor, _, err := f.questions.Update(ctx, &edited)
	require.NoError(t, err)
	require.NoError(t, f.questions.Archive(ctx, foodQ.ID))

	snapshot, err := f.questions.ReadOnly(ctx)
	require.NoError(t, err)
	upToDate, err := snapshot.GetUpToDateQuestions()
	require.NoError(t, err)

	require.Len(t, upToDate, 1)
	assert.Equal(t, updatedColor.ID, upToDate[0].ID)
	assert.Equal(t, "second revision", upToDate[0].Description)
}
