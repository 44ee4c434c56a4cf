package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civiform/civiform-go/internal/model"
)

func createProgram(t *testing.T, f *serviceFixture, adminName string) *model.ProgramDefinition {
	t.Helper()
	program, errs, err := f.programs.Create(context.Background(), &model.ProgramDefinition{
		AdminName:     adminName,
		LocalizedName: model.LocalizedStrings{model.DefaultLocale: adminName},
	})
	require.NoError(t, err)
	require.Empty(t, errs)
	return program
}

func TestProgramCreateRejectsDuplicateAdminName(t *testing.T) {
	f := newServiceFixture()
	createProgram(t, f, "food assistance")

	_, errs, err := f.programs.Create(context.Background(), &model.ProgramDefinition{
		AdminName:     "food assistance",
		LocalizedName: model.LocalizedStrings{model.DefaultLocale: "Food Assistance"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, errs)
}

func TestBlockOperations(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	question, _, err := f.questions.Create(ctx, textQuestion(t, "favorite color"))
	require.NoError(t, err)
	program := createProgram(t, f, "food assistance")

	program, err = f.programs.AddBlock(ctx, program.ID, nil)
	require.NoError(t, err)
	require.Len(t, program.Blocks, 1)
	blockID := program.Blocks[0].ID

	program, err = f.programs.UpdateBlock(ctx, program.ID, blockID, "Intake", "basic info")
	require.NoError(t, err)
	assert.Equal(t, "Intake", program.Blocks[0].Name)

	program, err = f.programs.AddQuestionToBlock(ctx, program.ID, blockID, question.ID, false)
	require.NoError(t, err)
	assert.True(t, program.HasQuestion(question.ID))

	// The same question cannot join a block twice
	_, err = f.programs.AddQuestionToBlock(ctx, program.ID, blockID, question.ID, false)
	var invalid *InvalidUpdateError
	require.ErrorAs(t, err, &invalid)

	program, err = f.programs.RemoveQuestionFromBlock(ctx, program.ID, blockID, question.ID)
	require.NoError(t, err)
	assert.False(t, program.HasQuestion(question.ID))

	program, err = f.programs.RemoveBlock(ctx, program.ID, blockID)
	require.NoError(t, err)
	assert.Empty(t, program.Blocks)
}

func TestRepeatedQuestionNeedsMatchingBlockEnumerator(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	enumerator, err := model.NewQuestionDefinition(model.QuestionDefinitionConfig{
		Name:         "household members",
		Description:  "household",
		QuestionText: model.LocalizedStrings{model.DefaultLocale: "Who lives with you?"},
		Type:         model.QuestionTypeEnumerator,
		EntityType:   model.LocalizedStrings{model.DefaultLocale: "member"},
	})
	require.NoError(t, err)
	enumerator, errs, err := f.questions.Create(ctx, enumerator)
	require.NoError(t, err)
	require.Empty(t, errs)

	repeated := textQuestion(t, "member nickname")
	repeated.EnumeratorID = &enumerator.ID
	repeated, errs, err = f.questions.Create(ctx, repeated)
	require.NoError(t, err)
	require.Empty(t, errs)

	program := createProgram(t, f, "food assistance")
	program, err = f.programs.AddBlock(ctx, program.ID, nil)
	require.NoError(t, err)
	topBlockID := program.Blocks[0].ID

	// A repeated question cannot join a top-level block
	_, err = f.programs.AddQuestionToBlock(ctx, program.ID, topBlockID, repeated.ID, false)
	var invalid *InvalidUpdateError
	require.ErrorAs(t, err, &invalid)

	program, err = f.programs.AddBlock(ctx, program.ID, &enumerator.ID)
	require.NoError(t, err)
	repeatedBlockID := program.Blocks[1].ID

	program, err = f.programs.AddQuestionToBlock(ctx, program.ID, repeatedBlockID, repeated.ID, false)
	require.NoError(t, err)
	assert.True(t, program.HasQuestion(repeated.ID))
}

func TestEditingActiveProgramForksDraftRevision(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	program := createProgram(t, f, "food assistance")
	_, err := f.programs.Publish(ctx)
	require.NoError(t, err)

	edited, err := f.programs.AddBlock(ctx, program.ID, nil)
	require.NoError(t, err)
	assert.NotEqual(t, program.ID, edited.ID)

	draft, err := f.versionRepo.GetDraft(ctx)
	require.NoError(t, err)
	assert.True(t, draft.HasProgram(edited.ID))
	assert.False(t, draft.HasProgram(program.ID))

	// A second edit lands on the same draft revision
	again, err := f.programs.AddBlock(ctx, program.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, edited.ID, again.ID)
	assert.Len(t, again.Blocks, 2)
}

func TestPublishCarriesForwardUneditedContent(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	colorQ, _, err := f.questions.Create(ctx, textQuestion(t, "favorite color"))
	require.NoError(t, err)
	foodQ, _, err := f.questions.Create(ctx, textQuestion(t, "favorite food"))
	require.NoError(t, err)
	program := createProgram(t, f, "food assistance")

	first, err := f.programs.Publish(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.LifecycleStageActive, first.LifecycleStage)
	assert.True(t, first.HasQuestion(colorQ.ID))
	assert.True(t, first.HasQuestion(foodQ.ID))
	assert.True(t, first.HasProgram(program.ID))

	// Second cycle: edit one question, archive the other
	edited := *colorQ
	edited.Description = "second revision"
	updatedColor, _, err := f.questions.Update(ctx, &edited)
	require.NoError(t, err)
	require.NoError(t, f.questions.Archive(ctx, foodQ.ID))

	second, err := f.programs.Publish(ctx)
	require.NoError(t, err)

	assert.True(t, second.HasQuestion(updatedColor.ID))
	assert.False(t, second.HasQuestion(colorQ.ID))
	// The archived question fell out entirely
	assert.False(t, second.HasQuestion(foodQ.ID))
	// The unedited program carried forward
	assert.True(t, second.HasProgram(program.ID))

	// The first version is now obsolete, linked from the second
	previous, err := f.versionRepo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LifecycleStageObsolete, previous.LifecycleStage)
	require.NotNil(t, second.PreviousVersionID)
	assert.Equal(t, first.ID, *second.PreviousVersionID)
}

func TestPublishDropsArchivedQuestionDraftRevision(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	colorQ, _, err := f.questions.Create(ctx, textQuestion(t, "favorite color"))
	require.NoError(t, err)
	_, err = f.programs.Publish(ctx)
	require.NoError(t, err)

	// Edit first (forking a draft revision), then archive
	edited := *colorQ
	edited.Description = "second revision"
	updated, _, err := f.questions.Update(ctx, &edited)
	require.NoError(t, err)
	require.NotEqual(t, colorQ.ID, updated.ID)
	require.NoError(t, f.questions.Archive(ctx, colorQ.ID))

	published, err := f.programs.Publish(ctx)
	require.NoError(t, err)

	// Neither revision of the archived question survives the promotion
	assert.False(t, published.HasQuestion(colorQ.ID))
	assert.False(t, published.HasQuestion(updated.ID))
}

func TestPublishWithoutDraftFails(t *testing.T) {
	f := newServiceFixture()
	_, err := f.programs.Publish(context.Background())
	var unsupported *UnsupportedOperationError
	require.ErrorAs(t, err, &unsupported)
}
