package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civiform/civiform-go/internal/model"
)

func TestQuestionDocumentRoundTrip(t *testing.T) {
	original, err := model.NewQuestionDefinition(model.QuestionDefinitionConfig{
		ID:           7,
		Name:         "applicant address",
		Description:  "Where the applicant lives",
		QuestionText: model.LocalizedStrings{"en-US": "What is your address?", "es-US": "¿Cuál es su dirección?"},
		Type:         model.QuestionTypeAddress,
		Predicates:   model.AddressValidationPredicates{DisallowPOBox: true},
	})
	require.NoError(t, err)

	doc, err := toQuestionDocument(original)
	require.NoError(t, err)
	assert.Equal(t, "ADDRESS", doc.Type)
	assert.JSONEq(t, `{"disallowPoBox":true}`, doc.ValidationPredicates)

	restored, err := fromQuestionDocument(doc)
	require.NoError(t, err)
	assert.True(t, restored.EqualsIgnoreID(original))
	assert.Equal(t, original.ID, restored.ID)
	assert.Equal(t, original.Predicates, restored.Predicates)
}

func TestQuestionDocumentRoundTripEnumerator(t *testing.T) {
	original, err := model.NewQuestionDefinition(model.QuestionDefinitionConfig{
		ID:           3,
		Name:         "household members",
		Description:  "People in the household",
		QuestionText: model.LocalizedStrings{"en-US": "Who lives with you?"},
		Type:         model.QuestionTypeEnumerator,
		EntityType:   model.LocalizedStrings{"en-US": "household member"},
		Predicates:   model.EnumeratorValidationPredicates{MaxEntities: model.IntPtr(8)},
	})
	require.NoError(t, err)

	doc, err := toQuestionDocument(original)
	require.NoError(t, err)

	restored, err := fromQuestionDocument(doc)
	require.NoError(t, err)
	assert.True(t, restored.IsEnumerator())
	assert.Equal(t, original.EntityType, restored.EntityType)
	assert.Equal(t, original.Predicates, restored.Predicates)
}

func TestQuestionDocumentRejectsUnknownType(t *testing.T) {
	_, err := fromQuestionDocument(&questionDocument{
		ID:   1,
		Name: "mystery",
		Type: "HOLOGRAM",
	})
	require.Error(t, err)

	var unsupported *model.UnsupportedQuestionTypeError
	assert.ErrorAs(t, err, &unsupported)
}
