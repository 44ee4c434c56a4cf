package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textQuestion(t *testing.T) *QuestionDefinition {
	t.Helper()
	q, err := NewQuestionDefinition(QuestionDefinitionConfig{
		Name:         "applicant favorite color",
		Description:  "favorite color of applicant",
		QuestionText: LocalizedStrings{"en-US": "What is your favorite color?"},
		Type:         QuestionTypeText,
		Predicates:   TextValidationPredicates{MinLength: IntPtr(2), MaxLength: IntPtr(10)},
	})
	require.NoError(t, err)
	return q
}

func TestNewQuestionDefinitionUnknownType(t *testing.T) {
	_, err := NewQuestionDefinition(QuestionDefinitionConfig{
		Name: "x", Description: "x",
		QuestionText: LocalizedStrings{"en-US": "x"},
		Type:         QuestionType("INVALID"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported question type")
}

func TestPathSegmentDeterminism(t *testing.T) {
	q := textQuestion(t)
	assert.Equal(t, "applicant_favorite_color", q.PathSegment())
	// Same name always yields the same segment.
	assert.Equal(t, q.PathSegment(), textQuestion(t).PathSegment())

	enumerator, err := NewQuestionDefinition(QuestionDefinitionConfig{
		Name:         "household members",
		Description:  "the applicant's household",
		QuestionText: LocalizedStrings{"en-US": "Who lives with you?"},
		Type:         QuestionTypeEnumerator,
		EntityType:   LocalizedStrings{"en-US": "household member"},
	})
	require.NoError(t, err)
	// Enumerator segments always carry the array marker.
	assert.Equal(t, "household_members[]", enumerator.PathSegment())
}

func TestContextualizedPath(t *testing.T) {
	q := textQuestion(t)
	assert.Equal(t, "applicant/applicant_favorite_color",
		q.ContextualizedPath(nil, ApplicantRoot).String())

	enumerator, err := NewQuestionDefinition(QuestionDefinitionConfig{
		Name:         "household members",
		Description:  "household",
		QuestionText: LocalizedStrings{"en-US": "Who lives with you?"},
		Type:         QuestionTypeEnumerator,
		EntityType:   LocalizedStrings{"en-US": "household member"},
	})
	require.NoError(t, err)
	enumerator.ID = 7

	repeatedID := int64(7)
	birthdate, err := NewQuestionDefinition(QuestionDefinitionConfig{
		Name:         "household member birthdate",
		Description:  "birthdate of household member",
		QuestionText: LocalizedStrings{"en-US": "When was $this born?"},
		Type:         QuestionTypeDate,
		EnumeratorID: &repeatedID,
	})
	require.NoError(t, err)

	entities := RepeatedEntitiesFor(enumerator, nil, []string{"Alice", "Bob"})
	require.Len(t, entities, 2)
	assert.Equal(t, "applicant/household_members[0]/household_member_birthdate",
		birthdate.ContextualizedPath(entities[0], ApplicantRoot).String())
	assert.Equal(t, "applicant/household_members[1]/household_member_birthdate",
		birthdate.ContextualizedPath(entities[1], ApplicantRoot).String())
	assert.Equal(t, "When was Alice born?",
		entities[0].SubstitutePlaceholder(birthdate.QuestionText.GetOrDefault("en-US")))
}

func TestValidateBlankFields(t *testing.T) {
	q, err := NewQuestionDefinition(QuestionDefinitionConfig{Type: QuestionTypeText})
	require.NoError(t, err)
	errs := q.Validate()
	assert.True(t, HasValidationError(errs, "administrative identifier cannot be blank"))
	assert.True(t, HasValidationError(errs, "administrative description cannot be blank"))
	assert.True(t, HasValidationError(errs, "question text cannot be blank"))
}

func TestValidateRepeatedPlaceholder(t *testing.T) {
	enumID := int64(3)
	q, err := NewQuestionDefinition(QuestionDefinitionConfig{
		Name:             "member name",
		Description:      "name of household member",
		QuestionText:     LocalizedStrings{"en-US": "What is the name?"},
		QuestionHelpText: LocalizedStrings{"en-US": "Enter $this's legal name"},
		Type:             QuestionTypeText,
		EnumeratorID:     &enumID,
	})
	require.NoError(t, err)
	errs := q.Validate()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, `must contain the placeholder "$this"`)

	q.QuestionText = LocalizedStrings{"en-US": "What is $this's name?"}
	assert.Empty(t, q.Validate())
}

func TestValidateEnumeratorEntityType(t *testing.T) {
	q, err := NewQuestionDefinition(QuestionDefinitionConfig{
		Name:         "household members",
		Description:  "household",
		QuestionText: LocalizedStrings{"en-US": "Who lives with you?"},
		Type:         QuestionTypeEnumerator,
	})
	require.NoError(t, err)
	assert.True(t, HasValidationError(q.Validate(),
		"enumerator question must have specified entity type"))
}

func TestValidateOptions(t *testing.T) {
	base := QuestionDefinitionConfig{
		Name:         "ice cream",
		Description:  "favorite flavor",
		QuestionText: LocalizedStrings{"en-US": "Favorite flavor?"},
		Type:         QuestionTypeCheckbox,
	}

	q, err := NewQuestionDefinition(base)
	require.NoError(t, err)
	assert.True(t, HasValidationError(q.Validate(),
		"multi-option questions must have at least one option"))

	base.Options = []QuestionOption{
		{ID: 1, AdminName: "chocolate", DisplayOrder: 1, LocalizedText: LocalizedStrings{"en-US": "Chocolate"}},
		{ID: 1, AdminName: "vanilla", DisplayOrder: 2, LocalizedText: LocalizedStrings{"en-US": "Chocolate"}},
		{ID: 3, AdminName: "blank", DisplayOrder: 3, LocalizedText: LocalizedStrings{"en-US": "  "}},
	}
	q, err = NewQuestionDefinition(base)
	require.NoError(t, err)
	errs := q.Validate()
	assert.True(t, HasValidationError(errs, "multi-option question option ids must be unique, 1 repeats"))
	assert.True(t, HasValidationError(errs, `multi-option question options must be unique, "Chocolate" repeats`))
	assert.True(t, HasValidationError(errs, "multi-option questions cannot have blank options"))
}

func TestSupportedLocalesIntersection(t *testing.T) {
	q, err := NewQuestionDefinition(QuestionDefinitionConfig{
		Name:             "ice cream",
		Description:      "flavor",
		QuestionText:     LocalizedStrings{"en-US": "Flavor?", "es-US": "¿Sabor?", "ko": "맛?"},
		QuestionHelpText: LocalizedStrings{"en-US": "pick one", "es-US": "elige"},
		Type:             QuestionTypeCheckbox,
		Options: []QuestionOption{
			{ID: 1, AdminName: "chocolate", DisplayOrder: 1,
				LocalizedText: LocalizedStrings{"en-US": "Chocolate", "es-US": "Chocolate (es)"}},
			// "en" satisfies "en-US" through the language fallback.
			{ID: 2, AdminName: "vanilla", DisplayOrder: 2,
				LocalizedText: LocalizedStrings{"en": "Vanilla", "es-US": "Vainilla"}},
		},
	})
	require.NoError(t, err)
	// ko drops out: no help text and no option translations.
	assert.Equal(t, []string{"en-US", "es-US"}, q.SupportedLocales())
}

func TestSupportedLocalesNoHelpText(t *testing.T) {
	q := textQuestion(t)
	assert.Equal(t, []string{"en-US"}, q.SupportedLocales())
}

func TestEqualityIgnoringID(t *testing.T) {
	a := textQuestion(t)
	b := textQuestion(t)
	assert.True(t, a.EqualsIgnoreID(b))
	assert.True(t, a.Equals(b))

	// Prop: identical content, different persisted-id states.
	b.ID = 42
	assert.True(t, a.EqualsIgnoreID(b))
	assert.False(t, a.Equals(b))

	b.ID = a.ID
	b.Predicates = TextValidationPredicates{MinLength: IntPtr(3), MaxLength: IntPtr(10)}
	assert.False(t, a.EqualsIgnoreID(b))
}

func TestOptionsForLocaleFallsBack(t *testing.T) {
	q, err := NewQuestionDefinition(QuestionDefinitionConfig{
		Name:         "ice cream",
		Description:  "flavor",
		QuestionText: LocalizedStrings{"en-US": "Flavor?"},
		Type:         QuestionTypeRadioButton,
		Options: []QuestionOption{
			{ID: 2, AdminName: "vanilla", DisplayOrder: 2, LocalizedText: LocalizedStrings{"en-US": "Vanilla"}},
			{ID: 1, AdminName: "chocolate", DisplayOrder: 1,
				LocalizedText: LocalizedStrings{"en-US": "Chocolate", "es-US": "Chocolate (es)"}},
		},
	})
	require.NoError(t, err)

	opts := q.OptionsForLocale("es-US")
	require.Len(t, opts, 2)
	// Sorted by display order, untranslated option falls back to en-US.
	assert.Equal(t, "Chocolate (es)", opts[0].Text)
	assert.Equal(t, "Vanilla", opts[1].Text)
	assert.Equal(t, DefaultLocale, opts[1].Locale)
}
