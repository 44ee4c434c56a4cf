package applicant

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civiform/civiform-go/internal/model"
)

func mustDefinition(t *testing.T, config model.QuestionDefinitionConfig) *model.QuestionDefinition {
	t.Helper()
	if config.Description == "" {
		config.Description = "test question"
	}
	def, err := model.NewQuestionDefinition(config)
	require.NoError(t, err)
	return def
}

func TestTextQuestionLengthBounds(t *testing.T) {
	def := mustDefinition(t, model.QuestionDefinitionConfig{
		ID:           1,
		Name:         "favorite color",
		QuestionText: model.LocalizedStrings{model.DefaultLocale: "What is your favorite color?"},
		Type:         model.QuestionTypeText,
		Predicates: model.TextValidationPredicates{
			MinLength: model.IntPtr(2),
			MaxLength: model.IntPtr(10),
		},
	})
	data := NewApplicantData()
	q := NewApplicantQuestion(def, data, nil)

	data.PutString(q.ScalarPath(model.ScalarText), "b")
	text, err := q.Text()
	require.NoError(t, err)
	assert.True(t, text.IsAnswered())
	assert.True(t, model.HasValidationError(text.QuestionErrors(), "must contain at least 2 characters"))

	data.PutString(q.ScalarPath(model.ScalarText), "chartreuse and gold")
	text, err = q.Text()
	require.NoError(t, err)
	assert.True(t, model.HasValidationError(text.QuestionErrors(), "must contain at most 10 characters"))

	data.PutString(q.ScalarPath(model.ScalarText), "blue")
	text, err = q.Text()
	require.NoError(t, err)
	assert.Equal(t, "blue", text.Value())
	assert.Empty(t, text.QuestionErrors())
}

func TestWrongTypeAccessorFailsFast(t *testing.T) {
	def := mustDefinition(t, model.QuestionDefinitionConfig{
		ID:           1,
		Name:         "favorite color",
		QuestionText: model.LocalizedStrings{model.DefaultLocale: "What is your favorite color?"},
		Type:         model.QuestionTypeText,
	})
	q := NewApplicantQuestion(def, NewApplicantData(), nil)

	_, err := q.Number()
	var wrongType *model.WrongQuestionTypeError
	require.ErrorAs(t, err, &wrongType)
	assert.Equal(t, model.QuestionTypeNumber, wrongType.Expected)
	assert.Equal(t, model.QuestionTypeText, wrongType.Actual)
}

func TestSingleSelectAcceptsBothSelectTypes(t *testing.T) {
	options := []model.QuestionOption{
		{ID: 1, AdminName: "red", DisplayOrder: 1, LocalizedText: model.LocalizedStrings{model.DefaultLocale: "Red"}},
		{ID: 2, AdminName: "blue", DisplayOrder: 2, LocalizedText: model.LocalizedStrings{model.DefaultLocale: "Blue"}},
	}
	for _, questionType := range []model.QuestionType{model.QuestionTypeDropdown, model.QuestionTypeRadioButton} {
		def := mustDefinition(t, model.QuestionDefinitionConfig{
			ID:           1,
			Name:         "color pick",
			QuestionText: model.LocalizedStrings{model.DefaultLocale: "Pick a color"},
			Type:         questionType,
			Options:      options,
		})
		data := NewApplicantData()
		q := NewApplicantQuestion(def, data, nil)
		data.PutLong(q.ScalarPath(model.ScalarSelection), 2)

		selected, err := q.SingleSelect()
		require.NoError(t, err)
		option, ok := selected.SelectedOption()
		require.True(t, ok)
		assert.Equal(t, "Blue", option.Text)
	}
}

func TestMultiSelectDropsDeletedOptions(t *testing.T) {
	def := mustDefinition(t, model.QuestionDefinitionConfig{
		ID:           1,
		Name:         "toppings",
		QuestionText: model.LocalizedStrings{model.DefaultLocale: "Pick toppings"},
		Type:         model.QuestionTypeCheckbox,
		Options: []model.QuestionOption{
			{ID: 1, AdminName: "olives", DisplayOrder: 1, LocalizedText: model.LocalizedStrings{model.DefaultLocale: "Olives"}},
			{ID: 2, AdminName: "onions", DisplayOrder: 2, LocalizedText: model.LocalizedStrings{model.DefaultLocale: "Onions"}},
		},
	})
	data := NewApplicantData()
	q := NewApplicantQuestion(def, data, nil)
	// Option 9 was removed from the definition after the applicant answered.
	data.PutLongList(q.ScalarPath(model.ScalarSelections), []int64{1, 9})

	multi, err := q.MultiSelect()
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 9}, multi.SelectionIDs())
	selected := multi.SelectedOptions()
	require.Len(t, selected, 1)
	assert.Equal(t, "Olives", selected[0].Text)
}

func TestAddressValidation(t *testing.T) {
	def := mustDefinition(t, model.QuestionDefinitionConfig{
		ID:           1,
		Name:         "mailing address",
		QuestionText: model.LocalizedStrings{model.DefaultLocale: "What is your mailing address?"},
		Type:         model.QuestionTypeAddress,
		Predicates:   model.AddressValidationPredicates{DisallowPOBox: true},
	})
	data := NewApplicantData()
	q := NewApplicantQuestion(def, data, nil)

	data.PutString(q.ScalarPath(model.ScalarStreet), "PO Box 42")
	data.PutString(q.ScalarPath(model.ScalarCity), "Seattle")
	data.PutString(q.ScalarPath(model.ScalarState), "WA")
	data.PutString(q.ScalarPath(model.ScalarZip), "9810")

	address, err := q.Address()
	require.NoError(t, err)
	assert.True(t, address.IsAnswered())
	assert.True(t, model.HasValidationError(address.QuestionErrors(), "PO Box addresses are not allowed"))
	assert.True(t, model.HasValidationError(address.TypeErrors(), "please enter a valid ZIP code"))

	data.PutString(q.ScalarPath(model.ScalarStreet), "123 Main St")
	data.PutString(q.ScalarPath(model.ScalarZip), "98101")
	address, err = q.Address()
	require.NoError(t, err)
	assert.Empty(t, address.QuestionErrors())
	assert.Empty(t, address.TypeErrors())
}

func TestNameQuestionRequiresFirstAndLast(t *testing.T) {
	def := mustDefinition(t, model.QuestionDefinitionConfig{
		ID:           1,
		Name:         "applicant name",
		QuestionText: model.LocalizedStrings{model.DefaultLocale: "What is your name?"},
		Type:         model.QuestionTypeName,
	})
	data := NewApplicantData()
	q := NewApplicantQuestion(def, data, nil)

	data.PutString(q.ScalarPath(model.ScalarFirstName), "Jean")
	name, err := q.Name()
	require.NoError(t, err)
	assert.True(t, name.IsAnswered())
	assert.True(t, model.HasValidationError(name.QuestionErrors(), "last name is required"))

	data.PutString(q.ScalarPath(model.ScalarLastName), "Valjean")
	name, err = q.Name()
	require.NoError(t, err)
	assert.Empty(t, name.QuestionErrors())
	assert.Equal(t, "Jean", name.First())
	assert.Equal(t, "Valjean", name.Last())
}

func TestDateQuestionMalformedValue(t *testing.T) {
	def := mustDefinition(t, model.QuestionDefinitionConfig{
		ID:           1,
		Name:         "birthdate",
		QuestionText: model.LocalizedStrings{model.DefaultLocale: "When were you born?"},
		Type:         model.QuestionTypeDate,
	})
	data := NewApplicantData()
	q := NewApplicantQuestion(def, data, nil)

	data.PutString(q.ScalarPath(model.ScalarDate), "05/01/1990")
	date, err := q.Date()
	require.NoError(t, err)
	assert.True(t, date.IsAnswered())
	assert.True(t, model.HasValidationError(date.TypeErrors(), "please enter a date in the format YYYY-MM-DD"))

	data.PutString(q.ScalarPath(model.ScalarDate), "1990-05-01")
	date, err = q.Date()
	require.NoError(t, err)
	assert.Empty(t, date.TypeErrors())
	assert.Equal(t, 1990, date.Value().Year())
}

func TestQuestionTextLocaleFallback(t *testing.T) {
	def := mustDefinition(t, model.QuestionDefinitionConfig{
		ID:   1,
		Name: "favorite color",
		QuestionText: model.LocalizedStrings{
			model.DefaultLocale: "What is your favorite color?",
			"es-US":             "¿Cuál es tu color favorito?",
		},
		Type: model.QuestionTypeText,
	})
	data := NewApplicantData()
	data.PreferredLocale = "es-US"
	q := NewApplicantQuestion(def, data, nil)
	assert.Equal(t, "¿Cuál es tu color favorito?", q.QuestionText())

	data.PreferredLocale = "fr-FR"
	assert.Equal(t, "What is your favorite color?", q.QuestionText())
}

func TestStaticQuestionNeverAnswered(t *testing.T) {
	def := mustDefinition(t, model.QuestionDefinitionConfig{
		ID:           1,
		Name:         "program info",
		QuestionText: model.LocalizedStrings{model.DefaultLocale: "This program serves families."},
		Type:         model.QuestionTypeStatic,
	})
	q := NewApplicantQuestion(def, NewApplicantData(), nil)
	assert.False(t, q.IsAnswered())
	assert.Empty(t, q.AllErrors())
}

func TestErrorsIsForWrongType(t *testing.T) {
	def := mustDefinition(t, model.QuestionDefinitionConfig{
		ID:           1,
		Name:         "household size",
		QuestionText: model.LocalizedStrings{model.DefaultLocale: "How many people live with you?"},
		Type:         model.QuestionTypeNumber,
	})
	q := NewApplicantQuestion(def, NewApplicantData(), nil)
	_, err := q.Enumerator()
	require.Error(t, err)
	var wrongType *model.WrongQuestionTypeError
	assert.True(t, errors.As(err, &wrongType))
}
