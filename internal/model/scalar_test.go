package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarsPerType(t *testing.T) {
	scalars, err := Scalars(QuestionTypeAddress)
	require.NoError(t, err)
	assert.Equal(t, ScalarTypeString, scalars[ScalarStreet])
	assert.Equal(t, ScalarTypeDouble, scalars[ScalarLatitude])

	scalars, err = Scalars(QuestionTypeName)
	require.NoError(t, err)
	assert.Contains(t, scalars, ScalarFirstName)
	assert.Contains(t, scalars, ScalarLastName)

	scalars, err = Scalars(QuestionTypeCheckbox)
	require.NoError(t, err)
	assert.Equal(t, ScalarTypeListOfLongs, scalars[ScalarSelections])
}

func TestScalarsEnumeratorIsInvalid(t *testing.T) {
	_, err := Scalars(QuestionTypeEnumerator)
	var invalid *InvalidQuestionTypeError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, QuestionTypeEnumerator, invalid.Type)
}

func TestScalarsStaticIsUnsupported(t *testing.T) {
	_, err := Scalars(QuestionTypeStatic)
	var unsupported *UnsupportedQuestionTypeError
	require.True(t, errors.As(err, &unsupported))
}

func TestScalarsReturnsCopy(t *testing.T) {
	scalars, err := Scalars(QuestionTypeText)
	require.NoError(t, err)
	scalars[ScalarText] = ScalarTypeLong

	fresh, err := Scalars(QuestionTypeText)
	require.NoError(t, err)
	assert.Equal(t, ScalarTypeString, fresh[ScalarText])
}

func TestScalarKey(t *testing.T) {
	assert.Equal(t, "first_name", ScalarFirstName.Key())
	assert.Equal(t, "currency_cents", ScalarCurrencyCents.Key())
}

func TestEveryNonEnumeratorTypeHasScalarsOrIsStatic(t *testing.T) {
	for _, qt := range AllQuestionTypes {
		if qt == QuestionTypeEnumerator || qt == QuestionTypeStatic {
			continue
		}
		_, err := Scalars(qt)
		assert.NoError(t, err, "type %s", qt)
	}
}
