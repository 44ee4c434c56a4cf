package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredicatesRoundTrip(t *testing.T) {
	cases := []struct {
		qt         QuestionType
		predicates ValidationPredicates
	}{
		{QuestionTypeText, TextValidationPredicates{MinLength: IntPtr(2), MaxLength: IntPtr(10)}},
		{QuestionTypeText, TextValidationPredicates{}},
		{QuestionTypeID, IDValidationPredicates{MaxLength: IntPtr(4)}},
		{QuestionTypeNumber, NumberValidationPredicates{Min: Int64Ptr(0), Max: Int64Ptr(100)}},
		{QuestionTypeCheckbox, MultiOptionValidationPredicates{MinChoicesRequired: IntPtr(1), MaxChoicesAllowed: IntPtr(3)}},
		{QuestionTypeAddress, AddressValidationPredicates{DisallowPOBox: true}},
		{QuestionTypeEnumerator, EnumeratorValidationPredicates{MaxEntities: IntPtr(8)}},
		{QuestionTypeFileUpload, FileUploadValidationPredicates{MaxFiles: IntPtr(2)}},
		{QuestionTypeMap, MapValidationPredicates{MaxLocationSelections: IntPtr(5)}},
		{QuestionTypeDate, EmptyValidationPredicates{}},
	}
	for _, tc := range cases {
		serialized, err := SerializeValidationPredicates(tc.predicates)
		require.NoError(t, err, "type %s", tc.qt)

		parsed, err := ParseValidationPredicates(tc.qt, serialized)
		require.NoError(t, err, "type %s", tc.qt)
		assert.Equal(t, tc.predicates, parsed, "type %s", tc.qt)

		// Stored blobs must survive a serialize/parse cycle byte for byte.
		reserialized, err := SerializeValidationPredicates(parsed)
		require.NoError(t, err)
		assert.Equal(t, string(serialized), string(reserialized), "type %s", tc.qt)
	}
}

func TestParsePredicatesEmptyBlobDefaults(t *testing.T) {
	p, err := ParseValidationPredicates(QuestionTypeText, nil)
	require.NoError(t, err)
	assert.Equal(t, TextValidationPredicates{}, p)
}

func TestDefaultPredicatesUnknownType(t *testing.T) {
	_, err := DefaultValidationPredicates(QuestionType("BOGUS"))
	assert.Error(t, err)
	_, err = ParseValidationPredicates(QuestionType("BOGUS"), []byte(`{}`))
	assert.Error(t, err)
}

func TestPredicatesEqual(t *testing.T) {
	a := TextValidationPredicates{MinLength: IntPtr(2)}
	b := TextValidationPredicates{MinLength: IntPtr(2)}
	assert.True(t, PredicatesEqual(a, b))
	assert.False(t, PredicatesEqual(a, TextValidationPredicates{MinLength: IntPtr(3)}))
	assert.False(t, PredicatesEqual(a, TextValidationPredicates{}))
}
