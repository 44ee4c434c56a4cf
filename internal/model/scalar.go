package model

import "strings"

// Scalar is a typed leaf field inside a question's answer. A question
// type maps to a fixed set of scalars; composite types like ADDRESS and
// NAME carry several.
type Scalar string

const (
	ScalarStreet    Scalar = "STREET"
	ScalarLine2     Scalar = "LINE2"
	ScalarCity      Scalar = "CITY"
	ScalarState     Scalar = "STATE"
	ScalarZip       Scalar = "ZIP"
	ScalarLatitude  Scalar = "LATITUDE"
	ScalarLongitude Scalar = "LONGITUDE"

	ScalarFirstName  Scalar = "FIRST_NAME"
	ScalarMiddleName Scalar = "MIDDLE_NAME"
	ScalarLastName   Scalar = "LAST_NAME"
	ScalarNameSuffix Scalar = "NAME_SUFFIX"

	ScalarCurrencyCents Scalar = "CURRENCY_CENTS"
	ScalarDate          Scalar = "DATE"
	ScalarEmail         Scalar = "EMAIL"
	ScalarID            Scalar = "ID"
	ScalarNumber        Scalar = "NUMBER"
	ScalarText          Scalar = "TEXT"

	ScalarCountryCode Scalar = "COUNTRY_CODE"
	ScalarPhoneNumber Scalar = "PHONE_NUMBER"

	ScalarFileKey          Scalar = "FILE_KEY"
	ScalarOriginalFileName Scalar = "ORIGINAL_FILE_NAME"

	ScalarSelection  Scalar = "SELECTION"
	ScalarSelections Scalar = "SELECTIONS"

	// Metadata scalars are written alongside every answered question.
	ScalarUpdatedAt        Scalar = "UPDATED_AT"
	ScalarProgramUpdatedIn Scalar = "PROGRAM_UPDATED_IN"

	// ScalarEntityName is how enumerators store repeated entities; it is
	// addressed through entity paths, never through the scalar table.
	ScalarEntityName Scalar = "ENTITY_NAME"
)

// ScalarType is the storage type of a scalar leaf.
type ScalarType string

const (
	ScalarTypeString        ScalarType = "STRING"
	ScalarTypeLong          ScalarType = "LONG"
	ScalarTypeDouble        ScalarType = "DOUBLE"
	ScalarTypeDate          ScalarType = "DATE"
	ScalarTypeCurrencyCents ScalarType = "CURRENCY_CENTS"
	ScalarTypeListOfStrings ScalarType = "LIST_OF_STRINGS"
	ScalarTypeListOfLongs   ScalarType = "LIST_OF_LONGS"
)

// Key returns the path segment for the scalar, e.g. FIRST_NAME ->
// "first_name". The mapping is fixed so answers stay addressable across
// revisions.
func (s Scalar) Key() string { return strings.ToLower(string(s)) }

// scalarsByType is the static table mapping each question type to the
// leaf scalars it reads and writes. ENUMERATOR and STATIC are absent on
// purpose: enumerators store a list of entity names, static content
// stores nothing.
var scalarsByType = map[QuestionType]map[Scalar]ScalarType{
	QuestionTypeAddress: {
		ScalarStreet:    ScalarTypeString,
		ScalarLine2:     ScalarTypeString,
		ScalarCity:      ScalarTypeString,
		ScalarState:     ScalarTypeString,
		ScalarZip:       ScalarTypeString,
		ScalarLatitude:  ScalarTypeDouble,
		ScalarLongitude: ScalarTypeDouble,
	},
	QuestionTypeCheckbox: {
		ScalarSelections: ScalarTypeListOfLongs,
	},
	QuestionTypeCurrency: {
		ScalarCurrencyCents: ScalarTypeCurrencyCents,
	},
	QuestionTypeDate: {
		ScalarDate: ScalarTypeDate,
	},
	QuestionTypeDropdown: {
		ScalarSelection: ScalarTypeLong,
	},
	QuestionTypeEmail: {
		ScalarEmail: ScalarTypeString,
	},
	QuestionTypeFileUpload: {
		ScalarFileKey:          ScalarTypeString,
		ScalarOriginalFileName: ScalarTypeString,
	},
	QuestionTypeID: {
		ScalarID: ScalarTypeString,
	},
	QuestionTypeMap: {
		ScalarSelections: ScalarTypeListOfStrings,
	},
	QuestionTypeName: {
		ScalarFirstName:  ScalarTypeString,
		ScalarMiddleName: ScalarTypeString,
		ScalarLastName:   ScalarTypeString,
		ScalarNameSuffix: ScalarTypeString,
	},
	QuestionTypeNumber: {
		ScalarNumber: ScalarTypeLong,
	},
	QuestionTypePhone: {
		ScalarPhoneNumber: ScalarTypeString,
		ScalarCountryCode: ScalarTypeString,
	},
	QuestionTypeRadioButton: {
		ScalarSelection: ScalarTypeLong,
	},
	QuestionTypeText: {
		ScalarText: ScalarTypeString,
	},
}

// Scalars returns the scalar set for a question type. Enumerators fail
// with InvalidQuestionTypeError since their answers are addressed as
// entity names; types absent from the table fail with
// UnsupportedQuestionTypeError.
func Scalars(t QuestionType) (map[Scalar]ScalarType, error) {
	if t == QuestionTypeEnumerator {
		return nil, &InvalidQuestionTypeError{Type: t}
	}
	scalars, ok := scalarsByType[t]
	if !ok {
		return nil, &UnsupportedQuestionTypeError{Type: string(t)}
	}
	out := make(map[Scalar]ScalarType, len(scalars))
	for s, st := range scalars {
		out[s] = st
	}
	return out, nil
}

// MetadataScalars returns the bookkeeping scalars written with every
// answer regardless of question type.
func MetadataScalars() map[Scalar]ScalarType {
	return map[Scalar]ScalarType{
		ScalarUpdatedAt:        ScalarTypeLong,
		ScalarProgramUpdatedIn: ScalarTypeLong,
	}
}
