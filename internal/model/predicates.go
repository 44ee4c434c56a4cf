package model

import (
	"bytes"
	"encoding/json"
)

// ValidationPredicates is the admin-configured constraint object
// attached to a question definition. Each question type has its own
// shape; the object is persisted as an opaque JSON blob that must
// round-trip byte for byte through Serialize/Parse.
type ValidationPredicates interface {
	isValidationPredicates()
}

// TextValidationPredicates bounds the length of a text answer.
type TextValidationPredicates struct {
	MinLength *int `json:"minLength,omitempty"`
	MaxLength *int `json:"maxLength,omitempty"`
}

// IDValidationPredicates bounds the length of an id answer.
type IDValidationPredicates struct {
	MinLength *int `json:"minLength,omitempty"`
	MaxLength *int `json:"maxLength,omitempty"`
}

// NumberValidationPredicates bounds the value of a number answer.
type NumberValidationPredicates struct {
	Min *int64 `json:"min,omitempty"`
	Max *int64 `json:"max,omitempty"`
}

// MultiOptionValidationPredicates bounds how many options a checkbox
// answer may select. Single-select types never carry these; they
// hardcode exactly one required selection.
type MultiOptionValidationPredicates struct {
	MinChoicesRequired *int `json:"minChoicesRequired,omitempty"`
	MaxChoicesAllowed  *int `json:"maxChoicesAllowed,omitempty"`
}

// AddressValidationPredicates configures address-specific constraints.
type AddressValidationPredicates struct {
	DisallowPOBox bool `json:"disallowPoBox,omitempty"`
}

// EnumeratorValidationPredicates bounds the repeated-entity count.
type EnumeratorValidationPredicates struct {
	MinEntities *int `json:"minEntities,omitempty"`
	MaxEntities *int `json:"maxEntities,omitempty"`
}

// FileUploadValidationPredicates bounds how many files may be attached.
type FileUploadValidationPredicates struct {
	MaxFiles *int `json:"maxFiles,omitempty"`
}

// MapValidationPredicates bounds how many locations may be selected.
type MapValidationPredicates struct {
	MaxLocationSelections *int `json:"maxLocationSelections,omitempty"`
}

// EmptyValidationPredicates is used by types with no admin-configurable
// constraints (currency, date, email, name, phone, static content and
// the single-select option types).
type EmptyValidationPredicates struct{}

func (TextValidationPredicates) isValidationPredicates()        {}
func (IDValidationPredicates) isValidationPredicates()          {}
func (NumberValidationPredicates) isValidationPredicates()      {}
func (MultiOptionValidationPredicates) isValidationPredicates() {}
func (AddressValidationPredicates) isValidationPredicates()     {}
func (EnumeratorValidationPredicates) isValidationPredicates()  {}
func (FileUploadValidationPredicates) isValidationPredicates()  {}
func (MapValidationPredicates) isValidationPredicates()         {}
func (EmptyValidationPredicates) isValidationPredicates()       {}

// DefaultValidationPredicates returns the zero-value predicate object
// for a question type, failing for unrecognized discriminators.
func DefaultValidationPredicates(t QuestionType) (ValidationPredicates, error) {
	switch t {
	case QuestionTypeText:
		return TextValidationPredicates{}, nil
	case QuestionTypeID:
		return IDValidationPredicates{}, nil
	case QuestionTypeNumber:
		return NumberValidationPredicates{}, nil
	case QuestionTypeCheckbox:
		return MultiOptionValidationPredicates{}, nil
	case QuestionTypeAddress:
		return AddressValidationPredicates{}, nil
	case QuestionTypeEnumerator:
		return EnumeratorValidationPredicates{}, nil
	case QuestionTypeFileUpload:
		return FileUploadValidationPredicates{}, nil
	case QuestionTypeMap:
		return MapValidationPredicates{}, nil
	case QuestionTypeCurrency, QuestionTypeDate, QuestionTypeDropdown,
		QuestionTypeEmail, QuestionTypeName, QuestionTypePhone,
		QuestionTypeRadioButton, QuestionTypeStatic:
		return EmptyValidationPredicates{}, nil
	}
	return nil, &UnsupportedQuestionTypeError{Type: string(t)}
}

// ParseValidationPredicates deserializes the stored blob into the typed
// predicate object for the given question type.
func ParseValidationPredicates(t QuestionType, raw []byte) (ValidationPredicates, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return DefaultValidationPredicates(t)
	}
	switch t {
	case QuestionTypeText:
		var p TextValidationPredicates
		return p, json.Unmarshal(raw, &p)
	case QuestionTypeID:
		var p IDValidationPredicates
		return p, json.Unmarshal(raw, &p)
	case QuestionTypeNumber:
		var p NumberValidationPredicates
		return p, json.Unmarshal(raw, &p)
	case QuestionTypeCheckbox:
		var p MultiOptionValidationPredicates
		return p, json.Unmarshal(raw, &p)
	case QuestionTypeAddress:
		var p AddressValidationPredicates
		return p, json.Unmarshal(raw, &p)
	case QuestionTypeEnumerator:
		var p EnumeratorValidationPredicates
		return p, json.Unmarshal(raw, &p)
	case QuestionTypeFileUpload:
		var p FileUploadValidationPredicates
		return p, json.Unmarshal(raw, &p)
	case QuestionTypeMap:
		var p MapValidationPredicates
		return p, json.Unmarshal(raw, &p)
	case QuestionTypeCurrency, QuestionTypeDate, QuestionTypeDropdown,
		QuestionTypeEmail, QuestionTypeName, QuestionTypePhone,
		QuestionTypeRadioButton, QuestionTypeStatic:
		var p EmptyValidationPredicates
		return p, json.Unmarshal(raw, &p)
	}
	return nil, &UnsupportedQuestionTypeError{Type: string(t)}
}

// SerializeValidationPredicates renders the typed predicate object back
// into its stored JSON form. Field order is fixed by the struct
// definitions so serialize(parse(s)) == s for any s this produced.
func SerializeValidationPredicates(p ValidationPredicates) ([]byte, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(p)
}

// PredicatesEqual compares two predicate objects via their serialized
// forms, so pointer fields compare by value.
func PredicatesEqual(a, b ValidationPredicates) bool {
	aj, err := SerializeValidationPredicates(a)
	if err != nil {
		return false
	}
	bj, err := SerializeValidationPredicates(b)
	if err != nil {
		return false
	}
	return bytes.Equal(aj, bj)
}

// IntPtr is a convenience for building predicate objects.
func IntPtr(v int) *int { return &v }

// Int64Ptr is a convenience for building predicate objects.
func Int64Ptr(v int64) *int64 { return &v }
