package model

// QuestionType discriminates the question definition variants. Every
// consumer of a question switches exhaustively on this value.
type QuestionType string

const (
	QuestionTypeAddress     QuestionType = "ADDRESS"
	QuestionTypeCheckbox    QuestionType = "CHECKBOX"
	QuestionTypeCurrency    QuestionType = "CURRENCY"
	QuestionTypeDate        QuestionType = "DATE"
	QuestionTypeDropdown    QuestionType = "DROPDOWN"
	QuestionTypeEmail       QuestionType = "EMAIL"
	QuestionTypeEnumerator  QuestionType = "ENUMERATOR"
	QuestionTypeFileUpload  QuestionType = "FILEUPLOAD"
	QuestionTypeID          QuestionType = "ID"
	QuestionTypeMap         QuestionType = "MAP"
	QuestionTypeName        QuestionType = "NAME"
	QuestionTypeNumber      QuestionType = "NUMBER"
	QuestionTypePhone       QuestionType = "PHONE"
	QuestionTypeRadioButton QuestionType = "RADIO_BUTTON"
	QuestionTypeStatic      QuestionType = "STATIC"
	QuestionTypeText        QuestionType = "TEXT"
)

// AllQuestionTypes lists every supported type in stable order.
var AllQuestionTypes = []QuestionType{
	QuestionTypeAddress,
	QuestionTypeCheckbox,
	QuestionTypeCurrency,
	QuestionTypeDate,
	QuestionTypeDropdown,
	QuestionTypeEmail,
	QuestionTypeEnumerator,
	QuestionTypeFileUpload,
	QuestionTypeID,
	QuestionTypeMap,
	QuestionTypeName,
	QuestionTypeNumber,
	QuestionTypePhone,
	QuestionTypeRadioButton,
	QuestionTypeStatic,
	QuestionTypeText,
}

// ParseQuestionType converts a stored discriminator back into a
// QuestionType, failing for anything outside the fixed enumeration.
func ParseQuestionType(s string) (QuestionType, error) {
	for _, t := range AllQuestionTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", &UnsupportedQuestionTypeError{Type: s}
}

// IsMultiOption reports whether the type carries a selectable option list.
func (t QuestionType) IsMultiOption() bool {
	switch t {
	case QuestionTypeCheckbox, QuestionTypeDropdown, QuestionTypeRadioButton:
		return true
	}
	return false
}

// IsSingleSelect reports whether the type allows exactly one selection.
// Single-select types hardcode one-required and carry no choice-count
// predicates.
func (t QuestionType) IsSingleSelect() bool {
	switch t {
	case QuestionTypeDropdown, QuestionTypeRadioButton:
		return true
	}
	return false
}
