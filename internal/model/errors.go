package model

import "fmt"

// UnsupportedQuestionTypeError indicates a discriminator outside the
// fixed QuestionType enumeration, or a type missing from a static
// lookup table. It always signals a programming error, not bad input.
type UnsupportedQuestionTypeError struct {
	Type string
}

func (e *UnsupportedQuestionTypeError) Error() string {
	return fmt.Sprintf("unsupported question type: %s", e.Type)
}

// InvalidQuestionTypeError indicates an operation that is meaningless
// for the given type, e.g. requesting leaf scalars for an enumerator.
type InvalidQuestionTypeError struct {
	Type QuestionType
}

func (e *InvalidQuestionTypeError) Error() string {
	return fmt.Sprintf("invalid question type: %s", e.Type)
}

// WrongQuestionTypeError indicates a typed answer wrapper was
// constructed for a question of a different type.
type WrongQuestionTypeError struct {
	Expected QuestionType
	Actual   QuestionType
}

func (e *WrongQuestionTypeError) Error() string {
	return fmt.Sprintf("question is of type %s, expected %s", e.Actual, e.Expected)
}

// ValidationError is a single user-correctable problem with a
// definition or an answer. Validation never throws; callers collect
// every error so a UI can show all of them at once.
type ValidationError struct {
	Message string `json:"message"`
}

func (e ValidationError) Error() string { return e.Message }

// ValidationErrorf builds a ValidationError from a format string.
func ValidationErrorf(format string, args ...any) ValidationError {
	return ValidationError{Message: fmt.Sprintf(format, args...)}
}

// HasValidationError reports whether errs contains an error whose
// message equals msg. Test helper used across packages.
func HasValidationError(errs []ValidationError, msg string) bool {
	for _, e := range errs {
		if e.Message == msg {
			return true
		}
	}
	return false
}
