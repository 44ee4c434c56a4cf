package applicant

import "github.com/civiform/civiform-go/internal/model"

// TextQuestion is the typed reader for TEXT answers. Values are read
// once at construction; a wrapper is only valid for the lifetime of one
// render or validation pass.
type TextQuestion struct {
	predicates model.TextValidationPredicates
	value      string
	answered   bool
}

// Text returns the TEXT wrapper, failing fast when the underlying
// definition has a different type.
func (q *ApplicantQuestion) Text() (*TextQuestion, error) {
	if err := q.requireType(model.QuestionTypeText); err != nil {
		return nil, err
	}
	predicates, _ := q.Definition.Predicates.(model.TextValidationPredicates)
	value, answered := q.Data.ReadString(q.ScalarPath(model.ScalarText))
	return &TextQuestion{predicates: predicates, value: value, answered: answered}, nil
}

// Value returns the stored text, "" when unanswered.
func (q *TextQuestion) Value() string { return q.value }

func (q *TextQuestion) IsAnswered() bool { return q.answered }

func (q *TextQuestion) QuestionErrors() []model.ValidationError {
	if !q.answered {
		return nil
	}
	var errs []model.ValidationError
	length := len([]rune(q.value))
	if q.predicates.MinLength != nil && length < *q.predicates.MinLength {
		errs = append(errs, model.ValidationErrorf("must contain at least %d characters", *q.predicates.MinLength))
	}
	if q.predicates.MaxLength != nil && length > *q.predicates.MaxLength {
		errs = append(errs, model.ValidationErrorf("must contain at most %d characters", *q.predicates.MaxLength))
	}
	return errs
}

func (q *TextQuestion) TypeErrors() []model.ValidationError { return nil }
