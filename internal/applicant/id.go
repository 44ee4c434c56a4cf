package applicant

import (
	"regexp"

	"github.com/civiform/civiform-go/internal/model"
)

var idDigitsOnly = regexp.MustCompile(`^\d+$`)

// IDQuestion is the typed reader for ID answers (case numbers, SSN-like
// identifiers): digit-only strings with optional length bounds.
type IDQuestion struct {
	predicates model.IDValidationPredicates
	value      string
	answered   bool
}

// IDValue returns the ID wrapper, failing fast on a type mismatch.
func (q *ApplicantQuestion) IDValue() (*IDQuestion, error) {
	if err := q.requireType(model.QuestionTypeID); err != nil {
		return nil, err
	}
	predicates, _ := q.Definition.Predicates.(model.IDValidationPredicates)
	value, answered := q.Data.ReadString(q.ScalarPath(model.ScalarID))
	return &IDQuestion{predicates: predicates, value: value, answered: answered}, nil
}

// Value returns the stored identifier, "" when unanswered.
func (q *IDQuestion) Value() string { return q.value }

func (q *IDQuestion) IsAnswered() bool { return q.answered }

func (q *IDQuestion) QuestionErrors() []model.ValidationError {
	if !q.answered {
		return nil
	}
	var errs []model.ValidationError
	length := len(q.value)
	if q.predicates.MinLength != nil && length < *q.predicates.MinLength {
		errs = append(errs, model.ValidationErrorf("must contain at least %d characters", *q.predicates.MinLength))
	}
	if q.predicates.MaxLength != nil && length > *q.predicates.MaxLength {
		errs = append(errs, model.ValidationErrorf("must contain at most %d characters", *q.predicates.MaxLength))
	}
	return errs
}

func (q *IDQuestion) TypeErrors() []model.ValidationError {
	if !q.answered {
		return nil
	}
	if !idDigitsOnly.MatchString(q.value) {
		return []model.ValidationError{{Message: "must contain only numbers"}}
	}
	return nil
}
