package applicant

import "github.com/civiform/civiform-go/internal/model"

// NumberQuestion is the typed reader for NUMBER answers.
type NumberQuestion struct {
	predicates model.NumberValidationPredicates
	value      int64
	answered   bool
}

// Number returns the NUMBER wrapper, failing fast on a type mismatch.
func (q *ApplicantQuestion) Number() (*NumberQuestion, error) {
	if err := q.requireType(model.QuestionTypeNumber); err != nil {
		return nil, err
	}
	predicates, _ := q.Definition.Predicates.(model.NumberValidationPredicates)
	value, answered := q.Data.ReadLong(q.ScalarPath(model.ScalarNumber))
	return &NumberQuestion{predicates: predicates, value: value, answered: answered}, nil
}

// Value returns the stored number, 0 when unanswered.
func (q *NumberQuestion) Value() int64 { return q.value }

func (q *NumberQuestion) IsAnswered() bool { return q.answered }

func (q *NumberQuestion) QuestionErrors() []model.ValidationError {
	if !q.answered {
		return nil
	}
	var errs []model.ValidationError
	if q.predicates.Min != nil && q.value < *q.predicates.Min {
		errs = append(errs, model.ValidationErrorf("must be at least %d", *q.predicates.Min))
	}
	if q.predicates.Max != nil && q.value > *q.predicates.Max {
		errs = append(errs, model.ValidationErrorf("must be at most %d", *q.predicates.Max))
	}
	return errs
}

func (q *NumberQuestion) TypeErrors() []model.ValidationError {
	if q.answered && q.value < 0 {
		return []model.ValidationError{{Message: "must be a positive number"}}
	}
	return nil
}
