package applicant

import "github.com/civiform/civiform-go/internal/model"

// MapQuestion is the typed reader for MAP answers: the location keys
// the applicant selected from the question's configured map layer.
type MapQuestion struct {
	predicates model.MapValidationPredicates
	selections []string
	answered   bool
}

// MapSelections returns the MAP wrapper, failing fast on a type
// mismatch.
func (q *ApplicantQuestion) MapSelections() (*MapQuestion, error) {
	if err := q.requireType(model.QuestionTypeMap); err != nil {
		return nil, err
	}
	predicates, _ := q.Definition.Predicates.(model.MapValidationPredicates)
	selections, answered := q.Data.ReadStringList(q.ScalarPath(model.ScalarSelections))
	return &MapQuestion{
		predicates: predicates,
		selections: selections,
		answered:   answered && len(selections) > 0,
	}, nil
}

// Selections returns the selected location keys.
func (q *MapQuestion) Selections() []string {
	return append([]string(nil), q.selections...)
}

func (q *MapQuestion) IsAnswered() bool { return q.answered }

func (q *MapQuestion) QuestionErrors() []model.ValidationError {
	if !q.answered {
		return nil
	}
	if q.predicates.MaxLocationSelections != nil && len(q.selections) > *q.predicates.MaxLocationSelections {
		return []model.ValidationError{
			model.ValidationErrorf("please select at most %d locations", *q.predicates.MaxLocationSelections),
		}
	}
	return nil
}

func (q *MapQuestion) TypeErrors() []model.ValidationError { return nil }
