package applicant

import (
	"time"

	"github.com/civiform/civiform-go/internal/model"
)

// DateQuestion is the typed reader for DATE answers.
type DateQuestion struct {
	value     time.Time
	answered  bool
	malformed bool
}

// Date returns the DATE wrapper, failing fast on a type mismatch.
func (q *ApplicantQuestion) Date() (*DateQuestion, error) {
	if err := q.requireType(model.QuestionTypeDate); err != nil {
		return nil, err
	}
	path := q.ScalarPath(model.ScalarDate)
	raw, answered := q.Data.ReadString(path)
	value, parsed := q.Data.ReadDate(path)
	return &DateQuestion{
		value:     value,
		answered:  answered,
		malformed: answered && raw != "" && !parsed,
	}, nil
}

// Value returns the stored date, the zero time when unanswered.
func (q *DateQuestion) Value() time.Time { return q.value }

func (q *DateQuestion) IsAnswered() bool { return q.answered }

func (q *DateQuestion) QuestionErrors() []model.ValidationError { return nil }

func (q *DateQuestion) TypeErrors() []model.ValidationError {
	if q.malformed {
		return []model.ValidationError{{Message: "please enter a date in the format YYYY-MM-DD"}}
	}
	return nil
}
