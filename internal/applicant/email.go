package applicant

import (
	"regexp"

	"github.com/civiform/civiform-go/internal/model"
)

var emailShape = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// EmailQuestion is the typed reader for EMAIL answers.
type EmailQuestion struct {
	value    string
	answered bool
}

// Email returns the EMAIL wrapper, failing fast on a type mismatch.
func (q *ApplicantQuestion) Email() (*EmailQuestion, error) {
	if err := q.requireType(model.QuestionTypeEmail); err != nil {
		return nil, err
	}
	value, answered := q.Data.ReadString(q.ScalarPath(model.ScalarEmail))
	return &EmailQuestion{value: value, answered: answered}, nil
}

// Value returns the stored address, "" when unanswered.
func (q *EmailQuestion) Value() string { return q.value }

func (q *EmailQuestion) IsAnswered() bool { return q.answered }

func (q *EmailQuestion) QuestionErrors() []model.ValidationError { return nil }

func (q *EmailQuestion) TypeErrors() []model.ValidationError {
	if q.answered && !emailShape.MatchString(q.value) {
		return []model.ValidationError{{Message: "please enter a valid email address"}}
	}
	return nil
}
