package applicant

import "github.com/civiform/civiform-go/internal/model"

// staticQuestion is the reader for STATIC content: never answered,
// never in error. It exists so dispatch stays exhaustive.
type staticQuestion struct{}

// Static returns the STATIC wrapper, failing fast on a type mismatch.
func (q *ApplicantQuestion) Static() (staticQuestion, error) {
	if err := q.requireType(model.QuestionTypeStatic); err != nil {
		return staticQuestion{}, err
	}
	return staticQuestion{}, nil
}

func (staticQuestion) IsAnswered() bool { return false }

func (staticQuestion) QuestionErrors() []model.ValidationError { return nil }

func (staticQuestion) TypeErrors() []model.ValidationError { return nil }
