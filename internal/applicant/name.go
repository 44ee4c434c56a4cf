package applicant

import "github.com/civiform/civiform-go/internal/model"

// NameQuestion is the typed reader for NAME answers.
type NameQuestion struct {
	first  string
	middle string
	last   string
	suffix string

	hasFirst  bool
	hasMiddle bool
	hasLast   bool
	hasSuffix bool
}

// Name returns the NAME wrapper, failing fast on a type mismatch.
func (q *ApplicantQuestion) Name() (*NameQuestion, error) {
	if err := q.requireType(model.QuestionTypeName); err != nil {
		return nil, err
	}
	n := &NameQuestion{}
	n.first, n.hasFirst = q.Data.ReadString(q.ScalarPath(model.ScalarFirstName))
	n.middle, n.hasMiddle = q.Data.ReadString(q.ScalarPath(model.ScalarMiddleName))
	n.last, n.hasLast = q.Data.ReadString(q.ScalarPath(model.ScalarLastName))
	n.suffix, n.hasSuffix = q.Data.ReadString(q.ScalarPath(model.ScalarNameSuffix))
	return n, nil
}

func (q *NameQuestion) First() string  { return q.first }
func (q *NameQuestion) Middle() string { return q.middle }
func (q *NameQuestion) Last() string   { return q.last }
func (q *NameQuestion) Suffix() string { return q.suffix }

// IsAnswered is true when any name part is present, so a partially
// filled name surfaces required errors instead of looking blank.
func (q *NameQuestion) IsAnswered() bool {
	return q.hasFirst || q.hasMiddle || q.hasLast || q.hasSuffix
}

func (q *NameQuestion) QuestionErrors() []model.ValidationError {
	if !q.IsAnswered() {
		return nil
	}
	var errs []model.ValidationError
	if q.first == "" {
		errs = append(errs, model.ValidationError{Message: "first name is required"})
	}
	if q.last == "" {
		errs = append(errs, model.ValidationError{Message: "last name is required"})
	}
	return errs
}

func (q *NameQuestion) TypeErrors() []model.ValidationError { return nil }
