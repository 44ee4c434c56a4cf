package applicant

import (
	"regexp"

	"github.com/civiform/civiform-go/internal/model"
)

var phoneDigits = regexp.MustCompile(`[^0-9]`)

// PhoneQuestion is the typed reader for PHONE answers: a number plus a
// two-letter country code.
type PhoneQuestion struct {
	number      string
	countryCode string
	answered    bool
}

// Phone returns the PHONE wrapper, failing fast on a type mismatch.
func (q *ApplicantQuestion) Phone() (*PhoneQuestion, error) {
	if err := q.requireType(model.QuestionTypePhone); err != nil {
		return nil, err
	}
	number, hasNumber := q.Data.ReadString(q.ScalarPath(model.ScalarPhoneNumber))
	countryCode, hasCode := q.Data.ReadString(q.ScalarPath(model.ScalarCountryCode))
	return &PhoneQuestion{
		number:      number,
		countryCode: countryCode,
		answered:    hasNumber || hasCode,
	}, nil
}

// Number returns the stored phone number.
func (q *PhoneQuestion) Number() string { return q.number }

// CountryCode returns the stored country code.
func (q *PhoneQuestion) CountryCode() string { return q.countryCode }

func (q *PhoneQuestion) IsAnswered() bool { return q.answered }

func (q *PhoneQuestion) QuestionErrors() []model.ValidationError { return nil }

func (q *PhoneQuestion) TypeErrors() []model.ValidationError {
	if !q.answered {
		return nil
	}
	var errs []model.ValidationError
	digits := phoneDigits.ReplaceAllString(q.number, "")
	if len(digits) != 10 {
		errs = append(errs, model.ValidationError{Message: "phone number must contain 10 digits"})
	}
	if len(q.countryCode) != 2 {
		errs = append(errs, model.ValidationError{Message: "please select a country"})
	}
	return errs
}
