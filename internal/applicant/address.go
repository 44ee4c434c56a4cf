package applicant

import (
	"regexp"

	"github.com/civiform/civiform-go/internal/model"
)

var (
	zipShape  = regexp.MustCompile(`^\d{5}(?:-\d{4})?$`)
	poBoxLine = regexp.MustCompile(`(?i)(?:po|p\.o\.?)\s*box|post\s*office\s*box`)
)

// AddressQuestion is the typed reader for ADDRESS answers.
type AddressQuestion struct {
	predicates model.AddressValidationPredicates

	street string
	line2  string
	city   string
	state  string
	zip    string

	hasStreet bool
	hasLine2  bool
	hasCity   bool
	hasState  bool
	hasZip    bool
}

// Address returns the ADDRESS wrapper, failing fast on a type mismatch.
func (q *ApplicantQuestion) Address() (*AddressQuestion, error) {
	if err := q.requireType(model.QuestionTypeAddress); err != nil {
		return nil, err
	}
	predicates, _ := q.Definition.Predicates.(model.AddressValidationPredicates)
	a := &AddressQuestion{predicates: predicates}
	a.street, a.hasStreet = q.Data.ReadString(q.ScalarPath(model.ScalarStreet))
	a.line2, a.hasLine2 = q.Data.ReadString(q.ScalarPath(model.ScalarLine2))
	a.city, a.hasCity = q.Data.ReadString(q.ScalarPath(model.ScalarCity))
	a.state, a.hasState = q.Data.ReadString(q.ScalarPath(model.ScalarState))
	a.zip, a.hasZip = q.Data.ReadString(q.ScalarPath(model.ScalarZip))
	return a, nil
}

func (q *AddressQuestion) Street() string { return q.street }
func (q *AddressQuestion) Line2() string  { return q.line2 }
func (q *AddressQuestion) City() string   { return q.city }
func (q *AddressQuestion) State() string  { return q.state }
func (q *AddressQuestion) Zip() string    { return q.zip }

// IsAnswered is true when any address scalar is present; a partially
// filled address still counts as answered so the missing fields can be
// flagged individually.
func (q *AddressQuestion) IsAnswered() bool {
	return q.hasStreet || q.hasLine2 || q.hasCity || q.hasState || q.hasZip
}

func (q *AddressQuestion) QuestionErrors() []model.ValidationError {
	if !q.IsAnswered() || !q.predicates.DisallowPOBox {
		return nil
	}
	if poBoxLine.MatchString(q.street) || poBoxLine.MatchString(q.line2) {
		return []model.ValidationError{{Message: "PO Box addresses are not allowed"}}
	}
	return nil
}

func (q *AddressQuestion) TypeErrors() []model.ValidationError {
	if !q.IsAnswered() {
		return nil
	}
	var errs []model.ValidationError
	if q.street == "" {
		errs = append(errs, model.ValidationError{Message: "street is required"})
	}
	if q.city == "" {
		errs = append(errs, model.ValidationError{Message: "city is required"})
	}
	if len(q.state) != 2 {
		errs = append(errs, model.ValidationError{Message: "state is required"})
	}
	if !zipShape.MatchString(q.zip) {
		errs = append(errs, model.ValidationError{Message: "please enter a valid ZIP code"})
	}
	return errs
}
