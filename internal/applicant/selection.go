package applicant

import "github.com/civiform/civiform-go/internal/model"

// MultiSelectQuestion is the typed reader for CHECKBOX answers: a list
// of selected option ids resolved against the definition's option list.
type MultiSelectQuestion struct {
	definition *model.QuestionDefinition
	predicates model.MultiOptionValidationPredicates
	selections []int64
	answered   bool
	locale     string
}

// MultiSelect returns the CHECKBOX wrapper, failing fast on a type
// mismatch.
func (q *ApplicantQuestion) MultiSelect() (*MultiSelectQuestion, error) {
	if err := q.requireType(model.QuestionTypeCheckbox); err != nil {
		return nil, err
	}
	predicates, _ := q.Definition.Predicates.(model.MultiOptionValidationPredicates)
	selections, answered := q.Data.ReadLongList(q.ScalarPath(model.ScalarSelections))
	return &MultiSelectQuestion{
		definition: q.Definition,
		predicates: predicates,
		selections: selections,
		answered:   answered && len(selections) > 0,
		locale:     q.Data.PreferredLocale,
	}, nil
}

// SelectionIDs returns the raw stored option ids, including ids that no
// longer resolve against the definition.
func (q *MultiSelectQuestion) SelectionIDs() []int64 {
	return append([]int64(nil), q.selections...)
}

// SelectedOptions resolves the stored ids against the option list in
// the applicant's preferred locale. Ids whose option was deleted from
// the definition simply disappear from the result rather than erroring.
func (q *MultiSelectQuestion) SelectedOptions() []model.LocalizedQuestionOption {
	out := make([]model.LocalizedQuestionOption, 0, len(q.selections))
	for _, id := range q.selections {
		option, ok := q.definition.OptionByID(id)
		if !ok {
			continue
		}
		if localized, ok := option.Localize(q.locale); ok {
			out = append(out, localized)
		}
	}
	return out
}

func (q *MultiSelectQuestion) IsAnswered() bool { return q.answered }

func (q *MultiSelectQuestion) QuestionErrors() []model.ValidationError {
	if !q.answered {
		return nil
	}
	var errs []model.ValidationError
	count := len(q.selections)
	if q.predicates.MinChoicesRequired != nil && count < *q.predicates.MinChoicesRequired {
		errs = append(errs, model.ValidationErrorf("please select at least %d options", *q.predicates.MinChoicesRequired))
	}
	if q.predicates.MaxChoicesAllowed != nil && count > *q.predicates.MaxChoicesAllowed {
		errs = append(errs, model.ValidationErrorf("please select at most %d options", *q.predicates.MaxChoicesAllowed))
	}
	return errs
}

func (q *MultiSelectQuestion) TypeErrors() []model.ValidationError { return nil }

// SingleSelectQuestion is the typed reader for DROPDOWN and
// RADIO_BUTTON answers: exactly one selected option id.
type SingleSelectQuestion struct {
	definition *model.QuestionDefinition
	selection  int64
	answered   bool
	locale     string
}

// SingleSelect returns the DROPDOWN/RADIO_BUTTON wrapper, failing fast
// when the definition is not a single-select type.
func (q *ApplicantQuestion) SingleSelect() (*SingleSelectQuestion, error) {
	if err := q.requireType(model.QuestionTypeDropdown); err != nil {
		return nil, err
	}
	selection, answered := q.Data.ReadLong(q.ScalarPath(model.ScalarSelection))
	return &SingleSelectQuestion{
		definition: q.Definition,
		selection:  selection,
		answered:   answered,
		locale:     q.Data.PreferredLocale,
	}, nil
}

// SelectionID returns the stored option id.
func (q *SingleSelectQuestion) SelectionID() (int64, bool) {
	return q.selection, q.answered
}

// SelectedOption resolves the stored id in the preferred locale; a
// deleted option resolves to nothing.
func (q *SingleSelectQuestion) SelectedOption() (model.LocalizedQuestionOption, bool) {
	if !q.answered {
		return model.LocalizedQuestionOption{}, false
	}
	option, ok := q.definition.OptionByID(q.selection)
	if !ok {
		return model.LocalizedQuestionOption{}, false
	}
	return option.Localize(q.locale)
}

func (q *SingleSelectQuestion) IsAnswered() bool { return q.answered }

// QuestionErrors: single-select types hardcode exactly one required
// selection, so there are no configurable bounds to violate.
func (q *SingleSelectQuestion) QuestionErrors() []model.ValidationError { return nil }

func (q *SingleSelectQuestion) TypeErrors() []model.ValidationError { return nil }
