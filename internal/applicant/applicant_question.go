package applicant

import (
	"time"

	"github.com/civiform/civiform-go/internal/model"
)

// ApplicantQuestion binds one question definition to one applicant's
// answer data, contextualized by the enclosing repeated entity when the
// question is repeated. It is the entry point for all typed reads and
// validation of a single answer.
type ApplicantQuestion struct {
	Definition *model.QuestionDefinition
	Data       *ApplicantData
	Entity     *model.RepeatedEntity
}

// NewApplicantQuestion binds a definition to an applicant's data.
// Entity may be nil for top-level questions.
func NewApplicantQuestion(def *model.QuestionDefinition, data *ApplicantData, entity *model.RepeatedEntity) *ApplicantQuestion {
	return &ApplicantQuestion{Definition: def, Data: data, Entity: entity}
}

// Path is where this question's answer lives for this applicant.
func (q *ApplicantQuestion) Path() model.Path {
	return q.Definition.ContextualizedPath(q.Entity, model.ApplicantRoot)
}

// ScalarPath addresses one typed leaf of the answer.
func (q *ApplicantQuestion) ScalarPath(s model.Scalar) model.Path {
	return q.Path().Join(s.Key())
}

// QuestionText returns the question text for the applicant's preferred
// locale with the repeated-entity name substituted in.
func (q *ApplicantQuestion) QuestionText() string {
	text := q.Definition.QuestionText.GetOrDefault(q.Data.PreferredLocale)
	if q.Entity != nil {
		text = q.Entity.SubstitutePlaceholder(text)
	}
	return text
}

// QuestionHelpText returns the help text for the preferred locale.
func (q *ApplicantQuestion) QuestionHelpText() string {
	text := q.Definition.QuestionHelpText.GetOrDefault(q.Data.PreferredLocale)
	if q.Entity != nil {
		text = q.Entity.SubstitutePlaceholder(text)
	}
	return text
}

// LastUpdated returns the answer's update metadata, if stamped.
func (q *ApplicantQuestion) LastUpdated() (time.Time, bool) {
	unix, ok := q.Data.ReadLong(q.ScalarPath(model.ScalarUpdatedAt))
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(unix, 0).UTC(), true
}

// answerReader is the common behavior of every typed wrapper.
type answerReader interface {
	// IsAnswered is true when any of the wrapper's scalar paths is
	// present; a partially filled composite answer still counts.
	IsAnswered() bool
	// QuestionErrors are violations of the admin-configured validation
	// predicates (length bounds, choice counts, PO-box rules, ...).
	QuestionErrors() []model.ValidationError
	// TypeErrors are problems inherent to the type regardless of admin
	// configuration, like a malformed ZIP code.
	TypeErrors() []model.ValidationError
}

// reader dispatches on the type discriminator; the switch is exhaustive
// over every QuestionType.
func (q *ApplicantQuestion) reader() answerReader {
	switch q.Definition.Type {
	case model.QuestionTypeAddress:
		r, _ := q.Address()
		return r
	case model.QuestionTypeCheckbox:
		r, _ := q.MultiSelect()
		return r
	case model.QuestionTypeCurrency:
		r, _ := q.Currency()
		return r
	case model.QuestionTypeDate:
		r, _ := q.Date()
		return r
	case model.QuestionTypeDropdown, model.QuestionTypeRadioButton:
		r, _ := q.SingleSelect()
		return r
	case model.QuestionTypeEmail:
		r, _ := q.Email()
		return r
	case model.QuestionTypeEnumerator:
		r, _ := q.Enumerator()
		return r
	case model.QuestionTypeFileUpload:
		r, _ := q.FileUpload()
		return r
	case model.QuestionTypeID:
		r, _ := q.IDValue()
		return r
	case model.QuestionTypeMap:
		r, _ := q.MapSelections()
		return r
	case model.QuestionTypeName:
		r, _ := q.Name()
		return r
	case model.QuestionTypeNumber:
		r, _ := q.Number()
		return r
	case model.QuestionTypePhone:
		r, _ := q.Phone()
		return r
	case model.QuestionTypeStatic:
		r, _ := q.Static()
		return r
	case model.QuestionTypeText:
		r, _ := q.Text()
		return r
	}
	// Unreachable for definitions built through NewQuestionDefinition.
	return staticQuestion{}
}

// IsAnswered reports whether any scalar path of the answer is present.
func (q *ApplicantQuestion) IsAnswered() bool {
	return q.reader().IsAnswered()
}

// QuestionErrors returns admin-predicate violations for the answer.
func (q *ApplicantQuestion) QuestionErrors() []model.ValidationError {
	return q.reader().QuestionErrors()
}

// TypeErrors returns format errors inherent to the question type.
func (q *ApplicantQuestion) TypeErrors() []model.ValidationError {
	return q.reader().TypeErrors()
}

// AllErrors combines predicate and type errors in one set.
func (q *ApplicantQuestion) AllErrors() []model.ValidationError {
	r := q.reader()
	return append(r.QuestionErrors(), r.TypeErrors()...)
}

func (q *ApplicantQuestion) requireType(expected model.QuestionType) error {
	actual := q.Definition.Type
	if actual == expected {
		return nil
	}
	// Dropdowns and radio buttons share the single-select wrapper.
	if expected == model.QuestionTypeDropdown && actual == model.QuestionTypeRadioButton {
		return nil
	}
	return &model.WrongQuestionTypeError{Expected: expected, Actual: actual}
}
