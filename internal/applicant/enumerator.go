package applicant

import (
	"strings"

	"github.com/civiform/civiform-go/internal/model"
)

// EnumeratorQuestion is the typed reader for ENUMERATOR answers: the
// list of repeated-entity names the applicant declared, e.g. one entry
// per household member.
type EnumeratorQuestion struct {
	definition  *model.QuestionDefinition
	predicates  model.EnumeratorValidationPredicates
	entityNames []string
	answered    bool
	locale      string
}

// Enumerator returns the ENUMERATOR wrapper, failing fast on a type
// mismatch.
func (q *ApplicantQuestion) Enumerator() (*EnumeratorQuestion, error) {
	if err := q.requireType(model.QuestionTypeEnumerator); err != nil {
		return nil, err
	}
	predicates, _ := q.Definition.Predicates.(model.EnumeratorValidationPredicates)
	names := q.Data.ReadRepeatedEntities(q.Path())
	return &EnumeratorQuestion{
		definition:  q.Definition,
		predicates:  predicates,
		entityNames: names,
		answered:    len(names) > 0,
		locale:      q.Data.PreferredLocale,
	}, nil
}

// EntityNames returns the declared entity names in stored order.
func (q *EnumeratorQuestion) EntityNames() []string {
	return append([]string(nil), q.entityNames...)
}

// EntityType returns the localized repeated-entity label, e.g.
// "household member".
func (q *EnumeratorQuestion) EntityType() string {
	return q.definition.EntityType.GetOrDefault(q.locale)
}

// RepeatedEntities materializes the entity contexts for repeated
// questions under this enumerator.
func (q *EnumeratorQuestion) RepeatedEntities(parent *model.RepeatedEntity) []*model.RepeatedEntity {
	return model.RepeatedEntitiesFor(q.definition, parent, q.entityNames)
}

func (q *EnumeratorQuestion) IsAnswered() bool { return q.answered }

func (q *EnumeratorQuestion) QuestionErrors() []model.ValidationError {
	var errs []model.ValidationError
	seen := make(map[string]bool, len(q.entityNames))
	for _, name := range q.entityNames {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			errs = append(errs, model.ValidationError{Message: "entity name is required"})
			continue
		}
		if seen[trimmed] {
			errs = append(errs, model.ValidationErrorf("duplicate entity name: %s", trimmed))
		}
		seen[trimmed] = true
	}
	if q.predicates.MinEntities != nil && len(q.entityNames) < *q.predicates.MinEntities {
		errs = append(errs, model.ValidationErrorf("must add at least %d entries", *q.predicates.MinEntities))
	}
	if q.predicates.MaxEntities != nil && len(q.entityNames) > *q.predicates.MaxEntities {
		errs = append(errs, model.ValidationErrorf("must add at most %d entries", *q.predicates.MaxEntities))
	}
	return errs
}

func (q *EnumeratorQuestion) TypeErrors() []model.ValidationError { return nil }
