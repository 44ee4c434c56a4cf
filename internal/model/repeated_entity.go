package model

import "strings"

// RepeatedEntity is one concrete instance produced by an enumerator
// answer: the nth entity ("Alice", say) of the enumerator question,
// possibly nested under another repeated entity. It contextualizes
// repeated questions so each instance reads and writes its own slice of
// the answer document.
type RepeatedEntity struct {
	Enumerator *QuestionDefinition
	Parent     *RepeatedEntity
	EntityName string
	Index      int
}

// ContextualizedPath returns the instantiated path of this entity:
// the enumerator's contextualized path with this entity's index
// replacing the array marker.
func (r *RepeatedEntity) ContextualizedPath(defaultRoot Path) Path {
	return r.Enumerator.ContextualizedPath(r.Parent, defaultRoot).AtIndex(r.Index)
}

// SubstitutePlaceholder replaces the repeated-entity placeholder in
// localized text with this entity's name.
func (r *RepeatedEntity) SubstitutePlaceholder(text string) string {
	return strings.ReplaceAll(text, RepeatedEntityPlaceholder, r.EntityName)
}

// RepeatedEntitiesFor builds the entity list for one enumerator from
// the applicant's stored entity names, preserving stored order.
func RepeatedEntitiesFor(enumerator *QuestionDefinition, parent *RepeatedEntity, entityNames []string) []*RepeatedEntity {
	out := make([]*RepeatedEntity, len(entityNames))
	for i, name := range entityNames {
		out[i] = &RepeatedEntity{
			Enumerator: enumerator,
			Parent:     parent,
			EntityName: name,
			Index:      i,
		}
	}
	return out
}
