package service

import (
	"sort"

	"github.com/civiform/civiform-go/internal/model"
)

// ReferencingPrograms lists the programs that include a question,
// split by which version the program belongs to.
type ReferencingPrograms struct {
	ActivePrograms []*model.ProgramDefinition
	DraftPrograms  []*model.ProgramDefinition
}

// IsEmpty reports whether no program references the question.
func (r ReferencingPrograms) IsEmpty() bool {
	return len(r.ActivePrograms) == 0 && len(r.DraftPrograms) == 0
}

// ActiveAndDraftQuestions is a point-in-time view over the active and
// draft versions, keyed by admin name. Everything is computed at
// construction; the view never goes back to the database.
type ActiveAndDraftQuestions struct {
	activeByName map[string]*model.QuestionDefinition
	draftByName  map[string]*model.QuestionDefinition

	deletionStatusByName map[string]model.DeletionStatus
	referencingByName    map[string]ReferencingPrograms

	draftHasEdits bool
}

// NewActiveAndDraftQuestions builds the view from both versions'
// questions and programs. draft and its slices may be empty when no
// draft exists yet.
func NewActiveAndDraftQuestions(
	draft *model.Version,
	activeQuestions, draftQuestions []*model.QuestionDefinition,
	activePrograms, draftPrograms []*model.ProgramDefinition,
) *ActiveAndDraftQuestions {
	v := &ActiveAndDraftQuestions{
		activeByName:         map[string]*model.QuestionDefinition{},
		draftByName:          map[string]*model.QuestionDefinition{},
		deletionStatusByName: map[string]model.DeletionStatus{},
		referencingByName:    map[string]ReferencingPrograms{},
	}
	for _, q := range activeQuestions {
		v.activeByName[q.Name] = q
	}
	for _, q := range draftQuestions {
		v.draftByName[q.Name] = q
	}
	v.draftHasEdits = len(draftQuestions) > 0 || len(draftPrograms) > 0

	for _, name := range v.Names() {
		// The active and draft revisions of one question carry distinct
		// ids, so program references are checked against both.
		v.referencingByName[name] = referencingPrograms(
			v.idsForName(name), activePrograms, draftPrograms)
		v.deletionStatusByName[name] = v.computeDeletionStatus(name, draft)
	}
	return v
}

// Names returns every question name present in either version, sorted.
func (v *ActiveAndDraftQuestions) Names() []string {
	seen := map[string]bool{}
	var names []string
	for name := range v.activeByName {
		seen[name] = true
		names = append(names, name)
	}
	for name := range v.draftByName {
		if !seen[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// ActiveDefinition returns the question's definition in the active
// version, if it exists there.
func (v *ActiveAndDraftQuestions) ActiveDefinition(name string) (*model.QuestionDefinition, bool) {
	q, ok := v.activeByName[name]
	return q, ok
}

// DraftDefinition returns the question's edited definition in the
// draft version, if one exists.
func (v *ActiveAndDraftQuestions) DraftDefinition(name string) (*model.QuestionDefinition, bool) {
	q, ok := v.draftByName[name]
	return q, ok
}

// DeletionStatus returns the question's computed deletion eligibility.
func (v *ActiveAndDraftQuestions) DeletionStatus(name string) model.DeletionStatus {
	if status, ok := v.deletionStatusByName[name]; ok {
		return status
	}
	return model.DeletionStatusNotActive
}

// ReferencingPrograms returns the programs that include the question.
func (v *ActiveAndDraftQuestions) ReferencingPrograms(name string) ReferencingPrograms {
	return v.referencingByName[name]
}

// DraftVersionHasAnyChanges reports whether the draft contains edited
// questions or programs.
func (v *ActiveAndDraftQuestions) DraftVersionHasAnyChanges() bool {
	return v.draftHasEdits
}

func (v *ActiveAndDraftQuestions) idsForName(name string) []int64 {
	var ids []int64
	if q, ok := v.activeByName[name]; ok {
		ids = append(ids, q.ID)
	}
	if q, ok := v.draftByName[name]; ok && (len(ids) == 0 || q.ID != ids[0]) {
		ids = append(ids, q.ID)
	}
	return ids
}

func (v *ActiveAndDraftQuestions) computeDeletionStatus(name string, draft *model.Version) model.DeletionStatus {
	// A standing tombstone wins over references picked up afterwards.
	if draft != nil && draft.QuestionIsTombstoned(name) {
		return model.DeletionStatusPendingDeletion
	}
	if !v.referencingByName[name].IsEmpty() {
		return model.DeletionStatusNotDeletable
	}
	if _, active := v.activeByName[name]; !active {
		return model.DeletionStatusNotActive
	}
	return model.DeletionStatusDeletable
}

func referencingPrograms(questionIDs []int64, activePrograms, draftPrograms []*model.ProgramDefinition) ReferencingPrograms {
	var refs ReferencingPrograms
	hasAny := func(p *model.ProgramDefinition) bool {
		for _, id := range questionIDs {
			if p.HasQuestion(id) {
				return true
			}
		}
		return false
	}
	for _, p := range activePrograms {
		if hasAny(p) {
			refs.ActivePrograms = append(refs.ActivePrograms, p)
		}
	}
	for _, p := range draftPrograms {
		if hasAny(p) {
			refs.DraftPrograms = append(refs.DraftPrograms, p)
		}
	}
	return refs
}
