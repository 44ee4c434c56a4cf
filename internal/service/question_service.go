package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/civiform/civiform-go/internal/model"
	"github.com/civiform/civiform-go/internal/repository"
)

// QuestionService is the write path for question definitions. Every
// mutation lands in the draft version; the active version only changes
// when a draft is published.
type QuestionService struct {
	questionRepo repository.QuestionRepo
	versionRepo  repository.VersionRepo
	programRepo  repository.ProgramRepo
	broadcaster  Broadcaster
	logger       *slog.Logger
}

// NewQuestionService creates a new question service
func NewQuestionService(
	questionRepo repository.QuestionRepo,
	versionRepo repository.VersionRepo,
	programRepo repository.ProgramRepo,
	broadcaster Broadcaster,
	logger *slog.Logger,
) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		versionRepo:  versionRepo,
		programRepo:  programRepo,
		broadcaster:  broadcaster,
		logger:       logger,
	}
}

// snapshot is the loaded content of the active and draft versions.
type snapshot struct {
	active, draft            *model.Version
	activeQs, draftQs        []*model.QuestionDefinition
	activePrograms, draftPms []*model.ProgramDefinition
}

func (s *QuestionService) loadSnapshot(ctx context.Context) (*snapshot, error) {
	active, err := s.versionRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	draft, err := s.versionRepo.GetDraft(ctx)
	if err != nil {
		return nil, err
	}

	snap := &snapshot{active: active, draft: draft}
	if active != nil {
		if snap.activeQs, err = s.questionRepo.GetByIDs(ctx, active.QuestionIDs); err != nil {
			return nil, err
		}
		if snap.activePrograms, err = s.programRepo.GetByIDs(ctx, active.ProgramIDs); err != nil {
			return nil, err
		}
	}
	if draft != nil {
		if snap.draftQs, err = s.questionRepo.GetByIDs(ctx, draft.QuestionIDs); err != nil {
			return nil, err
		}
		if snap.draftPms, err = s.programRepo.GetByIDs(ctx, draft.ProgramIDs); err != nil {
			return nil, err
		}
	}
	return snap, nil
}

// ReadOnly snapshots the current active and draft versions.
func (s *QuestionService) ReadOnly(ctx context.Context) (ReadOnlyQuestionService, error) {
	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return NewCurrentQuestionService(snap.draft, snap.activeQs, snap.draftQs, snap.activePrograms, snap.draftPms, s.logger), nil
}

// ReadOnlyVersioned snapshots one historical version by id.
func (s *QuestionService) ReadOnlyVersioned(ctx context.Context, versionID int64) (ReadOnlyQuestionService, error) {
	version, err := s.versionRepo.GetByID(ctx, versionID)
	if err != nil {
		return nil, err
	}
	if version == nil {
		return nil, fmt.Errorf("version not found for id: %d", versionID)
	}
	questions, err := s.questionRepo.GetByIDs(ctx, version.QuestionIDs)
	if err != nil {
		return nil, err
	}
	return NewVersionedQuestionService(version, questions, s.logger), nil
}

// Create validates and persists a brand-new question into the draft
// version. Content problems come back as validation errors, never as
// the error return.
func (s *QuestionService) Create(ctx context.Context, question *model.QuestionDefinition) (*model.QuestionDefinition, []model.ValidationError, error) {
	errs := question.Validate()

	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, nil, err
	}
	errs = append(errs, s.conflictErrors(question, snap, "")...)
	if len(errs) > 0 {
		return nil, errs, nil
	}

	created, err := s.questionRepo.Create(ctx, question)
	if err != nil {
		return nil, nil, err
	}

	// First edit materializes the draft version
	draft, err := s.versionRepo.GetDraftOrCreate(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := s.versionRepo.AddQuestion(ctx, draft.ID, created.ID); err != nil {
		return nil, nil, err
	}

	s.broadcaster.BroadcastDraftEvent(model.DraftEvent{
		Type:      model.DraftEventQuestionCreated,
		VersionID: draft.ID,
		Name:      created.Name,
		At:        time.Now().UTC(),
	})
	return created, nil, nil
}

// Update edits a question. The admin identity fields (name, enumerator
// reference and type) are immutable; an edit that changes any of them
// fails with every mismatch listed. The edit lands as the question's
// draft revision, created on first edit and updated in place after.
func (s *QuestionService) Update(ctx context.Context, question *model.QuestionDefinition) (*model.QuestionDefinition, []model.ValidationError, error) {
	if !question.IsPersisted() {
		return nil, nil, &QuestionNotFoundError{ID: question.ID}
	}

	existing, err := s.questionRepo.GetByID(ctx, question.ID)
	if err != nil {
		return nil, nil, err
	}
	if existing == nil {
		return nil, nil, &QuestionNotFoundError{ID: question.ID}
	}

	if reasons := immutableFieldMismatches(existing, question); len(reasons) > 0 {
		return nil, nil, &InvalidUpdateError{Reasons: reasons}
	}

	if errs := question.Validate(); len(errs) > 0 {
		return nil, errs, nil
	}

	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, nil, err
	}

	draft, err := s.versionRepo.GetDraftOrCreate(ctx)
	if err != nil {
		return nil, nil, err
	}

	// Edit the existing draft revision in place when there is one
	if draftRevision := questionByName(snap.draftQs, existing.Name); draftRevision != nil {
		question.ID = draftRevision.ID
		if err := s.questionRepo.Update(ctx, question); err != nil {
			return nil, nil, err
		}
		s.broadcastUpdated(draft.ID, question.Name)
		return question, nil, nil
	}

	// Otherwise fork the active revision into a new draft row
	question.ID = 0
	created, err := s.questionRepo.Create(ctx, question)
	if err != nil {
		return nil, nil, err
	}
	if err := s.versionRepo.AddQuestion(ctx, draft.ID, created.ID); err != nil {
		return nil, nil, err
	}
	if err := s.repointReferences(ctx, snap, draft.ID, existing.ID, created.ID); err != nil {
		return nil, nil, err
	}

	s.broadcastUpdated(draft.ID, created.Name)
	return created, nil, nil
}

// Archive tombstones a question in the draft so publishing removes it.
func (s *QuestionService) Archive(ctx context.Context, questionID int64) error {
	question, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return err
	}
	if question == nil {
		return &QuestionNotFoundError{ID: questionID}
	}

	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return err
	}
	view := NewActiveAndDraftQuestions(snap.draft, snap.activeQs, snap.draftQs, snap.activePrograms, snap.draftPms)

	switch view.DeletionStatus(question.Name) {
	case model.DeletionStatusNotDeletable:
		return &InvalidUpdateError{Reasons: []string{
			fmt.Sprintf("question %q is still referenced by a program", question.Name),
		}}
	case model.DeletionStatusPendingDeletion:
		return &InvalidUpdateError{Reasons: []string{
			fmt.Sprintf("question %q is already archived", question.Name),
		}}
	case model.DeletionStatusNotActive:
		// A never-published question has nothing to delete from the
		// active version; discarding its draft is the right move.
		return &InvalidUpdateError{Reasons: []string{
			fmt.Sprintf("question %q has no published revision to archive", question.Name),
		}}
	}

	draft, err := s.versionRepo.GetDraftOrCreate(ctx)
	if err != nil {
		return err
	}
	if err := s.versionRepo.AddTombstone(ctx, draft.ID, question.Name); err != nil {
		return err
	}

	s.broadcaster.BroadcastDraftEvent(model.DraftEvent{
		Type:      model.DraftEventQuestionArchived,
		VersionID: draft.ID,
		Name:      question.Name,
		At:        time.Now().UTC(),
	})
	return nil
}

// Restore lifts a question's tombstone out of the draft.
func (s *QuestionService) Restore(ctx context.Context, questionID int64) error {
	question, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return err
	}
	if question == nil {
		return &QuestionNotFoundError{ID: questionID}
	}

	draft, err := s.versionRepo.GetDraft(ctx)
	if err != nil {
		return err
	}
	if draft == nil || !draft.QuestionIsTombstoned(question.Name) {
		return &InvalidUpdateError{Reasons: []string{
			fmt.Sprintf("question %q is not archived", question.Name),
		}}
	}

	if err := s.versionRepo.RemoveTombstone(ctx, draft.ID, question.Name); err != nil {
		return err
	}

	s.broadcaster.BroadcastDraftEvent(model.DraftEvent{
		Type:      model.DraftEventQuestionRestored,
		VersionID: draft.ID,
		Name:      question.Name,
		At:        time.Now().UTC(),
	})
	return nil
}

// DiscardDraft throws away a question's draft revision, reverting it
// to its active revision. A question that has never been published has
// nothing to revert to, so its first revision cannot be discarded.
func (s *QuestionService) DiscardDraft(ctx context.Context, questionID int64) error {
	question, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return err
	}
	if question == nil {
		return &QuestionNotFoundError{ID: questionID}
	}

	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return err
	}
	if snap.draft == nil || !snap.draft.HasQuestion(questionID) {
		return &InvalidUpdateError{Reasons: []string{
			fmt.Sprintf("question %q has no draft revision", question.Name),
		}}
	}

	activeRevision := questionByName(snap.activeQs, question.Name)
	if activeRevision == nil {
		return &InvalidUpdateError{Reasons: []string{
			fmt.Sprintf("question %q has no published revision to revert to", question.Name),
		}}
	}

	if err := s.versionRepo.RemoveQuestion(ctx, snap.draft.ID, questionID); err != nil {
		return err
	}
	if err := s.questionRepo.Delete(ctx, questionID); err != nil {
		return err
	}
	// Draft programs that picked up the draft revision go back to the
	// active one.
	if err := s.repointReferences(ctx, snap, snap.draft.ID, questionID, activeRevision.ID); err != nil {
		return err
	}

	s.broadcaster.BroadcastDraftEvent(model.DraftEvent{
		Type:      model.DraftEventQuestionDiscarded,
		VersionID: snap.draft.ID,
		Name:      question.Name,
		At:        time.Now().UTC(),
	})
	return nil
}

func (s *QuestionService) broadcastUpdated(versionID int64, name string) {
	s.broadcaster.BroadcastDraftEvent(model.DraftEvent{
		Type:      model.DraftEventQuestionUpdated,
		VersionID: versionID,
		Name:      name,
		At:        time.Now().UTC(),
	})
}

// repointReferences moves every draft-version reference from one
// question revision to another: program blocks and predicates, plus
// repeated questions pointing at an enumerator.
func (s *QuestionService) repointReferences(ctx context.Context, snap *snapshot, draftVersionID, fromID, toID int64) error {
	for _, program := range snap.draftPms {
		if program.ReplaceQuestion(fromID, toID) > 0 {
			if err := s.programRepo.Update(ctx, program); err != nil {
				return err
			}
		}
	}
	for _, child := range snap.draftQs {
		if child.EnumeratorID != nil && *child.EnumeratorID == fromID && child.ID != toID {
			child.EnumeratorID = &toID
			if err := s.questionRepo.Update(ctx, child); err != nil {
				return err
			}
		}
	}
	return nil
}

// conflictErrors reports path collisions: two questions whose answers
// would land at the same applicant-data location. The path segment is
// derived from the admin name, so duplicate names collide too.
func (s *QuestionService) conflictErrors(question *model.QuestionDefinition, snap *snapshot, ignoreName string) []model.ValidationError {
	var errs []model.ValidationError
	seen := map[string]bool{}
	for _, existing := range append(append([]*model.QuestionDefinition{}, snap.activeQs...), snap.draftQs...) {
		if existing.Name == ignoreName || seen[existing.Name] {
			continue
		}
		seen[existing.Name] = true
		if int64PtrsEqual(existing.EnumeratorID, question.EnumeratorID) &&
			existing.PathSegment() == question.PathSegment() {
			errs = append(errs, model.ValidationErrorf(
				"a question with admin name %q already occupies path segment %q", existing.Name, existing.PathSegment()))
		}
	}
	return errs
}

// immutableFieldMismatches lists every identity field an update tries
// to change. All mismatches are reported together so the admin fixes
// them in one pass.
func immutableFieldMismatches(existing, updated *model.QuestionDefinition) []string {
	var reasons []string
	if existing.Name != updated.Name {
		reasons = append(reasons, fmt.Sprintf("name cannot change (%q to %q)", existing.Name, updated.Name))
	}
	if !int64PtrsEqual(existing.EnumeratorID, updated.EnumeratorID) {
		reasons = append(reasons, fmt.Sprintf("enumerator id cannot change (%s to %s)",
			formatInt64Ptr(existing.EnumeratorID), formatInt64Ptr(updated.EnumeratorID)))
	}
	if existing.PathSegment() != updated.PathSegment() {
		reasons = append(reasons, fmt.Sprintf("path segment cannot change (%q to %q)",
			existing.PathSegment(), updated.PathSegment()))
	}
	if existing.Type != updated.Type {
		reasons = append(reasons, fmt.Sprintf("question type cannot change (%s to %s)", existing.Type, updated.Type))
	}
	return reasons
}

func questionByName(questions []*model.QuestionDefinition, name string) *model.QuestionDefinition {
	for _, q := range questions {
		if q.Name == name {
			return q
		}
	}
	return nil
}

func int64PtrsEqual(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func formatInt64Ptr(p *int64) string {
	if p == nil {
		return "none"
	}
	return fmt.Sprintf("%d", *p)
}
