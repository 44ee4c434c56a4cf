package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/civiform/civiform-go/internal/model"
	"github.com/civiform/civiform-go/internal/repository"
)

// ProgramService is the write path for program definitions and the
// owner of the publish pipeline. Like questions, program edits land in
// a draft revision forked from the active one.
type ProgramService struct {
	programRepo  repository.ProgramRepo
	questionRepo repository.QuestionRepo
	versionRepo  repository.VersionRepo
	broadcaster  Broadcaster
	logger       *slog.Logger
}

// NewProgramService creates a new program service
func NewProgramService(
	programRepo repository.ProgramRepo,
	questionRepo repository.QuestionRepo,
	versionRepo repository.VersionRepo,
	broadcaster Broadcaster,
	logger *slog.Logger,
) *ProgramService {
	return &ProgramService{
		programRepo:  programRepo,
		questionRepo: questionRepo,
		versionRepo:  versionRepo,
		broadcaster:  broadcaster,
		logger:       logger,
	}
}

// Create validates and persists a new program into the draft version.
func (s *ProgramService) Create(ctx context.Context, program *model.ProgramDefinition) (*model.ProgramDefinition, []model.ValidationError, error) {
	var errs []model.ValidationError
	if strings.TrimSpace(program.AdminName) == "" {
		errs = append(errs, model.ValidationError{Message: "program admin name cannot be blank"})
	}
	if program.LocalizedName.IsEmpty() {
		errs = append(errs, model.ValidationError{Message: "program display name cannot be blank"})
	}

	existing, err := s.programRepo.GetByAdminName(ctx, program.AdminName)
	if err != nil {
		return nil, nil, err
	}
	if len(existing) > 0 {
		errs = append(errs, model.ValidationErrorf("a program with admin name %q already exists", program.AdminName))
	}
	if len(errs) > 0 {
		return nil, errs, nil
	}

	program.CreatedAt = time.Now().UTC()
	created, err := s.programRepo.Create(ctx, program)
	if err != nil {
		return nil, nil, err
	}

	draft, err := s.versionRepo.GetDraftOrCreate(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := s.versionRepo.AddProgram(ctx, draft.ID, created.ID); err != nil {
		return nil, nil, err
	}

	s.broadcastProgramUpdated(draft.ID, created.AdminName)
	return created, nil, nil
}

// GetByID returns a program by row id.
func (s *ProgramService) GetByID(ctx context.Context, id int64) (*model.ProgramDefinition, error) {
	program, err := s.programRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if program == nil {
		return nil, &ProgramNotFoundError{ID: id}
	}
	return program, nil
}

// editableProgram returns the draft revision of a program, forking the
// active revision into the draft version on first edit.
func (s *ProgramService) editableProgram(ctx context.Context, programID int64) (*model.ProgramDefinition, *model.Version, error) {
	program, err := s.GetByID(ctx, programID)
	if err != nil {
		return nil, nil, err
	}

	draft, err := s.versionRepo.GetDraftOrCreate(ctx)
	if err != nil {
		return nil, nil, err
	}
	if draft.HasProgram(program.ID) {
		return program, draft, nil
	}

	// Check whether another revision of the same program is already in
	// the draft.
	draftPrograms, err := s.programRepo.GetByIDs(ctx, draft.ProgramIDs)
	if err != nil {
		return nil, nil, err
	}
	for _, p := range draftPrograms {
		if p.AdminName == program.AdminName {
			return p, draft, nil
		}
	}

	// Fork the active revision into a new draft row
	fork := *program
	fork.ID = 0
	fork.CreatedAt = time.Now().UTC()
	created, err := s.programRepo.Create(ctx, &fork)
	if err != nil {
		return nil, nil, err
	}
	if err := s.versionRepo.AddProgram(ctx, draft.ID, created.ID); err != nil {
		return nil, nil, err
	}
	return created, draft, nil
}

// AddBlock appends an empty block. A non-nil enumeratorQuestionID
// makes the block repeated: asked once per entity of that enumerator.
func (s *ProgramService) AddBlock(ctx context.Context, programID int64, enumeratorQuestionID *int64) (*model.ProgramDefinition, error) {
	program, draft, err := s.editableProgram(ctx, programID)
	if err != nil {
		return nil, err
	}

	if enumeratorQuestionID != nil {
		enumerator, err := s.questionRepo.GetByID(ctx, *enumeratorQuestionID)
		if err != nil {
			return nil, err
		}
		if enumerator == nil || !enumerator.IsEnumerator() {
			return nil, &InvalidUpdateError{Reasons: []string{
				fmt.Sprintf("question %d is not an enumerator", *enumeratorQuestionID),
			}}
		}
	}

	var maxID int64
	for _, b := range program.Blocks {
		if b.ID > maxID {
			maxID = b.ID
		}
	}
	program.Blocks = append(program.Blocks, model.BlockDefinition{
		ID:                   maxID + 1,
		Name:                 fmt.Sprintf("Screen %d", len(program.Blocks)+1),
		EnumeratorQuestionID: enumeratorQuestionID,
	})

	if err := s.programRepo.Update(ctx, program); err != nil {
		return nil, err
	}
	s.broadcastProgramUpdated(draft.ID, program.AdminName)
	return program, nil
}

// UpdateBlock renames a block and updates its description.
func (s *ProgramService) UpdateBlock(ctx context.Context, programID, blockID int64, name, description string) (*model.ProgramDefinition, error) {
	return s.editBlock(ctx, programID, blockID, func(block *model.BlockDefinition) error {
		block.Name = name
		block.Description = description
		return nil
	})
}

// RemoveBlock deletes a block and its question references.
func (s *ProgramService) RemoveBlock(ctx context.Context, programID, blockID int64) (*model.ProgramDefinition, error) {
	program, draft, err := s.editableProgram(ctx, programID)
	if err != nil {
		return nil, err
	}

	kept := program.Blocks[:0]
	found := false
	for _, b := range program.Blocks {
		if b.ID == blockID {
			found = true
			continue
		}
		kept = append(kept, b)
	}
	if !found {
		return nil, &InvalidUpdateError{Reasons: []string{fmt.Sprintf("program has no block %d", blockID)}}
	}
	program.Blocks = kept

	if err := s.programRepo.Update(ctx, program); err != nil {
		return nil, err
	}
	s.broadcastProgramUpdated(draft.ID, program.AdminName)
	return program, nil
}

// AddQuestionToBlock references a question from a block. Repeated
// questions may only join blocks repeated under the same enumerator.
func (s *ProgramService) AddQuestionToBlock(ctx context.Context, programID, blockID, questionID int64, optional bool) (*model.ProgramDefinition, error) {
	question, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, &QuestionNotFoundError{ID: questionID}
	}

	return s.editBlock(ctx, programID, blockID, func(block *model.BlockDefinition) error {
		if block.HasQuestion(questionID) {
			return &InvalidUpdateError{Reasons: []string{
				fmt.Sprintf("block already contains question %d", questionID),
			}}
		}
		if !int64PtrsEqual(question.EnumeratorID, block.EnumeratorQuestionID) {
			return &InvalidUpdateError{Reasons: []string{
				fmt.Sprintf("question %q does not repeat under this block's enumerator", question.Name),
			}}
		}
		block.Questions = append(block.Questions, model.ProgramQuestionDefinition{
			QuestionID: questionID,
			Optional:   optional,
		})
		return nil
	})
}

// RemoveQuestionFromBlock drops a question reference from a block.
func (s *ProgramService) RemoveQuestionFromBlock(ctx context.Context, programID, blockID, questionID int64) (*model.ProgramDefinition, error) {
	return s.editBlock(ctx, programID, blockID, func(block *model.BlockDefinition) error {
		kept := block.Questions[:0]
		found := false
		for _, q := range block.Questions {
			if q.QuestionID == questionID {
				found = true
				continue
			}
			kept = append(kept, q)
		}
		if !found {
			return &InvalidUpdateError{Reasons: []string{
				fmt.Sprintf("block does not contain question %d", questionID),
			}}
		}
		block.Questions = kept
		return nil
	})
}

// SetBlockVisibilityPredicate configures when a block is shown.
func (s *ProgramService) SetBlockVisibilityPredicate(ctx context.Context, programID, blockID int64, pred *model.PredicateDefinition) (*model.ProgramDefinition, error) {
	return s.editBlock(ctx, programID, blockID, func(block *model.BlockDefinition) error {
		block.VisibilityPredicate = pred
		return nil
	})
}

// SetBlockEligibilityPredicate configures when a block's answers make
// the applicant eligible.
func (s *ProgramService) SetBlockEligibilityPredicate(ctx context.Context, programID, blockID int64, pred *model.PredicateDefinition) (*model.ProgramDefinition, error) {
	return s.editBlock(ctx, programID, blockID, func(block *model.BlockDefinition) error {
		block.EligibilityPredicate = pred
		return nil
	})
}

func (s *ProgramService) editBlock(ctx context.Context, programID, blockID int64, edit func(*model.BlockDefinition) error) (*model.ProgramDefinition, error) {
	program, draft, err := s.editableProgram(ctx, programID)
	if err != nil {
		return nil, err
	}

	block, ok := program.BlockByID(blockID)
	if !ok {
		return nil, &InvalidUpdateError{Reasons: []string{fmt.Sprintf("program has no block %d", blockID)}}
	}
	if err := edit(block); err != nil {
		return nil, err
	}

	if err := s.programRepo.Update(ctx, program); err != nil {
		return nil, err
	}
	s.broadcastProgramUpdated(draft.ID, program.AdminName)
	return program, nil
}

// Publish promotes the draft version to active. Active questions and
// programs without a draft edit carry forward; tombstoned questions
// fall out of the new active version.
func (s *ProgramService) Publish(ctx context.Context) (*model.Version, error) {
	draft, err := s.versionRepo.GetDraft(ctx)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		return nil, &UnsupportedOperationError{Operation: "publish with no draft version"}
	}

	active, err := s.versionRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	if active != nil {
		if err := s.carryForward(ctx, draft, active); err != nil {
			return nil, err
		}
	}
	if err := s.dropTombstonedRevisions(ctx, draft); err != nil {
		return nil, err
	}

	if err := s.versionRepo.Publish(ctx, draft, active); err != nil {
		return nil, err
	}

	s.logger.Info("version published", "versionId", draft.ID)
	s.broadcaster.BroadcastDraftEvent(model.DraftEvent{
		Type:      model.DraftEventVersionPublished,
		VersionID: draft.ID,
		At:        time.Now().UTC(),
	})

	return s.versionRepo.GetByID(ctx, draft.ID)
}

// dropTombstonedRevisions removes archived questions' draft revisions
// from the version about to be promoted. Carry-forward already skips
// their active revisions; without this, a question edited and then
// archived would ride its draft row back into the new active version.
func (s *ProgramService) dropTombstonedRevisions(ctx context.Context, draft *model.Version) error {
	if len(draft.TombstonedQuestionNames) == 0 {
		return nil
	}
	draftQs, err := s.questionRepo.GetByIDs(ctx, draft.QuestionIDs)
	if err != nil {
		return err
	}
	for _, q := range draftQs {
		if !draft.QuestionIsTombstoned(q.Name) {
			continue
		}
		if err := s.versionRepo.RemoveQuestion(ctx, draft.ID, q.ID); err != nil {
			return err
		}
	}
	return nil
}

// carryForward copies unedited, untombstoned active content into the
// draft so the promoted version is complete on its own.
func (s *ProgramService) carryForward(ctx context.Context, draft, active *model.Version) error {
	activeQs, err := s.questionRepo.GetByIDs(ctx, active.QuestionIDs)
	if err != nil {
		return err
	}
	draftQs, err := s.questionRepo.GetByIDs(ctx, draft.QuestionIDs)
	if err != nil {
		return err
	}
	for _, q := range activeQs {
		if draft.QuestionIsTombstoned(q.Name) {
			continue
		}
		if questionByName(draftQs, q.Name) != nil {
			continue
		}
		if err := s.versionRepo.AddQuestion(ctx, draft.ID, q.ID); err != nil {
			return err
		}
	}

	activePs, err := s.programRepo.GetByIDs(ctx, active.ProgramIDs)
	if err != nil {
		return err
	}
	draftPs, err := s.programRepo.GetByIDs(ctx, draft.ProgramIDs)
	if err != nil {
		return err
	}
	for _, p := range activePs {
		edited := false
		for _, dp := range draftPs {
			if dp.AdminName == p.AdminName {
				edited = true
				break
			}
		}
		if edited {
			continue
		}
		if err := s.versionRepo.AddProgram(ctx, draft.ID, p.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *ProgramService) broadcastProgramUpdated(versionID int64, adminName string) {
	s.broadcaster.BroadcastDraftEvent(model.DraftEvent{
		Type:      model.DraftEventProgramUpdated,
		VersionID: versionID,
		Name:      adminName,
		At:        time.Now().UTC(),
	})
}
