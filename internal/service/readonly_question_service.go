package service

import (
	"log/slog"
	"sort"

	"github.com/civiform/civiform-go/internal/model"
)

// ReadOnlyQuestionService is an immutable snapshot of question state.
// Snapshots over the current active and draft versions answer every
// query; snapshots over one historical version reject the queries that
// need draft state.
type ReadOnlyQuestionService interface {
	// GetAllQuestions returns every question in the snapshot.
	GetAllQuestions() []*model.QuestionDefinition
	// GetEnumeratorQuestions filters the snapshot to enumerators.
	GetEnumeratorQuestions() []*model.QuestionDefinition
	// GetQuestionDefinition looks a question up by id. A missing id
	// resolves to a harmless sentinel definition rather than an error;
	// the miss is logged.
	GetQuestionDefinition(id int64) *model.QuestionDefinition

	// GetUpToDateQuestions returns, per question name, the most edited
	// revision: the draft's where one exists, the active one otherwise.
	// Tombstoned questions are excluded.
	GetUpToDateQuestions() ([]*model.QuestionDefinition, error)
	// GetUpToDateEnumeratorQuestions filters up-to-date questions to
	// enumerators.
	GetUpToDateEnumeratorQuestions() ([]*model.QuestionDefinition, error)
	// GetActiveAndDraftQuestions returns the per-name comparison view.
	GetActiveAndDraftQuestions() (*ActiveAndDraftQuestions, error)
}

// sentinelQuestion stands in for a definition that was looked up by an
// id the snapshot does not contain.
func sentinelQuestion(id int64) *model.QuestionDefinition {
	return &model.QuestionDefinition{
		ID:           id,
		Name:         "",
		QuestionText: model.LocalizedStrings{},
		Type:         model.QuestionTypeText,
		Predicates:   model.TextValidationPredicates{},
	}
}

// currentQuestionService snapshots the active and draft versions.
type currentQuestionService struct {
	draft *model.Version

	activeQuestions []*model.QuestionDefinition
	draftQuestions  []*model.QuestionDefinition
	byID            map[int64]*model.QuestionDefinition

	view *ActiveAndDraftQuestions

	logger *slog.Logger
}

// NewCurrentQuestionService snapshots the given active and draft
// version contents. draft may be nil when no draft exists.
func NewCurrentQuestionService(
	draft *model.Version,
	activeQuestions, draftQuestions []*model.QuestionDefinition,
	activePrograms, draftPrograms []*model.ProgramDefinition,
	logger *slog.Logger,
) ReadOnlyQuestionService {
	byID := map[int64]*model.QuestionDefinition{}
	for _, q := range activeQuestions {
		byID[q.ID] = q
	}
	for _, q := range draftQuestions {
		byID[q.ID] = q
	}
	return &currentQuestionService{
		draft:           draft,
		activeQuestions: activeQuestions,
		draftQuestions:  draftQuestions,
		byID:            byID,
		view:            NewActiveAndDraftQuestions(draft, activeQuestions, draftQuestions, activePrograms, draftPrograms),
		logger:          logger,
	}
}

func (s *currentQuestionService) GetAllQuestions() []*model.QuestionDefinition {
	all := make([]*model.QuestionDefinition, 0, len(s.byID))
	for _, q := range s.byID {
		all = append(all, q)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all
}

func (s *currentQuestionService) GetEnumeratorQuestions() []*model.QuestionDefinition {
	return filterEnumerators(s.GetAllQuestions())
}

func (s *currentQuestionService) GetQuestionDefinition(id int64) *model.QuestionDefinition {
	if q, ok := s.byID[id]; ok {
		return q
	}
	s.logger.Warn("question lookup missed", "questionId", id)
	return sentinelQuestion(id)
}

func (s *currentQuestionService) GetUpToDateQuestions() ([]*model.QuestionDefinition, error) {
	var upToDate []*model.QuestionDefinition
	for _, name := range s.view.Names() {
		if s.draft != nil && s.draft.QuestionIsTombstoned(name) {
			continue
		}
		if q, ok := s.view.DraftDefinition(name); ok {
			upToDate = append(upToDate, q)
			continue
		}
		if q, ok := s.view.ActiveDefinition(name); ok {
			upToDate = append(upToDate, q)
		}
	}
	return upToDate, nil
}

func (s *currentQuestionService) GetUpToDateEnumeratorQuestions() ([]*model.QuestionDefinition, error) {
	upToDate, err := s.GetUpToDateQuestions()
	if err != nil {
		return nil, err
	}
	return filterEnumerators(upToDate), nil
}

func (s *currentQuestionService) GetActiveAndDraftQuestions() (*ActiveAndDraftQuestions, error) {
	return s.view, nil
}

// versionedQuestionService snapshots one historical version.
type versionedQuestionService struct {
	version   *model.Version
	questions []*model.QuestionDefinition
	byID      map[int64]*model.QuestionDefinition

	logger *slog.Logger
}

// NewVersionedQuestionService snapshots the questions of one version.
func NewVersionedQuestionService(version *model.Version, questions []*model.QuestionDefinition, logger *slog.Logger) ReadOnlyQuestionService {
	byID := map[int64]*model.QuestionDefinition{}
	for _, q := range questions {
		byID[q.ID] = q
	}
	return &versionedQuestionService{
		version:   version,
		questions: questions,
		byID:      byID,
		logger:    logger,
	}
}

func (s *versionedQuestionService) GetAllQuestions() []*model.QuestionDefinition {
	return s.questions
}

func (s *versionedQuestionService) GetEnumeratorQuestions() []*model.QuestionDefinition {
	return filterEnumerators(s.questions)
}

func (s *versionedQuestionService) GetQuestionDefinition(id int64) *model.QuestionDefinition {
	if q, ok := s.byID[id]; ok {
		return q
	}
	s.logger.Warn("question lookup missed", "questionId", id, "versionId", s.version.ID)
	return sentinelQuestion(id)
}

// Up-to-date state is defined against the current draft, which a
// historical snapshot does not carry.
func (s *versionedQuestionService) GetUpToDateQuestions() ([]*model.QuestionDefinition, error) {
	return nil, &UnsupportedOperationError{Operation: "GetUpToDateQuestions on a versioned snapshot"}
}

func (s *versionedQuestionService) GetUpToDateEnumeratorQuestions() ([]*model.QuestionDefinition, error) {
	return nil, &UnsupportedOperationError{Operation: "GetUpToDateEnumeratorQuestions on a versioned snapshot"}
}

func (s *versionedQuestionService) GetActiveAndDraftQuestions() (*ActiveAndDraftQuestions, error) {
	return nil, &UnsupportedOperationError{Operation: "GetActiveAndDraftQuestions on a versioned snapshot"}
}

func filterEnumerators(questions []*model.QuestionDefinition) []*model.QuestionDefinition {
	var enumerators []*model.QuestionDefinition
	for _, q := range questions {
		if q.IsEnumerator() {
			enumerators = append(enumerators, q)
		}
	}
	return enumerators
}
