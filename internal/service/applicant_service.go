package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/civiform/civiform-go/internal/applicant"
	"github.com/civiform/civiform-go/internal/model"
	"github.com/civiform/civiform-go/internal/repository"
)

// ApplicantService reads and writes applicant answers through the
// typed question wrappers. Writes only persist when the answer passes
// the question's validation.
type ApplicantService struct {
	applicantRepo repository.ApplicantRepo
	questions     *QuestionService
	logger        *slog.Logger
}

// NewApplicantService creates a new applicant service
func NewApplicantService(applicantRepo repository.ApplicantRepo, questions *QuestionService, logger *slog.Logger) *ApplicantService {
	return &ApplicantService{
		applicantRepo: applicantRepo,
		questions:     questions,
		logger:        logger,
	}
}

// Create registers a new applicant with an empty answer document.
func (s *ApplicantService) Create(ctx context.Context, accountID, preferredLocale string) (*model.Applicant, error) {
	if preferredLocale == "" {
		preferredLocale = model.DefaultLocale
	}
	return s.applicantRepo.Create(ctx, &model.Applicant{
		AccountID:       accountID,
		PreferredLocale: preferredLocale,
		Data:            "{}",
	})
}

// Get returns an applicant by id.
func (s *ApplicantService) Get(ctx context.Context, id int64) (*model.Applicant, error) {
	a, err := s.applicantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("applicant not found for id: %d", id)
	}
	return a, nil
}

// Question binds one of the applicant's questions for reading.
func (s *ApplicantService) Question(ctx context.Context, applicantID, questionID int64, entity *model.RepeatedEntity) (*applicant.ApplicantQuestion, error) {
	a, err := s.Get(ctx, applicantID)
	if err != nil {
		return nil, err
	}
	data, err := parseApplicantRecord(a)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.questions.ReadOnly(ctx)
	if err != nil {
		return nil, err
	}
	definition := snapshot.GetQuestionDefinition(questionID)
	return applicant.NewApplicantQuestion(definition, data, entity), nil
}

// AnswerQuestion writes scalar values for one question, stamps the
// answer's metadata and validates the result. The write persists only
// when validation passes; the caller gets the errors either way.
func (s *ApplicantService) AnswerQuestion(ctx context.Context, applicantID, programID, questionID int64, values map[model.Scalar]any, entity *model.RepeatedEntity) ([]model.ValidationError, error) {
	a, err := s.Get(ctx, applicantID)
	if err != nil {
		return nil, err
	}
	data, err := parseApplicantRecord(a)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.questions.ReadOnly(ctx)
	if err != nil {
		return nil, err
	}
	definition := snapshot.GetQuestionDefinition(questionID)
	question := applicant.NewApplicantQuestion(definition, data, entity)

	scalars, err := model.Scalars(definition.Type)
	if err != nil {
		return nil, err
	}
	for scalar, value := range values {
		scalarType, ok := scalars[scalar]
		if !ok {
			return nil, fmt.Errorf("scalar %s does not belong to question type %s", scalar, definition.Type)
		}
		if err := writeScalar(data, question.ScalarPath(scalar), scalarType, value); err != nil {
			return nil, err
		}
	}
	data.WriteMetadata(question.Path(), programID, time.Now().UTC())

	if errs := question.AllErrors(); len(errs) > 0 {
		return errs, nil
	}
	return nil, s.persist(ctx, a, data)
}

// AnswerEnumerator replaces an enumerator's entity list, keeping the
// nested answers of entities that survive by position.
func (s *ApplicantService) AnswerEnumerator(ctx context.Context, applicantID, programID, questionID int64, entityNames []string) ([]model.ValidationError, error) {
	a, err := s.Get(ctx, applicantID)
	if err != nil {
		return nil, err
	}
	data, err := parseApplicantRecord(a)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.questions.ReadOnly(ctx)
	if err != nil {
		return nil, err
	}
	definition := snapshot.GetQuestionDefinition(questionID)
	if !definition.IsEnumerator() {
		return nil, &model.WrongQuestionTypeError{Expected: model.QuestionTypeEnumerator, Actual: definition.Type}
	}
	question := applicant.NewApplicantQuestion(definition, data, nil)

	data.PutRepeatedEntities(question.Path(), entityNames)
	// The entity list is a JSON array, so the metadata stamp lives on
	// each entity rather than on the enumerator path itself.
	now := time.Now().UTC()
	for i := range entityNames {
		data.WriteMetadata(question.Path().AtIndex(i), programID, now)
	}

	if errs := question.AllErrors(); len(errs) > 0 {
		return errs, nil
	}
	return nil, s.persist(ctx, a, data)
}

// RepeatedEntityAt resolves one entity of an enumerator by position,
// for answering questions nested under it.
func (s *ApplicantService) RepeatedEntityAt(ctx context.Context, applicantID, enumeratorID int64, index int) (*model.RepeatedEntity, error) {
	a, err := s.Get(ctx, applicantID)
	if err != nil {
		return nil, err
	}
	data, err := parseApplicantRecord(a)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.questions.ReadOnly(ctx)
	if err != nil {
		return nil, err
	}
	definition := snapshot.GetQuestionDefinition(enumeratorID)
	if !definition.IsEnumerator() {
		return nil, &model.WrongQuestionTypeError{Expected: model.QuestionTypeEnumerator, Actual: definition.Type}
	}

	question := applicant.NewApplicantQuestion(definition, data, nil)
	names := data.ReadRepeatedEntities(question.Path())
	if index < 0 || index >= len(names) {
		return nil, fmt.Errorf("no repeated entity at index %d for question %q", index, definition.Name)
	}
	return model.RepeatedEntitiesFor(definition, nil, names)[index], nil
}

func (s *ApplicantService) persist(ctx context.Context, a *model.Applicant, data *applicant.ApplicantData) error {
	raw, err := data.Serialize()
	if err != nil {
		return err
	}
	a.Data = string(raw)
	return s.applicantRepo.Update(ctx, a)
}

func parseApplicantRecord(a *model.Applicant) (*applicant.ApplicantData, error) {
	data, err := applicant.ParseApplicantData([]byte(a.Data))
	if err != nil {
		return nil, err
	}
	data.PreferredLocale = a.PreferredLocale
	return data, nil
}

// writeScalar coerces a dynamic value into the scalar's storage type.
func writeScalar(data *applicant.ApplicantData, path model.Path, scalarType model.ScalarType, value any) error {
	switch scalarType {
	case model.ScalarTypeString:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string at %s", path)
		}
		data.PutString(path, v)
	case model.ScalarTypeLong, model.ScalarTypeCurrencyCents:
		v, ok := toInt64(value)
		if !ok {
			return fmt.Errorf("expected integer at %s", path)
		}
		data.PutLong(path, v)
	case model.ScalarTypeDouble:
		switch v := value.(type) {
		case float64:
			data.PutDouble(path, v)
		case int64:
			data.PutDouble(path, float64(v))
		default:
			return fmt.Errorf("expected number at %s", path)
		}
	case model.ScalarTypeDate:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected date string at %s", path)
		}
		// Stored raw so the wrapper can report a malformed date
		data.PutString(path, v)
	case model.ScalarTypeListOfStrings:
		v, ok := value.([]string)
		if !ok {
			return fmt.Errorf("expected string list at %s", path)
		}
		data.PutStringList(path, v)
	case model.ScalarTypeListOfLongs:
		switch v := value.(type) {
		case []int64:
			data.PutLongList(path, v)
		case []float64:
			longs := make([]int64, len(v))
			for i, f := range v {
				longs[i] = int64(f)
			}
			data.PutLongList(path, longs)
		default:
			return fmt.Errorf("expected integer list at %s", path)
		}
	default:
		return fmt.Errorf("unhandled scalar type %s", scalarType)
	}
	return nil
}

func toInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	}
	return 0, false
}
