package service

import (
	"context"
	"log/slog"

	"github.com/civiform/civiform-go/internal/cache"
	"github.com/civiform/civiform-go/internal/model"
	"github.com/civiform/civiform-go/internal/openapi"
	"github.com/civiform/civiform-go/internal/repository"
)

// OpenApiService renders per-program OpenAPI documents for the active
// version, cache-aside through redis.
type OpenApiService struct {
	programRepo  repository.ProgramRepo
	questionRepo repository.QuestionRepo
	versionRepo  repository.VersionRepo
	docs         cache.DocCache
	logger       *slog.Logger
}

// NewOpenApiService creates a new openapi service
func NewOpenApiService(
	programRepo repository.ProgramRepo,
	questionRepo repository.QuestionRepo,
	versionRepo repository.VersionRepo,
	docs cache.DocCache,
	logger *slog.Logger,
) *OpenApiService {
	return &OpenApiService{
		programRepo:  programRepo,
		questionRepo: questionRepo,
		versionRepo:  versionRepo,
		docs:         docs,
		logger:       logger,
	}
}

// ProgramDoc returns the OpenAPI document for a program in the active
// version.
func (s *OpenApiService) ProgramDoc(ctx context.Context, programID int64) (string, error) {
	active, err := s.versionRepo.GetActive(ctx)
	if err != nil {
		return "", err
	}
	if active == nil || !active.HasProgram(programID) {
		return "", &ProgramNotFoundError{ID: programID}
	}

	if doc, err := s.docs.Get(ctx, programID, active.ID); err == nil && doc != "" {
		return doc, nil
	}

	program, err := s.programRepo.GetByID(ctx, programID)
	if err != nil {
		return "", err
	}
	if program == nil {
		return "", &ProgramNotFoundError{ID: programID}
	}

	questions, err := s.questionRepo.GetByIDs(ctx, program.QuestionIDs())
	if err != nil {
		return "", err
	}
	byID := make(map[int64]*model.QuestionDefinition, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	doc, err := openapi.GenerateProgramDoc(program, byID)
	if err != nil {
		return "", err
	}
	if err := s.docs.Set(ctx, programID, active.ID, doc); err != nil {
		s.logger.Warn("failed to cache openapi doc", "programId", programID, "error", err)
	}
	return doc, nil
}
