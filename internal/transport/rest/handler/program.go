package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/civiform/civiform-go/internal/model"
	"github.com/civiform/civiform-go/internal/service"
)

// ProgramHandler handles program administration endpoints
type ProgramHandler struct {
	programSvc *service.ProgramService
}

// NewProgramHandler creates a new program handler
func NewProgramHandler(programSvc *service.ProgramService) *ProgramHandler {
	return &ProgramHandler{programSvc: programSvc}
}

// ProgramRequest is the request body for creating a program.
type ProgramRequest struct {
	AdminName            string            `json:"adminName"`
	AdminDescription     string            `json:"adminDescription"`
	LocalizedName        map[string]string `json:"localizedName"`
	LocalizedDescription map[string]string `json:"localizedDescription"`
	ExternalLink         string            `json:"externalLink,omitempty"`
}

// ProgramResponse is the wire form of a program definition.
type ProgramResponse struct {
	ID                   int64                   `json:"id"`
	AdminName            string                  `json:"adminName"`
	AdminDescription     string                  `json:"adminDescription"`
	LocalizedName        map[string]string       `json:"localizedName"`
	LocalizedDescription map[string]string       `json:"localizedDescription"`
	ExternalLink         string                  `json:"externalLink,omitempty"`
	Blocks               []model.BlockDefinition `json:"blocks"`
}

func toProgramResponse(p *model.ProgramDefinition) *ProgramResponse {
	return &ProgramResponse{
		ID:                   p.ID,
		AdminName:            p.AdminName,
		AdminDescription:     p.AdminDescription,
		LocalizedName:        p.LocalizedName,
		LocalizedDescription: p.LocalizedDescription,
		ExternalLink:         p.ExternalLink,
		Blocks:               p.Blocks,
	}
}

// Create handles POST /v1/admin/programs
func (h *ProgramHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProgramRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	program := &model.ProgramDefinition{
		AdminName:            req.AdminName,
		AdminDescription:     req.AdminDescription,
		LocalizedName:        req.LocalizedName,
		LocalizedDescription: req.LocalizedDescription,
		ExternalLink:         req.ExternalLink,
	}

	created, validationErrs, err := h.programSvc.Create(r.Context(), program)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(validationErrs) > 0 {
		writeValidationErrors(w, validationErrs)
		return
	}
	writeJSON(w, http.StatusCreated, toProgramResponse(created))
}

// Get handles GET /v1/admin/programs/{programId}
func (h *ProgramHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "programId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid program id")
		return
	}

	program, err := h.programSvc.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProgramResponse(program))
}

// AddBlockRequest is the request body for adding a screen.
type AddBlockRequest struct {
	EnumeratorQuestionID *int64 `json:"enumeratorQuestionId,omitempty"`
}

// AddBlock handles POST /v1/admin/programs/{programId}/blocks
func (h *ProgramHandler) AddBlock(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "programId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid program id")
		return
	}

	var req AddBlockRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	program, err := h.programSvc.AddBlock(r.Context(), id, req.EnumeratorQuestionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProgramResponse(program))
}

// UpdateBlockRequest is the request body for renaming a screen.
type UpdateBlockRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdateBlock handles PUT /v1/admin/programs/{programId}/blocks/{blockId}
func (h *ProgramHandler) UpdateBlock(w http.ResponseWriter, r *http.Request) {
	programID, blockID, ok := blockIDs(w, r)
	if !ok {
		return
	}

	var req UpdateBlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	program, err := h.programSvc.UpdateBlock(r.Context(), programID, blockID, req.Name, req.Description)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProgramResponse(program))
}

// RemoveBlock handles DELETE /v1/admin/programs/{programId}/blocks/{blockId}
func (h *ProgramHandler) RemoveBlock(w http.ResponseWriter, r *http.Request) {
	programID, blockID, ok := blockIDs(w, r)
	if !ok {
		return
	}

	program, err := h.programSvc.RemoveBlock(r.Context(), programID, blockID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProgramResponse(program))
}

// BlockQuestionRequest is the request body for adding a question to a
// screen.
type BlockQuestionRequest struct {
	QuestionID int64 `json:"questionId"`
	Optional   bool  `json:"optional,omitempty"`
}

// AddQuestionToBlock handles POST /v1/admin/programs/{programId}/blocks/{blockId}/questions
func (h *ProgramHandler) AddQuestionToBlock(w http.ResponseWriter, r *http.Request) {
	programID, blockID, ok := blockIDs(w, r)
	if !ok {
		return
	}

	var req BlockQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	program, err := h.programSvc.AddQuestionToBlock(r.Context(), programID, blockID, req.QuestionID, req.Optional)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProgramResponse(program))
}

// RemoveQuestionFromBlock handles DELETE /v1/admin/programs/{programId}/blocks/{blockId}/questions/{questionId}
func (h *ProgramHandler) RemoveQuestionFromBlock(w http.ResponseWriter, r *http.Request) {
	programID, blockID, ok := blockIDs(w, r)
	if !ok {
		return
	}
	questionID, err := pathID(r, "questionId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid question id")
		return
	}

	program, err := h.programSvc.RemoveQuestionFromBlock(r.Context(), programID, blockID, questionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProgramResponse(program))
}

// SetVisibilityPredicate handles PUT /v1/admin/programs/{programId}/blocks/{blockId}/visibility
func (h *ProgramHandler) SetVisibilityPredicate(w http.ResponseWriter, r *http.Request) {
	h.setPredicate(w, r, h.programSvc.SetBlockVisibilityPredicate)
}

// SetEligibilityPredicate handles PUT /v1/admin/programs/{programId}/blocks/{blockId}/eligibility
func (h *ProgramHandler) SetEligibilityPredicate(w http.ResponseWriter, r *http.Request) {
	h.setPredicate(w, r, h.programSvc.SetBlockEligibilityPredicate)
}

func (h *ProgramHandler) setPredicate(w http.ResponseWriter, r *http.Request, set func(ctx context.Context, programID, blockID int64, pred *model.PredicateDefinition) (*model.ProgramDefinition, error)) {
	programID, blockID, ok := blockIDs(w, r)
	if !ok {
		return
	}

	// null clears the predicate
	var pred *model.PredicateDefinition
	if err := json.NewDecoder(r.Body).Decode(&pred); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	program, err := set(r.Context(), programID, blockID, pred)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProgramResponse(program))
}

// VersionResponse is the wire form of a version.
type VersionResponse struct {
	ID                      int64      `json:"id"`
	LifecycleStage          string     `json:"lifecycleStage"`
	QuestionIDs             []int64    `json:"questionIds"`
	ProgramIDs              []int64    `json:"programIds"`
	TombstonedQuestionNames []string   `json:"tombstonedQuestionNames,omitempty"`
	PreviousVersionID       *int64     `json:"previousVersionId,omitempty"`
	SubmittedAt             *time.Time `json:"submittedAt,omitempty"`
}

// Publish handles POST /v1/admin/publish
func (h *ProgramHandler) Publish(w http.ResponseWriter, r *http.Request) {
	version, err := h.programSvc.Publish(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, &VersionResponse{
		ID:                      version.ID,
		LifecycleStage:          string(version.LifecycleStage),
		QuestionIDs:             version.QuestionIDs,
		ProgramIDs:              version.ProgramIDs,
		TombstonedQuestionNames: version.TombstonedQuestionNames,
		PreviousVersionID:       version.PreviousVersionID,
		SubmittedAt:             version.SubmittedAt,
	})
}

func blockIDs(w http.ResponseWriter, r *http.Request) (programID, blockID int64, ok bool) {
	programID, err := pathID(r, "programId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid program id")
		return 0, 0, false
	}
	blockID, err = pathID(r, "blockId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid block id")
		return 0, 0, false
	}
	return programID, blockID, true
}
