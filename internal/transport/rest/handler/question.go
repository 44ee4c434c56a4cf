package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/civiform/civiform-go/internal/model"
	"github.com/civiform/civiform-go/internal/service"
)

// QuestionHandler handles question administration endpoints
type QuestionHandler struct {
	questionSvc *service.QuestionService
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(questionSvc *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionSvc: questionSvc}
}

// QuestionRequest is the request body for creating or updating a
// question. Validation predicates travel as raw JSON so unknown
// fields survive the round trip.
type QuestionRequest struct {
	Name                 string                 `json:"name"`
	EnumeratorID         *int64                 `json:"enumeratorId,omitempty"`
	Description          string                 `json:"description"`
	QuestionText         map[string]string      `json:"questionText"`
	QuestionHelpText     map[string]string      `json:"questionHelpText,omitempty"`
	Type                 string                 `json:"type"`
	ValidationPredicates json.RawMessage        `json:"validationPredicates,omitempty"`
	Options              []model.QuestionOption `json:"options,omitempty"`
	EntityType           map[string]string      `json:"entityType,omitempty"`
}

// QuestionResponse is the wire form of a question definition.
type QuestionResponse struct {
	ID                   int64                  `json:"id"`
	Name                 string                 `json:"name"`
	EnumeratorID         *int64                 `json:"enumeratorId,omitempty"`
	Description          string                 `json:"description"`
	QuestionText         map[string]string      `json:"questionText"`
	QuestionHelpText     map[string]string      `json:"questionHelpText,omitempty"`
	Type                 string                 `json:"type"`
	ValidationPredicates json.RawMessage        `json:"validationPredicates"`
	Options              []model.QuestionOption `json:"options,omitempty"`
	EntityType           map[string]string      `json:"entityType,omitempty"`
}

func (req *QuestionRequest) toDefinition(id int64) (*model.QuestionDefinition, error) {
	questionType, err := model.ParseQuestionType(req.Type)
	if err != nil {
		return nil, err
	}
	predicates, err := model.ParseValidationPredicates(questionType, req.ValidationPredicates)
	if err != nil {
		return nil, err
	}
	return model.NewQuestionDefinition(model.QuestionDefinitionConfig{
		ID:               id,
		Name:             req.Name,
		EnumeratorID:     req.EnumeratorID,
		Description:      req.Description,
		QuestionText:     req.QuestionText,
		QuestionHelpText: req.QuestionHelpText,
		Type:             questionType,
		Predicates:       predicates,
		Options:          req.Options,
		EntityType:       req.EntityType,
	})
}

func toQuestionResponse(q *model.QuestionDefinition) (*QuestionResponse, error) {
	predicates, err := model.SerializeValidationPredicates(q.Predicates)
	if err != nil {
		return nil, err
	}
	return &QuestionResponse{
		ID:                   q.ID,
		Name:                 q.Name,
		EnumeratorID:         q.EnumeratorID,
		Description:          q.Description,
		QuestionText:         q.QuestionText,
		QuestionHelpText:     q.QuestionHelpText,
		Type:                 string(q.Type),
		ValidationPredicates: predicates,
		Options:              q.Options,
		EntityType:           q.EntityType,
	}, nil
}

// Create handles POST /v1/admin/questions
func (h *QuestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req QuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	definition, err := req.toDefinition(0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, validationErrs, err := h.questionSvc.Create(r.Context(), definition)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(validationErrs) > 0 {
		writeValidationErrors(w, validationErrs)
		return
	}

	resp, err := toQuestionResponse(created)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Update handles PUT /v1/admin/questions/{questionId}
func (h *QuestionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "questionId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid question id")
		return
	}

	var req QuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	definition, err := req.toDefinition(id)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, validationErrs, err := h.questionSvc.Update(r.Context(), definition)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if len(validationErrs) > 0 {
		writeValidationErrors(w, validationErrs)
		return
	}

	resp, err := toQuestionResponse(updated)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// List handles GET /v1/admin/questions. With ?upToDate=true only the
// most edited revision per question comes back.
func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.questionSvc.ReadOnly(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var questions []*model.QuestionDefinition
	if r.URL.Query().Get("upToDate") == "true" {
		questions, err = snapshot.GetUpToDateQuestions()
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	} else {
		questions = snapshot.GetAllQuestions()
	}

	responses := make([]*QuestionResponse, 0, len(questions))
	for _, q := range questions {
		resp, err := toQuestionResponse(q)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		responses = append(responses, resp)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"questions": responses})
}

// Get handles GET /v1/admin/questions/{questionId}
func (h *QuestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "questionId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid question id")
		return
	}

	snapshot, err := h.questionSvc.ReadOnly(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	question := snapshot.GetQuestionDefinition(id)
	if question.Name == "" {
		writeError(w, http.StatusNotFound, "question not found")
		return
	}

	resp, err := toQuestionResponse(question)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Archive handles POST /v1/admin/questions/{questionId}/archive
func (h *QuestionHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.lifecycleAction(w, r, h.questionSvc.Archive)
}

// Restore handles POST /v1/admin/questions/{questionId}/restore
func (h *QuestionHandler) Restore(w http.ResponseWriter, r *http.Request) {
	h.lifecycleAction(w, r, h.questionSvc.Restore)
}

// DiscardDraft handles DELETE /v1/admin/questions/{questionId}/draft
func (h *QuestionHandler) DiscardDraft(w http.ResponseWriter, r *http.Request) {
	h.lifecycleAction(w, r, h.questionSvc.DiscardDraft)
}

func (h *QuestionHandler) lifecycleAction(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, questionID int64) error) {
	id, err := pathID(r, "questionId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid question id")
		return
	}
	if err := action(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}

// writeServiceError maps service errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var notFoundQ *service.QuestionNotFoundError
	var notFoundP *service.ProgramNotFoundError
	var invalid *service.InvalidUpdateError
	var unsupported *service.UnsupportedOperationError
	switch {
	case errors.As(err, &notFoundQ), errors.As(err, &notFoundP):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &invalid):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &unsupported):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
