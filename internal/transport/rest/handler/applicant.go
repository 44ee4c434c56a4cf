package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/civiform/civiform-go/internal/model"
	"github.com/civiform/civiform-go/internal/service"
	"github.com/civiform/civiform-go/internal/transport/rest/middleware"
)

// ApplicantHandler handles applicant answer endpoints
type ApplicantHandler struct {
	applicantSvc *service.ApplicantService
}

// NewApplicantHandler creates a new applicant handler
func NewApplicantHandler(applicantSvc *service.ApplicantService) *ApplicantHandler {
	return &ApplicantHandler{applicantSvc: applicantSvc}
}

// ApplicantResponse is the wire form of an applicant record.
type ApplicantResponse struct {
	ID              int64     `json:"id"`
	AccountID       string    `json:"accountId"`
	PreferredLocale string    `json:"preferredLocale"`
	CreatedAt       time.Time `json:"createdAt"`
}

func toApplicantResponse(a *model.Applicant) *ApplicantResponse {
	return &ApplicantResponse{
		ID:              a.ID,
		AccountID:       a.AccountID,
		PreferredLocale: a.PreferredLocale,
		CreatedAt:       a.CreatedAt,
	}
}

// CreateApplicantRequest is the request body for registering an
// applicant.
type CreateApplicantRequest struct {
	PreferredLocale string `json:"preferredLocale,omitempty"`
}

// Create handles POST /v1/applicants
func (h *ApplicantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateApplicantRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	accountID := middleware.GetAccountID(r.Context())
	created, err := h.applicantSvc.Create(r.Context(), accountID, req.PreferredLocale)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, toApplicantResponse(created))
}

// Get handles GET /v1/applicants/{applicantId}
func (h *ApplicantHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "applicantId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid applicant id")
		return
	}

	a, err := h.applicantSvc.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toApplicantResponse(a))
}

// AnswerRequest is the request body for answering a question. Answers
// are keyed by scalar name. For a question nested under an enumerator,
// EnumeratorID and EntityIndex pick the repeated entity the answer
// belongs to.
type AnswerRequest struct {
	Answers      map[string]any `json:"answers"`
	EnumeratorID *int64         `json:"enumeratorId,omitempty"`
	EntityIndex  int            `json:"entityIndex,omitempty"`
}

// Answer handles PUT /v1/applicants/{applicantId}/programs/{programId}/questions/{questionId}
func (h *ApplicantHandler) Answer(w http.ResponseWriter, r *http.Request) {
	applicantID, programID, questionID, ok := answerIDs(w, r)
	if !ok {
		return
	}

	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var entity *model.RepeatedEntity
	if req.EnumeratorID != nil {
		var err error
		entity, err = h.applicantSvc.RepeatedEntityAt(r.Context(), applicantID, *req.EnumeratorID, req.EntityIndex)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	values := make(map[model.Scalar]any, len(req.Answers))
	for key, value := range req.Answers {
		values[model.Scalar(strings.ToUpper(key))] = value
	}

	validationErrs, err := h.applicantSvc.AnswerQuestion(r.Context(), applicantID, programID, questionID, values, entity)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(validationErrs) > 0 {
		writeValidationErrors(w, validationErrs)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// AnswerEnumeratorRequest is the request body for replacing an
// enumerator's entity list.
type AnswerEnumeratorRequest struct {
	EntityNames []string `json:"entityNames"`
}

// AnswerEnumerator handles PUT /v1/applicants/{applicantId}/programs/{programId}/questions/{questionId}/entities
func (h *ApplicantHandler) AnswerEnumerator(w http.ResponseWriter, r *http.Request) {
	applicantID, programID, questionID, ok := answerIDs(w, r)
	if !ok {
		return
	}

	var req AnswerEnumeratorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	validationErrs, err := h.applicantSvc.AnswerEnumerator(r.Context(), applicantID, programID, questionID, req.EntityNames)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(validationErrs) > 0 {
		writeValidationErrors(w, validationErrs)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// QuestionView handles GET /v1/applicants/{applicantId}/questions/{questionId}.
// Text is localized to the applicant's preferred locale.
func (h *ApplicantHandler) QuestionView(w http.ResponseWriter, r *http.Request) {
	applicantID, err := pathID(r, "applicantId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid applicant id")
		return
	}
	questionID, err := pathID(r, "questionId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid question id")
		return
	}

	question, err := h.applicantSvc.Question(r.Context(), applicantID, questionID, nil)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	resp := map[string]interface{}{
		"questionText":     question.QuestionText(),
		"questionHelpText": question.QuestionHelpText(),
		"answered":         question.IsAnswered(),
		"errors":           question.AllErrors(),
	}
	if updated, ok := question.LastUpdated(); ok {
		resp["lastUpdated"] = updated
	}
	writeJSON(w, http.StatusOK, resp)
}

func answerIDs(w http.ResponseWriter, r *http.Request) (applicantID, programID, questionID int64, ok bool) {
	applicantID, err := pathID(r, "applicantId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid applicant id")
		return 0, 0, 0, false
	}
	programID, err = pathID(r, "programId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid program id")
		return 0, 0, 0, false
	}
	questionID, err = pathID(r, "questionId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid question id")
		return 0, 0, 0, false
	}
	return applicantID, programID, questionID, true
}
