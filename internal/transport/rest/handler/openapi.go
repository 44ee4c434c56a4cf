package handler

import (
	"net/http"

	"github.com/civiform/civiform-go/internal/service"
	"github.com/civiform/civiform-go/internal/transport/rest/middleware"
)

// OpenApiHandler serves generated API documentation for programs
type OpenApiHandler struct {
	openApiSvc *service.OpenApiService
	programSvc *service.ProgramService
}

// NewOpenApiHandler creates a new openapi handler
func NewOpenApiHandler(openApiSvc *service.OpenApiService, programSvc *service.ProgramService) *OpenApiHandler {
	return &OpenApiHandler{openApiSvc: openApiSvc, programSvc: programSvc}
}

// ProgramDoc handles GET /api/v1/programs/{programId}/openapi. The
// caller's key must be scoped to the program.
func (h *OpenApiHandler) ProgramDoc(w http.ResponseWriter, r *http.Request) {
	programID, err := pathID(r, "programId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid program id")
		return
	}

	program, err := h.programSvc.GetByID(r.Context(), programID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	key := middleware.GetApiKey(r.Context())
	if key == nil || !keyAllowsProgram(key.ProgramSlugs, program.AdminName) {
		writeError(w, http.StatusForbidden, "api key is not scoped to this program")
		return
	}

	doc, err := h.openApiSvc.ProgramDoc(r.Context(), programID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(doc))
}

func keyAllowsProgram(slugs []string, adminName string) bool {
	for _, slug := range slugs {
		if slug == adminName {
			return true
		}
	}
	return false
}
