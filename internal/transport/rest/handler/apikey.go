package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/civiform/civiform-go/internal/model"
	"github.com/civiform/civiform-go/internal/service"
)

// ApiKeyHandler handles api key administration endpoints
type ApiKeyHandler struct {
	apiKeySvc *service.ApiKeyService
}

// NewApiKeyHandler creates a new api key handler
func NewApiKeyHandler(apiKeySvc *service.ApiKeyService) *ApiKeyHandler {
	return &ApiKeyHandler{apiKeySvc: apiKeySvc}
}

// CreateApiKeyRequest is the request body for issuing a key.
type CreateApiKeyRequest struct {
	Name            string    `json:"name"`
	ProgramSlugs    []string  `json:"programSlugs"`
	SubnetAllowlist []string  `json:"subnetAllowlist,omitempty"`
	ExpiresAt       time.Time `json:"expiresAt"`
}

// ApiKeyResponse is the wire form of a key. The secret only appears in
// the creation response; it is not stored in retrievable form.
type ApiKeyResponse struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	ProgramSlugs    []string   `json:"programSlugs"`
	SubnetAllowlist []string   `json:"subnetAllowlist,omitempty"`
	ExpiresAt       time.Time  `json:"expiresAt"`
	Retired         bool       `json:"retired"`
	LastCallAt      *time.Time `json:"lastCallAt,omitempty"`
	Secret          string     `json:"secret,omitempty"`
}

func toApiKeyResponse(k *model.ApiKey, secret string) *ApiKeyResponse {
	return &ApiKeyResponse{
		ID:              k.ID,
		Name:            k.Name,
		ProgramSlugs:    k.ProgramSlugs,
		SubnetAllowlist: k.SubnetAllowlist,
		ExpiresAt:       k.ExpiresAt,
		Retired:         k.Retired,
		LastCallAt:      k.LastCallAt,
		Secret:          secret,
	}
}

// Create handles POST /v1/admin/apikeys
func (h *ApiKeyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateApiKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "key name is required")
		return
	}
	if req.ExpiresAt.IsZero() {
		writeError(w, http.StatusBadRequest, "expiration time is required")
		return
	}

	created, err := h.apiKeySvc.Create(r.Context(), req.Name, req.ProgramSlugs, req.SubnetAllowlist, req.ExpiresAt)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, toApiKeyResponse(created.Key, created.Secret))
}

// List handles GET /v1/admin/apikeys
func (h *ApiKeyHandler) List(w http.ResponseWriter, r *http.Request) {
	keys, err := h.apiKeySvc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	responses := make([]*ApiKeyResponse, 0, len(keys))
	for _, k := range keys {
		responses = append(responses, toApiKeyResponse(k, ""))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"apiKeys": responses})
}

// Retire handles POST /v1/admin/apikeys/{keyId}/retire
func (h *ApiKeyHandler) Retire(w http.ResponseWriter, r *http.Request) {
	keyID := mux.Vars(r)["keyId"]
	if err := h.apiKeySvc.Retire(r.Context(), keyID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
