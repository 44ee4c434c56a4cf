package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/civiform/civiform-go/internal/model"
	"github.com/civiform/civiform-go/internal/service"
	"github.com/civiform/civiform-go/internal/transport/rest/handler"
	"github.com/civiform/civiform-go/internal/transport/rest/middleware"
	"github.com/civiform/civiform-go/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService      *service.AuthService
	QuestionService  *service.QuestionService
	ProgramService   *service.ProgramService
	ApplicantService *service.ApplicantService
	ApiKeyService    *service.ApiKeyService
	OpenApiService   *service.OpenApiService
	WSHub            *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	questionHandler := handler.NewQuestionHandler(c.QuestionService)
	programHandler := handler.NewProgramHandler(c.ProgramService)
	applicantHandler := handler.NewApplicantHandler(c.ApplicantService)
	apiKeyHandler := handler.NewApiKeyHandler(c.ApiKeyService)
	openApiHandler := handler.NewOpenApiHandler(c.OpenApiService, c.ProgramService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService, c.ApiKeyService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// WebSocket routes (public with token in query param)
	v1.HandleFunc("/ws/drafts", wsHandler.DraftEventsWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Admin routes (require civiform admin auth)
	adminRoutes := v1.PathPrefix("/admin").Subrouter()
	adminRoutes.Use(authMW.RequireRole(model.RoleCiviFormAdmin))

	adminRoutes.HandleFunc("/questions", questionHandler.Create).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/questions", questionHandler.List).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/questions/{questionId}", questionHandler.Get).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/questions/{questionId}", questionHandler.Update).Methods("PUT", "OPTIONS")
	adminRoutes.HandleFunc("/questions/{questionId}/archive", questionHandler.Archive).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/questions/{questionId}/restore", questionHandler.Restore).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/questions/{questionId}/draft", questionHandler.DiscardDraft).Methods("DELETE", "OPTIONS")

	adminRoutes.HandleFunc("/programs", programHandler.Create).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/programs/{programId}", programHandler.Get).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/programs/{programId}/blocks", programHandler.AddBlock).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/programs/{programId}/blocks/{blockId}", programHandler.UpdateBlock).Methods("PUT", "OPTIONS")
	adminRoutes.HandleFunc("/programs/{programId}/blocks/{blockId}", programHandler.RemoveBlock).Methods("DELETE", "OPTIONS")
	adminRoutes.HandleFunc("/programs/{programId}/blocks/{blockId}/questions", programHandler.AddQuestionToBlock).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/programs/{programId}/blocks/{blockId}/questions/{questionId}", programHandler.RemoveQuestionFromBlock).Methods("DELETE", "OPTIONS")
	adminRoutes.HandleFunc("/programs/{programId}/blocks/{blockId}/visibility", programHandler.SetVisibilityPredicate).Methods("PUT", "OPTIONS")
	adminRoutes.HandleFunc("/programs/{programId}/blocks/{blockId}/eligibility", programHandler.SetEligibilityPredicate).Methods("PUT", "OPTIONS")

	adminRoutes.HandleFunc("/publish", programHandler.Publish).Methods("POST", "OPTIONS")

	adminRoutes.HandleFunc("/apikeys", apiKeyHandler.Create).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/apikeys", apiKeyHandler.List).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/apikeys/{keyId}/retire", apiKeyHandler.Retire).Methods("POST", "OPTIONS")

	// Applicant routes (applicants and trusted intermediaries)
	applicantRoutes := v1.PathPrefix("/applicants").Subrouter()
	applicantRoutes.Use(authMW.RequireRole(model.RoleApplicant, model.RoleTrustedIntermediary))

	applicantRoutes.HandleFunc("", applicantHandler.Create).Methods("POST", "OPTIONS")
	applicantRoutes.HandleFunc("/{applicantId}", applicantHandler.Get).Methods("GET", "OPTIONS")
	applicantRoutes.HandleFunc("/{applicantId}/questions/{questionId}", applicantHandler.QuestionView).Methods("GET", "OPTIONS")
	applicantRoutes.HandleFunc("/{applicantId}/programs/{programId}/questions/{questionId}", applicantHandler.Answer).Methods("PUT", "OPTIONS")
	applicantRoutes.HandleFunc("/{applicantId}/programs/{programId}/questions/{questionId}/entities", applicantHandler.AnswerEnumerator).Methods("PUT", "OPTIONS")

	// Programmatic API routes (require api key via basic auth)
	apiRoutes := r.PathPrefix("/api/v1").Subrouter()
	apiRoutes.Use(authMW.RequireApiKey)

	apiRoutes.HandleFunc("/programs/{programId}/openapi", openApiHandler.ProgramDoc).Methods("GET")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
