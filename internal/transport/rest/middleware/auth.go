package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/civiform/civiform-go/internal/model"
	"github.com/civiform/civiform-go/internal/service"
)

type contextKey string

const (
	AccountIDKey contextKey = "accountId"
	RoleKey      contextKey = "role"
	ApiKeyKey    contextKey = "apiKey"
)

// AuthMiddleware provides JWT and api-key authentication middleware
type AuthMiddleware struct {
	authSvc   *service.AuthService
	apiKeySvc *service.ApiKeyService
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(authSvc *service.AuthService, apiKeySvc *service.ApiKeyService) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc, apiKeySvc: apiKeySvc}
}

// RequireRole validates the session JWT and checks the account's role
// against the allowed set.
func (m *AuthMiddleware) RequireRole(roles ...model.Role) func(http.Handler) http.Handler {
	allowed := map[model.Role]bool{}
	for _, role := range roles {
		allowed[role] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				// Try query param for WebSocket
				token = r.URL.Query().Get("token")
			}
			if token == "" {
				http.Error(w, `{"error":"missing authorization"}`, http.StatusUnauthorized)
				return
			}

			claims, err := m.authSvc.ValidateToken(token)
			if err != nil {
				http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
				return
			}
			if !allowed[claims.Role] {
				http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, AccountIDKey, claims.AccountID)
			ctx = context.WithValue(ctx, RoleKey, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireApiKey validates basic-auth api key credentials for the
// programmatic API.
func (m *AuthMiddleware) RequireApiKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, secret, ok := r.BasicAuth()
		if !ok {
			http.Error(w, `{"error":"missing api key credentials"}`, http.StatusUnauthorized)
			return
		}

		key, err := m.apiKeySvc.Validate(r.Context(), id, secret, r.RemoteAddr)
		if err != nil {
			http.Error(w, `{"error":"invalid api key"}`, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ApiKeyKey, key)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetAccountID extracts the account id from context
func GetAccountID(ctx context.Context) string {
	if v := ctx.Value(AccountIDKey); v != nil {
		return v.(string)
	}
	return ""
}

// GetRole extracts the account role from context
func GetRole(ctx context.Context) model.Role {
	if v := ctx.Value(RoleKey); v != nil {
		return v.(model.Role)
	}
	return ""
}

// GetApiKey extracts the validated api key from context
func GetApiKey(ctx context.Context) *model.ApiKey {
	if v := ctx.Value(ApiKeyKey); v != nil {
		return v.(*model.ApiKey)
	}
	return nil
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
