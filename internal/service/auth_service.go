package service

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/civiform/civiform-go/internal/model"
)

// AuthService handles admin and applicant authentication
type AuthService struct {
	adminUsername string
	adminPassword string
	jwtSecret     []byte
}

// NewAuthService creates a new auth service
func NewAuthService() *AuthService {
	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "password123"
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "super-secret-key-change-in-production"
	}

	return &AuthService{
		adminUsername: username,
		adminPassword: password,
		jwtSecret:     []byte(secret),
	}
}

// Login validates admin credentials and returns a session token
func (s *AuthService) Login(username, password string) (*model.LoginResponse, error) {
	if username != s.adminUsername || password != s.adminPassword {
		return nil, ErrInvalidCredentials
	}

	accountID := "admin_" + uuid.New().String()[:8]
	token, err := s.generateToken(accountID, model.RoleCiviFormAdmin, nil)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token:     token,
		AccountID: accountID,
		Role:      model.RoleCiviFormAdmin,
	}, nil
}

// GenerateApplicantToken creates a session token for an applicant
func (s *AuthService) GenerateApplicantToken(accountID string) (string, error) {
	return s.generateToken(accountID, model.RoleApplicant, nil)
}

// GenerateProgramAdminToken creates a token scoped to given programs
func (s *AuthService) GenerateProgramAdminToken(accountID string, programSlugs []string) (string, error) {
	return s.generateToken(accountID, model.RoleProgramAdmin, programSlugs)
}

func (s *AuthService) generateToken(accountID string, role model.Role, programSlugs []string) (string, error) {
	claims := &model.AccountClaims{
		AccountID:    accountID,
		Role:         role,
		ProgramSlugs: programSlugs,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateToken validates a session JWT and returns its claims
func (s *AuthService) ValidateToken(tokenString string) (*model.AccountClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.AccountClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.AccountClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
