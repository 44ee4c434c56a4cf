package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/civiform/civiform-go/internal/cache"
	"github.com/civiform/civiform-go/internal/model"
	"github.com/civiform/civiform-go/internal/repository"
)

// ApiKeyService issues and validates programmatic access keys. The
// plaintext secret exists only in the create response; storage and
// validation work on its hash.
type ApiKeyService struct {
	apiKeyRepo repository.ApiKeyRepo
	apiKeys    cache.ApiKeyCache
	logger     *slog.Logger
}

// NewApiKeyService creates a new api key service
func NewApiKeyService(apiKeyRepo repository.ApiKeyRepo, apiKeys cache.ApiKeyCache, logger *slog.Logger) *ApiKeyService {
	return &ApiKeyService{
		apiKeyRepo: apiKeyRepo,
		apiKeys:    apiKeys,
		logger:     logger,
	}
}

// CreatedApiKey carries the one-time plaintext secret back to the
// admin who created the key.
type CreatedApiKey struct {
	Key    *model.ApiKey
	Secret string
}

// Create issues a new key for the given programs.
func (s *ApiKeyService) Create(ctx context.Context, name string, programSlugs, subnetAllowlist []string, expiresAt time.Time) (*CreatedApiKey, error) {
	id := uuid.New().String()
	secret := uuid.New().String()

	key := &model.ApiKey{
		ID:              id,
		Name:            name,
		SecretHash:      hashSecret(secret),
		SubnetAllowlist: subnetAllowlist,
		ProgramSlugs:    programSlugs,
		ExpiresAt:       expiresAt,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.apiKeyRepo.Create(ctx, key); err != nil {
		return nil, err
	}

	s.logger.Info("api key created", "keyId", id, "name", name)
	return &CreatedApiKey{Key: key, Secret: secret}, nil
}

// Validate checks a key id and secret pair, the key's expiry and the
// caller's address, and records the call.
func (s *ApiKeyService) Validate(ctx context.Context, id, secret, remoteAddr string) (*model.ApiKey, error) {
	key, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if key == nil || key.SecretHash != hashSecret(secret) {
		return nil, ErrInvalidApiKey
	}

	now := time.Now().UTC()
	if !key.IsValidAt(now) {
		return nil, ErrInvalidApiKey
	}
	if !subnetAllowed(key.SubnetAllowlist, remoteAddr) {
		s.logger.Warn("api key used from disallowed address", "keyId", id, "remoteAddr", remoteAddr)
		return nil, ErrInvalidApiKey
	}

	if err := s.apiKeyRepo.RecordCall(ctx, id, now); err != nil {
		// A failed bookkeeping write does not block the request
		s.logger.Warn("failed to record api key call", "keyId", id, "error", err)
	}
	return key, nil
}

// Retire permanently disables a key.
func (s *ApiKeyService) Retire(ctx context.Context, id string) error {
	if err := s.apiKeyRepo.Retire(ctx, id); err != nil {
		return err
	}
	return s.apiKeys.Delete(ctx, id)
}

// List returns every key, retired ones included.
func (s *ApiKeyService) List(ctx context.Context) ([]*model.ApiKey, error) {
	return s.apiKeyRepo.GetAll(ctx)
}

// lookup is cache-aside: redis first, mongo on miss.
func (s *ApiKeyService) lookup(ctx context.Context, id string) (*model.ApiKey, error) {
	if key, err := s.apiKeys.Get(ctx, id); err == nil && key != nil {
		return key, nil
	}

	key, err := s.apiKeyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if key != nil {
		if err := s.apiKeys.Set(ctx, key); err != nil {
			s.logger.Warn("failed to cache api key", "keyId", id, "error", err)
		}
	}
	return key, nil
}

func hashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

func subnetAllowed(allowlist []string, remoteAddr string) bool {
	if len(allowlist) == 0 {
		return true
	}
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	ip := net.ParseIP(strings.TrimSpace(host))
	if ip == nil {
		return false
	}
	for _, cidr := range allowlist {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			continue
		}
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
