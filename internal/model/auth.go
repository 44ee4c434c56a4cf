package model

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role is the access level of an authenticated account.
type Role string

const (
	// RoleCiviFormAdmin manages questions, programs and versions.
	RoleCiviFormAdmin Role = "CIVIFORM_ADMIN"
	// RoleProgramAdmin reads applications for their granted programs.
	RoleProgramAdmin Role = "PROGRAM_ADMIN"
	// RoleTrustedIntermediary applies on behalf of client applicants.
	RoleTrustedIntermediary Role = "TRUSTED_INTERMEDIARY"
	// RoleApplicant fills out applications.
	RoleApplicant Role = "APPLICANT"
)

// AccountClaims are the JWT claims carried by every session token.
type AccountClaims struct {
	AccountID string `json:"accountId"`
	Role      Role   `json:"role"`
	// ProgramSlugs limits program admins to their granted programs.
	ProgramSlugs []string `json:"programSlugs,omitempty"`
	jwt.RegisteredClaims
}

// LoginRequest is the request body for admin login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Token     string `json:"token"`
	AccountID string `json:"accountId"`
	Role      Role   `json:"role"`
}

// ApiKey grants programmatic read access to program applications. The
// secret is stored only as a salted hash; the plaintext is shown once
// at creation time.
type ApiKey struct {
	ID         string `bson:"_id"`
	Name       string `bson:"name"`
	SecretHash string `bson:"secretHash"`

	// SubnetAllowlist restricts callers by CIDR; empty allows any.
	SubnetAllowlist []string `bson:"subnetAllowlist,omitempty"`
	// ProgramSlugs are the programs this key may read.
	ProgramSlugs []string `bson:"programSlugs"`

	ExpiresAt  time.Time  `bson:"expiresAt"`
	Retired    bool       `bson:"retired"`
	CreatedAt  time.Time  `bson:"createdAt"`
	LastCallAt *time.Time `bson:"lastCallAt,omitempty"`
}

// IsValidAt reports whether the key may be used at the given time.
func (k *ApiKey) IsValidAt(t time.Time) bool {
	return !k.Retired && t.Before(k.ExpiresAt)
}

// GrantsProgram reports whether the key may read the program.
func (k *ApiKey) GrantsProgram(slug string) bool {
	for _, s := range k.ProgramSlugs {
		if s == slug {
			return true
		}
	}
	return false
}
