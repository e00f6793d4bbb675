// Package models defines server-side data models persisted in the database.
package models

import "time"

// Account roles. A role is set once at provisioning time and never changes
// afterwards.
const (
	RoleCandidate     = "candidate"
	RoleEmployer      = "employer"
	RoleAdministrator = "administrator"
)

// Authentication provider tags.
const (
	ProviderLocal     = "local"
	ProviderFederated = "federated"
)

// Account is the identity record. Exactly one Account exists per email
// (case-insensitive; the email is stored normalized to lower case).
// PasswordHash is empty for federated accounts.
type Account struct {
	ID            string
	Email         string
	PasswordHash  string
	GivenName     string
	FamilyName    string
	Phone         string
	Role          string
	Provider      string
	EmailVerified bool
	VerifyToken   string
	// RefreshToken is the currently valid refresh token, replaced on every
	// login and rotation. Empty until the first pair is issued.
	RefreshToken string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func ValidRole(role string) bool {
	switch role {
	case RoleCandidate, RoleEmployer, RoleAdministrator:
		return true
	}
	return false
}
