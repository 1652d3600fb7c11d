// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"strings"
	"time"
)

// User is a single account of the property management platform, regardless of how it signs in.
type User struct {
	ID               string       // UUID for manual accounts, "<provider>_<subject>" for OAuth accounts.
	Email            string       // Unique across all providers, compared case-insensitively.
	FirstName        string       // Given name.
	LastName         string       // Family name.
	ProfileImageURL  string       // Avatar URL reported by the identity provider, if any.
	PasswordHash     *string      // bcrypt hash; nil for OAuth-only accounts.
	AuthProvider     AuthProvider // How the account was created and how it signs in.
	Role             Role         // Authorization role, defaults to tenant.
	ResetToken       *string      // Live password reset token, if one was issued.
	ResetTokenExpiry *time.Time   // Set if and only if ResetToken is set.
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CanUsePassword reports whether password login and password reset apply to this account.
func (u *User) CanUsePassword() bool {
	return u.AuthProvider == AuthProviderManual && u.PasswordHash != nil && *u.PasswordHash != ""
}

// HasLiveResetToken reports whether a reset token is set and not yet expired at now.
func (u *User) HasLiveResetToken(now time.Time) bool {
	return u.ResetToken != nil && u.ResetTokenExpiry != nil && now.Before(*u.ResetTokenExpiry)
}

// Identity returns the claims every session for this user asserts.
func (u *User) Identity() Identity {
	return Identity{
		SubjectID: u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		Provider:  u.AuthProvider,
	}
}

// NormalizeEmail trims surrounding whitespace. Case is kept as given and only ignored on lookup.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(email)
}
