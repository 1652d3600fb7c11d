package service

import (
	"time"

	"prolits/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload of a bearer token. Subject carries the user id.
type Claims struct {
	Email     string              `json:"email"`
	FirstName string              `json:"first_name,omitempty"`
	LastName  string              `json:"last_name,omitempty"`
	Role      entity.Role         `json:"role"`
	Provider  entity.AuthProvider `json:"provider,omitempty"`
	jwt.RegisteredClaims
}

// Identity converts verified claims back into the normalized identity.
func (c *Claims) Identity() entity.Identity {
	return entity.Identity{
		SubjectID: c.Subject,
		Email:     c.Email,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Role:      c.Role,
		Provider:  c.Provider,
	}
}

// TokenService issues and verifies signed, stateless session tokens.
type TokenService interface {
	// Issue signs a token for identity that expires after TTL().
	Issue(identity entity.Identity) (string, error)

	// Verify checks signature, algorithm, issuer and expiry and returns the claims.
	// Any failure is reported as domainerrors.ErrInvalidToken.
	Verify(tokenString string) (*Claims, error)

	// TTL returns the configured lifetime of issued tokens.
	TTL() time.Duration
}
