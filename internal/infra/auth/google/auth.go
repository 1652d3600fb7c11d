package google

import (
	"context"
	"strings"

	"prolits/internal/domain/entity"

	"github.com/pkg/errors"
	"google.golang.org/api/idtoken"
)

// validIssuers are the iss values Google signs ID tokens with.
var validIssuers = []string{"https://accounts.google.com", "accounts.google.com"}

// idTokenValidator verifies a Google ID token signature, audience and expiry.
type idTokenValidator func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// profileFromIDToken validates rawIDToken and converts its claims into a profile.
func profileFromIDToken(ctx context.Context, validate idTokenValidator, rawIDToken, clientID string) (*entity.OAuthProfile, error) {
	payload, err := validate(ctx, rawIDToken, clientID)
	if err != nil {
		return nil, errors.Wrap(err, "validate google id token")
	}
	if !isValidIssuer(payload.Issuer) {
		return nil, errors.Errorf("unexpected id token issuer %q", payload.Issuer)
	}

	return &entity.OAuthProfile{
		Provider:        entity.AuthProviderGoogle,
		Subject:         payload.Subject,
		Email:           claimString(payload.Claims, "email"),
		FirstName:       claimString(payload.Claims, "given_name"),
		LastName:        claimString(payload.Claims, "family_name"),
		ProfileImageURL: claimString(payload.Claims, "picture"),
	}, nil
}

func isValidIssuer(iss string) bool {
	for _, valid := range validIssuers {
		if iss == valid {
			return true
		}
	}

	return false
}

func claimString(claims map[string]any, key string) string {
	if claims == nil {
		return ""
	}
	value, _ := claims[key].(string)

	return strings.TrimSpace(value)
}
