package auth

import (
	"crypto/rand"
	"encoding/hex"

	"prolits/internal/domain/service"

	"github.com/pkg/errors"
)

// ResetTokenBytes is the entropy of a password reset token before hex encoding.
const ResetTokenBytes = 32

type randomResetTokenGenerator struct{}

// NewResetTokenGenerator returns a generator of 64-character hex tokens from crypto/rand.
func NewResetTokenGenerator() service.ResetTokenGenerator {
	return randomResetTokenGenerator{}
}

func (randomResetTokenGenerator) Generate() (string, error) {
	buf := make([]byte, ResetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "read random bytes")
	}

	return hex.EncodeToString(buf), nil
}
