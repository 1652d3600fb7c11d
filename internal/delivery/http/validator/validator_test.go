package validator

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Nickname string `json:"nickname,omitempty" validate:"max=5"`
}

func TestCustomValidator_Validate(t *testing.T) {
	v := New()

	require.NoError(t, v.Validate(&registerRequest{Email: "alice@example.com", Password: "password123"}))

	err := v.Validate(&registerRequest{Email: "not-an-email", Password: "short", Nickname: "toolong"})

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, map[string]string{
		"email":    "must be a valid email address",
		"password": "must be at least 8 characters",
		"nickname": "must be at most 5 characters",
	}, validationErr.Fields)
	assert.Contains(t, err.Error(), "email must be a valid email address")
}

func TestCustomValidator_Required(t *testing.T) {
	err := New().Validate(&registerRequest{})

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "is required", validationErr.Fields["email"])
	assert.Equal(t, "is required", validationErr.Fields["password"])
}
