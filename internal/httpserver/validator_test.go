package httpserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/catalog/internal/transport"
)

func TestValidator_UsesJSONNames(t *testing.T) {
	err := NewValidator().Validate(&transport.RegisterRequest{})

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"The name field is required."}, ve.Fields["name"])
	assert.Equal(t, []string{"The email field is required."}, ve.Fields["email"])
	assert.Equal(t, []string{"The password field is required."}, ve.Fields["password"])
	assert.Equal(t, "The name field is required. (and 2 more errors)", ve.Message())
}

func TestValidator_PatchOnlyChecksPresentFields(t *testing.T) {
	v := NewValidator()
	require.NoError(t, v.Validate(&transport.PatchProductRequest{}))

	empty := ""
	err := v.Validate(&transport.PatchProductRequest{Name: &empty})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"The name field must be at least 1 characters."}, ve.Fields["name"])
}

func TestValidationError_Message(t *testing.T) {
	ve := FieldError("email", "The email has already been taken.")
	assert.Equal(t, "The email has already been taken.", ve.Message())
	assert.Equal(t, ve.Message(), ve.Error())
}
