package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactories_HTTPStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"validation", NewValidation("bad"), CodeValidation, http.StatusBadRequest},
		{"not found", NewNotFound("invoice", "x"), CodeNotFound, http.StatusNotFound},
		{"precondition", NewPreconditionMissing("company profile"), CodePreconditionMissing, http.StatusPreconditionRequired},
		{"duplicate name", NewDuplicateName("template", "Classic"), CodeDuplicateName, http.StatusBadRequest},
		{"duplicate account", NewDuplicateAccountNumber("0001"), CodeDuplicateAccountNumber, http.StatusBadRequest},
		{"exhausted", NewNumberAllocationExhausted("invoice", 10), CodeNumberAllocationExhausted, http.StatusServiceUnavailable},
		{"render", NewRender(errors.New("engine down")), CodeRender, http.StatusInternalServerError},
		{"auth", NewAuthRequired("login"), CodeAuthRequired, http.StatusUnauthorized},
		{"conflict", NewConflict("busy"), CodeConflict, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, GetHTTPStatus(tt.err))
		})
	}
}

func TestAsAppError_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("load: %w", NewNotFound("client", "42"))

	appErr, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeNotFound, appErr.Code)
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsValidation(wrapped))
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(errors.New("plain")))
}

func TestFieldErrors(t *testing.T) {
	err := NewFieldError("items", "at least one item is required")
	assert.Equal(t, map[string]string{"items": "at least one item is required"}, err.FieldErrors())

	dup := NewDuplicateName("template", "Classic")
	assert.Contains(t, dup.FieldErrors(), "name")

	assert.Nil(t, NewConflict("x").FieldErrors())
}

func TestInternal_HidesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewInternal(cause)

	assert.Equal(t, "Internal server error", err.Message)
	assert.ErrorIs(t, err, cause)
}
