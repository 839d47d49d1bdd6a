package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewErrorMatchesKind(t *testing.T) {
	err := NewError(ErrUnauthorized, "invalid credentials")
	assert.Equal(t, "invalid credentials", err.Error())
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.False(t, errors.Is(err, ErrForbidden))

	wrapped := fmt.Errorf("login: %w", err)
	assert.True(t, errors.Is(wrapped, ErrUnauthorized))
}

func TestRespondError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"not found", NewError(ErrNotFound, "farm not found"), http.StatusNotFound, "farm not found"},
		{"duplicate", ErrDuplicate, http.StatusConflict, "duplicate entry"},
		{"validation", NewError(ErrValidation, "name is required"), http.StatusBadRequest, "name is required"},
		{"forbidden", NewError(ErrForbidden, "permission denied"), http.StatusForbidden, "permission denied"},
		{"unauthorized", NewError(ErrUnauthorized, "invalid or missing token"), http.StatusUnauthorized, "invalid or missing token"},
		{"internal", errors.New("pq: connection refused"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RespondError(rec, tc.err)

			require.Equal(t, tc.status, rec.Code)
			var body ProblemDetail
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tc.status, body.Status)
			assert.Equal(t, tc.msg, body.Error)
		})
	}
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x","extra":1}`))
	var target struct {
		Name string `json:"name"`
	}
	err := DecodeJSON(req, &target)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestDecodeJSONRejectsOversizedBody(t *testing.T) {
	body := `{"name":"` + strings.Repeat("a", MaxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	var target struct {
		Name string `json:"name"`
	}
	err := DecodeJSON(req, &target)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "too large")
}

func TestValidationErrorUsesJSONNames(t *testing.T) {
	type input struct {
		Username string `json:"username" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		Role     string `json:"role" validate:"oneof=admin viewer"`
	}
	v := NewValidator()
	err := ValidationError(v.Struct(input{Email: "nope", Role: "root"}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Contains(t, err.Error(), "username is required")
	assert.Contains(t, err.Error(), "email must be a valid email")
	assert.Contains(t, err.Error(), "role must be one of [admin viewer]")

	assert.NoError(t, ValidationError(nil))
}
