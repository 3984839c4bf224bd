package shared

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAppError(t *testing.T) {
	cause := errors.New("boom")
	wrapped := fmt.Errorf("tutor: %w", NewBadGatewayError(cause, "Generation failed"))

	appErr, ok := GetAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, appErr.StatusCode)
	assert.Equal(t, "Generation failed", appErr.Message)
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, "Generation failed: boom", appErr.Error())

	_, ok = GetAppError(cause)
	assert.False(t, ok)
}

func TestAppErrorConstructors(t *testing.T) {
	tests := []struct {
		err  *AppError
		code int
	}{
		{NewBadRequestError(nil, "bad"), http.StatusBadRequest},
		{NewUnauthorizedError(nil, "who"), http.StatusUnauthorized},
		{NewForbiddenError(nil, "locked"), http.StatusForbidden},
		{NewNotFoundError(nil, "gone"), http.StatusNotFound},
		{NewConflictError(nil, "taken"), http.StatusConflict},
		{NewTooManyRequestsError(nil, "slow down"), http.StatusTooManyRequests},
		{NewBadGatewayError(nil, "upstream"), http.StatusBadGateway},
		{NewInternalError(nil, "oops"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, tt.err.StatusCode, tt.err.Message)
		assert.Equal(t, tt.err.Message, tt.err.Error())
	}

	withData := NewBadRequestError(nil, "Validation failed").WithData([]string{"persona"})
	assert.Equal(t, []string{"persona"}, withData.Data)
}
