package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCodeMapping(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{CodeBadRequest, http.StatusBadRequest},
		{CodeValidationFailed, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeQuotaExceeded, http.StatusTooManyRequests},
		{CodeExternalServiceError, http.StatusBadGateway},
		{CodeInternal, http.StatusInternalServerError},
		{CodeModelOutputInvalid, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.code, "x").StatusCode())
		})
	}
}

func TestDefaultMessages(t *testing.T) {
	assert.Equal(t, "User not authenticated", NewUnauthorizedError("").Message)
	assert.Equal(t, "Request denied", NewForbiddenError("").Message)
	assert.Equal(t, "Resource not found", NewNotFoundError("").Message)
	assert.Equal(t, "custom", NewUnauthorizedError("custom").Message)
}

func TestWrap(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		assert.Nil(t, Wrap(nil, "ignored"))
	})

	t.Run("app errors keep their code", func(t *testing.T) {
		original := NewQuotaExceededError("limit reached")
		wrapped := Wrap(original, "ignored")
		assert.Equal(t, CodeQuotaExceeded, wrapped.Code)
		assert.Equal(t, "limit reached", wrapped.Message)
	})

	t.Run("plain errors become internal with a cause", func(t *testing.T) {
		cause := fmt.Errorf("dial tcp: connection refused")
		wrapped := Wrap(cause, "Something broke")
		assert.Equal(t, CodeInternal, wrapped.Code)
		assert.Equal(t, cause, wrapped.Unwrap())
	})
}

func TestIsAndGetCode(t *testing.T) {
	err := NewExternalServiceError("upstream down", fmt.Errorf("timeout"))
	assert.True(t, Is(err, CodeExternalServiceError))
	assert.False(t, Is(err, CodeQuotaExceeded))
	assert.False(t, Is(fmt.Errorf("plain"), CodeInternal))
	assert.Equal(t, CodeExternalServiceError, GetCode(err))
	assert.Equal(t, CodeInternal, GetCode(fmt.Errorf("plain")))
}
