package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_IsMatchesKindAndCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("saving version: %w", NewConflictError("version number already taken"))

	assert.True(t, errors.Is(err, ErrConflict))
	assert.False(t, errors.Is(err, ErrNotFound))

	wrapped := NewAppError(http.StatusInternalServerError, "failed to save", cause)
	assert.True(t, errors.Is(wrapped, cause))
	assert.Equal(t, "failed to save: connection refused", wrapped.Error())
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "submission not found", PublicMessage(fmt.Errorf("x: %w", NewNotFoundError("submission not found")), "generic"))
	assert.Equal(t, "generic", PublicMessage(NewAppError(http.StatusInternalServerError, "pgx: boom", nil), "generic"))
	assert.Equal(t, "generic", PublicMessage(errors.New("plain"), "generic"))
}
