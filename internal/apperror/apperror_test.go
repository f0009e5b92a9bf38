package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKinds(t *testing.T) {
	notFound := NotFound("order not found")
	conflict := Conflict("user already has an active session")
	invalid := Validation("quantity must be greater than zero")

	assert.Equal(t, "order not found", notFound.Error())

	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsNotFound(conflict))

	assert.True(t, IsConflict(conflict))
	assert.False(t, IsConflict(invalid))

	assert.True(t, IsValidation(invalid))
	assert.False(t, IsValidation(notFound))
}

func TestWrapped(t *testing.T) {
	sentinel := NotFound("session not found")
	wrapped := fmt.Errorf("get session 7: %w", sentinel)

	assert.True(t, errors.Is(wrapped, sentinel))
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsNotFound(errors.New("boom")))
}
