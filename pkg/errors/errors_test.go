package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCodes(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, NewValidation("bad").StatusCode())
	assert.Equal(t, http.StatusNotFound, NewNotFound("doctor").StatusCode())
	assert.Equal(t, http.StatusConflict, NewConflict("taken").StatusCode())
	assert.Equal(t, http.StatusForbidden, NewAuthorization("nope").StatusCode())
	assert.Equal(t, http.StatusUnauthorized, NewAuthentication("who").StatusCode())
	assert.Equal(t, http.StatusInternalServerError, NewInternal(fmt.Errorf("boom")).StatusCode())
}

func TestKindChecksThroughWrapping(t *testing.T) {
	err := fmt.Errorf("booking failed: %w", NewConflict("time slot is already booked"))

	assert.True(t, IsConflict(err))
	assert.False(t, IsNotFound(err))

	var appErr *AppError
	assert.True(t, AsAppError(err, &appErr))
	assert.Equal(t, "time slot is already booked", appErr.Message)
}

func TestNotFoundMessage(t *testing.T) {
	assert.Equal(t, "appointment not found", NewNotFound("appointment").Error())
}

func TestWithCause(t *testing.T) {
	cause := fmt.Errorf("pq: duplicate key")
	err := NewConflict("time slot is already booked").WithCause(cause)

	assert.True(t, IsConflict(err))
	assert.ErrorIs(t, err, cause)
}
