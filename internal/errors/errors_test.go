package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIs_MatchesByCode(t *testing.T) {
	err := AlreadyExists("Portal 2 is already on the wishlist")

	assert.True(t, Is(err, ErrAlreadyExists))
	assert.False(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrValidation))
}

func TestIs_MatchesThroughWrapping(t *testing.T) {
	inner := Unavailable("catalog search timed out")
	wrapped := fmt.Errorf("submit: %w", inner)

	assert.True(t, Is(wrapped, ErrUnavailable))
}

func TestWithCause_UnwrapsToCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := ErrUnavailable.WithCause(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestWrap_PreservesCodeAndCause(t *testing.T) {
	cause := stderrors.New("EOF")
	err := Wrap(cause, CodeUnavailable, "read catalog response")

	var domainErr *Error
	require.True(t, As(err, &domainErr))
	assert.Equal(t, CodeUnavailable, domainErr.Code)
	assert.ErrorIs(t, err, cause)
}

func TestUserMessage_SurfacesValidationText(t *testing.T) {
	err := Validation("use the submissions channel for wishlist requests")

	assert.Equal(t, "use the submissions channel for wishlist requests", UserMessage(err))
}

func TestUserMessage_HidesInternalDetail(t *testing.T) {
	err := Internalf("persist wishlist: %v", stderrors.New("disk full"))

	msg := UserMessage(err)
	assert.NotContains(t, msg, "disk full")
}

func TestUserMessage_GenericForUnavailable(t *testing.T) {
	err := Unavailable("GET /api/storesearch: status 502")

	msg := UserMessage(err)
	assert.NotContains(t, msg, "502")
	assert.NotEmpty(t, msg)
}
