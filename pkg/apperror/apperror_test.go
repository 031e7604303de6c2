package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCodes(t *testing.T) {
	cases := []struct {
		typ  Type
		want int
	}{
		{Validation, http.StatusBadRequest},
		{Conflict, http.StatusBadRequest},
		{Auth, http.StatusUnauthorized},
		{Forbidden, http.StatusForbidden},
		{NotFound, http.StatusNotFound},
		{Internal, http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, New(c.typ, "msg", nil).StatusCode())
	}
}

func TestAsUnwrapsChain(t *testing.T) {
	inner := NewNotFound("wishlist not found")
	wrapped := fmt.Errorf("loading: %w", inner)

	ae, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, NotFound, ae.Type)
	assert.True(t, IsType(wrapped, NotFound))
	assert.False(t, IsType(wrapped, Forbidden))
	assert.False(t, IsType(errors.New("plain"), NotFound))
}

func TestErrorStringIncludesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewInternal("failed to save wishlist", cause)

	assert.Contains(t, err.Error(), "failed to save wishlist")
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, cause, errors.Unwrap(err))
}
