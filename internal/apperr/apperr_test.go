package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/d9705996/ideaportal/internal/apperr"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"unauthenticated", apperr.Unauthenticated("no token"), http.StatusUnauthorized},
		{"forbidden", apperr.Forbidden("not yours"), http.StatusForbidden},
		{"not found", apperr.NotFound("idea %d not found", 3), http.StatusNotFound},
		{"validation", apperr.Validation("bad"), http.StatusBadRequest},
		{"conflict", apperr.Conflict("dup"), http.StatusConflict},
		{"wrapped", fmt.Errorf("delete idea: %w", apperr.NotFound("gone")), http.StatusNotFound},
		{"plain", errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, apperr.HTTPStatus(tc.err))
		})
	}
}

func TestMessage(t *testing.T) {
	err := fmt.Errorf("update idea: %w", apperr.Validation("invalid department %q", "Sales"))
	assert.Equal(t, `invalid department "Sales"`, apperr.Message(err, "failed"))
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	assert.Equal(t, "failed to delete idea", apperr.Message(errors.New("boom"), "failed to delete idea"))
}
