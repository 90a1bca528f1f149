package goerror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_StatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "server", err: NewServer(errors.New("boom")), want: http.StatusInternalServerError},
		{name: "not found", err: NewBusiness("missing", CodeNotFound), want: http.StatusNotFound},
		{name: "forbidden", err: NewBusiness("nope", CodeForbidden), want: http.StatusForbidden},
		{name: "invalid input", err: NewInvalidInput(errors.New("bad")), want: http.StatusUnprocessableEntity},
		{name: "invalid format", err: NewInvalidFormat(), want: http.StatusBadRequest},
		{name: "odd kv", err: NewInvalidInput(nil, "field"), want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ge *Error
			assert.ErrorAs(t, tt.err, &ge)
			assert.Equal(t, tt.want, ge.StatusCode())
		})
	}
}

func TestNewInvalidInput_Fields(t *testing.T) {
	err := NewInvalidInput(nil, "targets", "at least one target is required")

	var ge *Error
	assert.ErrorAs(t, err, &ge)
	assert.Equal(t, map[string]string{"targets": "at least one target is required"}, ge.Fields())
	assert.Equal(t, "Validation error", ge.Error())
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewBusiness("conflict", CodeConflict))

	assert.True(t, HasCode(err, CodeConflict))
	assert.False(t, HasCode(err, CodeNotFound))
	assert.False(t, HasCode(errors.New("plain"), CodeConflict))
}

func TestNewServer_Unwrap(t *testing.T) {
	cause := errors.New("db down")
	assert.ErrorIs(t, NewServer(cause), cause)
}
