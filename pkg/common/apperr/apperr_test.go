package apperr

import (
	"errors"
	"net/http"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewError(t *testing.T) {
	err := NewError("key", 4004, MsgNotFound, http.StatusNotFound, nil)
	assert.Equal(t, "key not found", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestMapError(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"wrapped", cause, "index failed to verify: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError("index", tt.err, 5001, MsgVerifyFailed, http.StatusInternalServerError)
			if tt.err == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Error())
			assert.ErrorIs(t, got, cause)
			assert.Equal(t, http.StatusInternalServerError, got.HTTPStatus)
		})
	}
}

func TestAs(t *testing.T) {
	inner := New(4000, "bad", http.StatusBadRequest, nil)
	wrapped := pkgerrors.Wrap(inner, "handler")

	got, ok := As(wrapped)
	require.True(t, ok)
	assert.Same(t, inner, got)

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}
