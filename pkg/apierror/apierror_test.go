package apierror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromPlainErrorIsTransport(t *testing.T) {
	e := From(errors.New("boom"))
	require.NotNil(t, e)
	assert.Equal(t, 0, e.Status)
	assert.Equal(t, "boom", e.Message)
	assert.Equal(t, KindTransport, e.Kind)
}

func TestFromKeepsWrappedAPIError(t *testing.T) {
	orig := Protocol(404, "node not found")
	e := From(fmt.Errorf("fetch node: %w", orig))
	assert.Same(t, orig, e)
	assert.Equal(t, 404, StatusOf(e))
}

func TestFromNil(t *testing.T) {
	assert.Nil(t, From(nil))
	assert.Equal(t, 0, StatusOf(nil))
}

func TestProtocolDefaultMessage(t *testing.T) {
	assert.Equal(t, "HTTP 502", Protocol(502, "").Message)
}

func TestDecodeUnwrapsCause(t *testing.T) {
	cause := errors.New("unexpected EOF")
	e := Decode(200, cause)
	assert.ErrorIs(t, e, cause)
	assert.Equal(t, KindDecode, e.Kind)
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{Protocol(401, "x"), "Session expired. Please log in again."},
		{Protocol(403, "x"), "You do not have permission to perform this action."},
		{Protocol(404, "x"), "The requested resource was not found."},
		{Protocol(409, "x"), "This action conflicts with existing data."},
		{Protocol(500, "x"), "Server error. Please try again later."},
		{Protocol(418, "teapot"), "teapot"},
		{errors.New("dial tcp: refused"), "dial tcp: refused"},
		{nil, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, UserMessage(tt.err))
	}
}
