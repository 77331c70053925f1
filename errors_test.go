package embedded

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorIsMatchesType(t *testing.T) {
	err := newErrorf(NotRunning, "database is not running")
	assert.True(t, errors.Is(err, ErrNotRunning))
	assert.False(t, errors.Is(err, ErrAlreadyRunning))
	assert.Equal(t, "embedded: database is not running", err.Error())

	wrapped := errors.Wrap(err, "status")
	assert.True(t, errors.Is(wrapped, ErrNotRunning))
	assert.True(t, IsError(wrapped, NotRunning))
}

func TestMismatchCause(t *testing.T) {
	err := &Error{Type: ConfigMismatch, Message: "cannot join", Err: ErrDifferentQuietFlag}
	assert.True(t, errors.Is(err, ErrConfigMismatch))
	assert.True(t, errors.Is(err, ErrDifferentQuietFlag))
	assert.False(t, errors.Is(err, ErrDifferentDirectory))
}

func TestEngineError(t *testing.T) {
	assert.Nil(t, engineError(nil, "start"))

	cause := errors.New("disk full")
	err := engineError(cause, "start")
	assert.True(t, IsError(err, EngineFailure))
	assert.True(t, errors.Is(err, cause))

	own := NewError(ConnectionClosed, "closed")
	assert.Same(t, own, engineError(own, "execute"))
}

func TestErrorTypeString(t *testing.T) {
	assert.Equal(t, "configuration mismatch", ConfigMismatch.String())
	assert.Equal(t, "ErrorType(99)", ErrorType(99).String())
}
