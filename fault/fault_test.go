package fault

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvalid(t *testing.T) {
	err := Invalid("cmac.New", "tagBits", "must be in (0, %d]", 128)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.False(t, errors.Is(err, ErrPrimitiveFault))
	assert.Equal(t, "cmac.New: invalid argument: tagBits: must be in (0, 128]", err.Error())

	var fe *Error
	if assert.True(t, errors.As(err, &fe)) {
		assert.Equal(t, "tagBits", fe.Field)
	}
}

func TestPrimitive(t *testing.T) {
	cause := errors.New("bad iv size")
	err := Primitive("modes.ZUC", cause)
	assert.True(t, errors.Is(err, ErrPrimitiveFault))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "modes.ZUC: primitive fault: bad iv size", err.Error())
}

func TestLength(t *testing.T) {
	assert.NoError(t, Length("op", "key", make([]byte, 16), 16, 32))
	assert.NoError(t, Length("op", "key", make([]byte, 32), 16, 32))

	err := Length("op", "key", make([]byte, 15), 16)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Contains(t, err.Error(), "want 16 bytes, got 15")

	err = Length("op", "key", make([]byte, 24), 16, 32)
	assert.Contains(t, err.Error(), "want one of [16 32] bytes, got 24")
}

func TestJoin(t *testing.T) {
	assert.NoError(t, Join(nil, nil))
	err := Join(Invalid("a", "x", "bad"), nil, Primitive("b", errors.New("c")))
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.ErrorIs(t, err, ErrPrimitiveFault)
}
