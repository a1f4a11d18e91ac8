package ecc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorUnwrap(t *testing.T) {
	err := NewError("curves.Decompress", "no square root", ErrInvalidEncoding)

	assert.True(t, errors.Is(err, ErrInvalidEncoding))
	assert.False(t, errors.Is(err, ErrPointNotOnCurve))
	assert.Equal(t, "curves.Decompress: invalid encoding: no square root", err.Error())

	var target *Error
	if !errors.As(err, &target) {
		t.Fatalf("errors.As failed to match *Error")
	}
	assert.Equal(t, "curves.Decompress", target.Op)
}

func TestErrorWithoutDetail(t *testing.T) {
	err := NewError("curves.ByName", "", ErrUnknownCurve)
	assert.Equal(t, "curves.ByName: unknown curve", err.Error())
}

func TestLabelMismatchIsInvalidEncoding(t *testing.T) {
	assert.True(t, errors.Is(ErrLabelMismatch, ErrInvalidEncoding))
}

func TestHashByName(t *testing.T) {
	for _, name := range HashNames() {
		t.Run(name, func(t *testing.T) {
			h, err := HashByName(name)
			assert.NoError(t, err)
			assert.NotNil(t, h())
		})
	}

	h, err := HashByName("sha512")
	assert.NoError(t, err)
	assert.Equal(t, 64, h().Size())

	_, err = HashByName("md5")
	assert.Error(t, err)
}
