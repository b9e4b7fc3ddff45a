package layerkit

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormat(t *testing.T) {
	assert.Equal(t, "layerkit: 404 not found", ErrNotFound.Error())
	assert.Equal(t, "layerkit: 409 already exists", ErrExists.Error())
}

func TestErrorTimeout(t *testing.T) {
	assert.True(t, ErrTimeout.Timeout())
	assert.False(t, ErrNotFound.Timeout())
}

func TestWrapError(t *testing.T) {
	assert.Equal(t, ErrNotFound, WrapError(ErrNotFound))
	assert.Equal(t, ErrNotFound, WrapError(fmt.Errorf("loading: %w", ErrNotFound)))
	assert.Equal(t, ErrTimeout, WrapError(context.DeadlineExceeded))
	assert.Equal(t, ErrInternal, WrapError(nil))

	wrapped := WrapError(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, wrapped.Code)
	assert.Equal(t, "boom", wrapped.Message)
}

func TestWrapErrorRecoversFromMessage(t *testing.T) {
	// an Error flattened into a plain string round-trips through the message
	flat := errors.New(ErrExists.Error())
	assert.Equal(t, ErrExists, WrapError(flat))
}

func TestSentinelCodesDistinct(t *testing.T) {
	codes := map[int]bool{}
	for _, e := range []Error{
		ErrNotFound, ErrInvalid, ErrExists, ErrExpired,
		ErrUnsupportedFormat, ErrTimeout, ErrInternal,
	} {
		assert.False(t, codes[e.Code], "duplicate code %d", e.Code)
		codes[e.Code] = true
	}
}
