package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorWrapping(t *testing.T) {
	err := NotFoundError("/tmp/missing.pdf")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "NOT_FOUND")

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, CodeNotFound, appErr.Code)
}

func TestExtractionErrorKeepsCause(t *testing.T) {
	cause := fmt.Errorf("bad xref")
	err := ExtractionError("a.pdf", cause)
	assert.True(t, errors.Is(err, ErrExtraction))
	assert.True(t, errors.Is(err, cause))
	assert.True(t, IsFatal(err))
}

func TestResponseFormatIsNotFatal(t *testing.T) {
	err := ResponseFormatError(errors.New("unexpected end of JSON input"))
	assert.True(t, errors.Is(err, ErrResponseFormat))
	assert.False(t, IsFatal(err))
	assert.Nil(t, WrapError(nil, "ignored"))
}

func TestResponseShapeIsSeparateFromFormat(t *testing.T) {
	err := ResponseShapeError(errors.New("top-level value is not an object"))
	assert.True(t, errors.Is(err, ErrResponseShape))
	assert.False(t, errors.Is(err, ErrResponseFormat))
	assert.True(t, IsResponseError(err))
	assert.True(t, IsResponseError(ResponseFormatError(errors.New("x"))))
	assert.False(t, IsFatal(err))
	assert.Contains(t, err.Error(), "unexpected model response shape")
}
