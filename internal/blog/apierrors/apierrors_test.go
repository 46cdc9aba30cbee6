package apierrors

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithFormattedMessage(t *testing.T) {
	e := ErrRenderFormat.WithFormattedMessage("docx")
	assert.Equal(t, "unsupported format docx", e.Err)
	assert.Equal(t, "Неподдерживаемый формат docx", e.RuErr)
	assert.Equal(t, "unsupported format %s", ErrRenderFormat.Err)

	e = ErrInvalidID.WithFormattedMessage()
	assert.Equal(t, "invalid id ", e.Err)
}

func TestDefinedErrorJSON(t *testing.T) {
	b, err := json.Marshal(ErrPostNotFound)
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":2001,"error":"post not found","ru_error":"Пост не найден"}`, string(b))
}

func TestCodesUnique(t *testing.T) {
	all := []DefinedError{
		ErrGeneric, ErrInternal, ErrEntityToLarge, ErrUserIDRequired, ErrInvalidID, ErrValidationFailed,
		ErrPostNotFound, ErrPostTitleRequired, ErrPostStatusInvalid, ErrPostExternalURLEmpty,
		ErrDocumentInvalid, ErrDocumentUnavailable, ErrHTMLImportFailed,
		ErrRenderFormat, ErrRenderFailed,
	}
	seen := map[int]bool{}
	for _, e := range all {
		assert.False(t, seen[e.Code], e.Err)
		seen[e.Code] = true
	}

	var target DefinedError
	assert.True(t, errors.As(error(ErrPostNotFound), &target))
}
