package stack_error

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBase = errors.New("base")

func TestTrackErrorStack(t *testing.T) {
	te := TrackErrorStack(errBase).AddContext("post_id", "1")
	te = TrackErrorStack(fmt.Errorf("wrap: %w", te))
	te.AddContext("post_id", "2")

	assert.ErrorIs(t, te, errBase)
	assert.Len(t, te.ErrStack, 2)
	assert.Equal(t, "1", te.Context["post_id"])
	assert.Contains(t, te.ErrStack[0].Value.String(), "error_test.go")

	attrs := te.Attrs()
	require.Len(t, attrs, 3)
}
