package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	assert.NoError(t, Wrap("loading blocks", nil))

	cause := errors.New("database is closed")
	err := Wrap("loading blocks", cause)
	var oe *OpError
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, "loading blocks", oe.Op)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "loading blocks: database is closed", err.Error())

	outer := fmt.Errorf("analyzing: %w", err)
	assert.Same(t, outer, Wrap("listing days", outer))
}
