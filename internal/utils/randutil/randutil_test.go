package randutil_test

import (
	"testing"

	"github.com/denmats/apihub/internal/utils/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomHexLength(t *testing.T) {
	s, err := randutil.RandomHex(24)
	require.NoError(t, err)
	assert.Len(t, s, 48)
}

func TestRandomHexUnique(t *testing.T) {
	a, err := randutil.RandomHex(24)
	require.NoError(t, err)
	b, err := randutil.RandomHex(24)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestElideMiddle(t *testing.T) {
	assert.Equal(t, "dmats...cdef", randutil.ElideMiddle("dmatsai_000000abcdef", 5, 4))
	assert.Equal(t, "short", randutil.ElideMiddle("short", 5, 4))
}
