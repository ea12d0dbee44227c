package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodeClassDetail(t *testing.T) {
	// spec.md §8 scenario D: byte 0b010_00101 -> {class=2, detail=5} "2.05 Content"
	c := Code(0b010_00101)
	require.EqualValues(t, 2, c.Class())
	require.EqualValues(t, 5, c.Detail())
	require.Equal(t, "2.05", c.String())
	require.Equal(t, Content, c)
}

func TestNewCodeRoundTrip(t *testing.T) {
	require.Equal(t, NotFound, NewCode(4, 4))
}

func TestCodeClassRouting(t *testing.T) {
	require.True(t, GET.IsRequest())
	require.False(t, Content.IsRequest())

	require.True(t, Content.IsResponse())
	require.True(t, NotFound.IsResponse())
	require.True(t, InternalServerError.IsResponse())

	require.False(t, GET.IsResponse())
	require.False(t, Empty.IsResponse())

	require.True(t, Empty.IsEmpty())
}

func TestNextIDDistinctAcrossBackToBackCalls(t *testing.T) {
	seen := make(map[Id]bool, 64)
	for i := 0; i < 64; i++ {
		id := NextID()
		require.False(t, seen[id], "NextID produced a repeat within a short window: %v", id)
		seen[id] = true
	}
}

func TestTokenEqualAndClone(t *testing.T) {
	a := Token{1, 2, 3}
	b := a.Clone()
	require.True(t, a.Equal(b))

	b[0] = 9
	require.False(t, a.Equal(b), "mutating the clone should not affect the original")

	require.True(t, Token(nil).Valid())
	require.True(t, Token(make([]byte, 8)).Valid())
	require.False(t, Token(make([]byte, 9)).Valid())
}
