package sets

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	s := NewString("a", "b")
	require.True(t, s.Has("a"))
	require.False(t, s.Has("A"))
	require.Equal(t, 2, s.Len())

	s.Insert("c")
	require.True(t, s.Has("c"))
	s.Delete("a")
	require.False(t, s.Has("a"))
	require.ElementsMatch(t, []string{"b", "c"}, s.UnsortedList())
}

func TestFolded(t *testing.T) {
	s := NewFolded("ModA", "ModB")
	require.Equal(t, 2, s.Len())
	require.True(t, s.Has("moda"))
	require.True(t, s.Has("MODA"))
	require.True(t, s.Has("modb"))
	require.False(t, s.Has("modc"))

	// Folding deduplicates case variants.
	s.Insert("MODA")
	require.Equal(t, 2, s.Len())
}

func TestFold(t *testing.T) {
	require.Equal(t, Fold("Straße"), Fold("STRASSE"))
	require.Equal(t, Fold("FooMod"), Fold("foomod"))
}
