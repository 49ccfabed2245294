package suggest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClosest(t *testing.T) {
	candidates := []string{"FooMod", "BarMod", "BazMod", "Unrelated"}

	got := Closest("fomod", candidates)
	require.NotEmpty(t, got)
	require.Equal(t, "FooMod", got[0])

	require.Empty(t, Closest("zzzzzz", []string{"abcdef"}))
}

func TestBest(t *testing.T) {
	require.Equal(t, "BarMod", Best("barmod", []string{"FooMod", "BarMod"}))
	require.Equal(t, "", Best("qqqqqq", []string{"abcdef"}))
}

func TestScore(t *testing.T) {
	require.Equal(t, 1.0, Score("foomod", "FooMod"))
	require.Greater(t, Score("foomod", "FooMod2"), 0.9)
	require.Less(t, Score("zzzzzz", "abcdef"), 0.2)
}
