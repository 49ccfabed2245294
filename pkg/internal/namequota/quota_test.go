package namequota

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlockedAfterBurst(t *testing.T) {
	q := NewQuota(0.01, 2, 16)

	require.False(t, q.Blocked("Newtonsoft.Json"))
	require.False(t, q.Blocked("newtonsoft.json")) // same name, folded
	require.True(t, q.Blocked("Newtonsoft.Json"))
}

func TestNamesIndependent(t *testing.T) {
	q := NewQuota(0.01, 1, 16)

	require.False(t, q.Blocked("A"))
	require.True(t, q.Blocked("A"))
	require.False(t, q.Blocked("B"))
}
