package modconfig

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSectionValueCaseless(t *testing.T) {
	sec := NewSection("Mods",
		KV("baseDir", "/mods"),
		KV("disabledModsListPath", "/mods/disabled.txt"),
	)

	v, ok := sec.Value("basedir")
	require.True(t, ok)
	require.Equal(t, "/mods", v)

	v, ok = sec.Value("BASEDIR")
	require.True(t, ok)
	require.Equal(t, "/mods", v)

	_, ok = sec.Value("enabledModsListPath")
	require.False(t, ok)
}

func TestSectionsOrderAndFind(t *testing.T) {
	s := NewSections(
		NewSection("Mods", KV("baseDir", "/a")),
		NewSection("ModFolder_Workshop", KV("baseDir", "/b")),
		NewSection("ModFolder_Local", KV("baseDir", "/c")),
		NewSection("Unrelated"),
	)

	require.Equal(t, 4, s.Len())

	sec, ok := s.Find("mods")
	require.True(t, ok)
	require.Equal(t, "Mods", sec.Name())

	_, ok = s.Find("missing")
	require.False(t, ok)

	pre := s.WithPrefix("modfolder")
	require.Len(t, pre, 2)
	require.Equal(t, "ModFolder_Workshop", pre[0].Name())
	require.Equal(t, "ModFolder_Local", pre[1].Name())
}

func TestTruthy(t *testing.T) {
	for _, v := range []string{"true", "True", "TRUE", "1", "yes", "Yes", "on", " on "} {
		require.True(t, Truthy(v), "value %q", v)
	}
	for _, v := range []string{"", "false", "0", "no", "off", "2", "enabled"} {
		require.False(t, Truthy(v), "value %q", v)
	}
}
