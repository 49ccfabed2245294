package mods

import (
	"testing"

	"github.com/stretchr/testify/require"

	"go.lodestone.dev/lodestone/pkg/mods/modinfo"
)

func TestDescriptorDisplayName(t *testing.T) {
	d := NewDescriptor("/mods/FooMod")
	require.Equal(t, "FooMod", d.Name)
	require.Equal(t, "FooMod", d.DisplayName())
	require.Equal(t, "", d.Version())

	d.Info = &modinfo.ModInfo{Name: "foo.internal", Version: "2.0"}
	require.Equal(t, "foo.internal", d.DisplayName())
	require.Equal(t, "2.0", d.Version())

	d.Info.DisplayName = "Foo Mod"
	require.Equal(t, "Foo Mod", d.DisplayName())
}

func TestDescriptorPayloads(t *testing.T) {
	d := NewDescriptor("/mods/FooMod")
	require.False(t, d.HasPatchers())
	require.False(t, d.HasPlugins())

	d.PatchersDir = d.Dir + "/patchers"
	require.True(t, d.HasPatchers())

	d.PluginsDir = d.Dir + "/plugins"
	require.True(t, d.HasPlugins())
}
