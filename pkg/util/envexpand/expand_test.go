package envexpand

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	lookup := Map(map[string]string{
		"UserDataFolder": "/data/lodestone",
		"GAME_HOME":      "/opt/game",
	})

	for _, tt := range []struct {
		in, want string
	}{
		{"", ""},
		{"plain/path", "plain/path"},
		{"%UserDataFolder%/Mods", "/data/lodestone/Mods"},
		{"%userdatafolder%/Mods", "/data/lodestone/Mods"},
		{"${GAME_HOME}/mods", "/opt/game/mods"},
		{"$GAME_HOME/mods", "/opt/game/mods"},
		{"$game_home/mods", "/opt/game/mods"},
		{"%Unknown%/mods", "%Unknown%/mods"},
		{"${Unknown}/mods", "${Unknown}/mods"},
		{"$Unknown/mods", "$Unknown/mods"},
		{"100%% done", "100%% done"},
		{"a$", "a$"},
		{"${unterminated", "${unterminated"},
		{"%GAME_HOME%and%GAME_HOME%", "/opt/gameand/opt/game"},
	} {
		require.Equal(t, tt.want, Expand(tt.in, lookup), "input %q", tt.in)
	}
}

func TestExpandChain(t *testing.T) {
	first := Map(map[string]string{"A": "1"})
	second := Map(map[string]string{"A": "2", "B": "3"})

	lookup := Chain(nil, first, second)
	require.Equal(t, "1", Expand("$A", lookup))
	require.Equal(t, "3", Expand("$B", lookup))
	require.Equal(t, "$C", Expand("$C", lookup))
}

func TestExpandNilLookup(t *testing.T) {
	require.Equal(t, "$A", Expand("$A", nil))
}
