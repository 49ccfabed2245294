package lodestone

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.lodestone.dev/lodestone/pkg/lodestone/config"
)

func TestUserDataFromArgs(t *testing.T) {
	for _, tt := range []struct {
		name string
		args []string
		want string
		ok   bool
	}{
		{name: "exact", args: []string{"-userDataFolder=/data"}, want: "/data", ok: true},
		{name: "caseless", args: []string{"-USERDATAFOLDER=/data"}, want: "/data", ok: true},
		{name: "double dash", args: []string{"--userdatafolder=/data"}, want: "/data", ok: true},
		{name: "first wins", args: []string{"-userDataFolder=/a", "-userDataFolder=/b"}, want: "/a", ok: true},
		{name: "among other args", args: []string{"-nographics", "-batchmode", "-userDataFolder=/data"}, want: "/data", ok: true},
		{name: "empty value skipped", args: []string{"-userDataFolder="}, ok: false},
		{name: "no equals", args: []string{"-userDataFolder"}, ok: false},
		{name: "no dash", args: []string{"userDataFolder=/data"}, ok: false},
		{name: "different arg", args: []string{"-configFile=/data"}, ok: false},
		{name: "empty args", args: []string{}, ok: false},
		{name: "value keeps case", args: []string{"-userdatafolder=/Data/Game"}, want: "/Data/Game", ok: true},
	} {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := userDataFromArgs(tt.args)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUserDataFolderPrecedence(t *testing.T) {
	cfg := config.DefaultConfig
	cfg.UserDataFolder = "/from/config"

	got, err := UserDataFolder(&cfg, []string{"-userDataFolder=/from/arg"})
	require.NoError(t, err)
	assert.Equal(t, "/from/arg", got)

	got, err = UserDataFolder(&cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "/from/config", got)
}

func TestUserDataFolderDefault(t *testing.T) {
	cfg := config.DefaultConfig

	got, err := UserDataFolder(&cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, defaultFolderName, filepath.Base(got))
	assert.True(t, filepath.IsAbs(got))
}

func TestUserDataFolderRelativeArg(t *testing.T) {
	got, err := UserDataFolder(nil, []string{"-userDataFolder=data"})
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
	assert.Equal(t, "data", filepath.Base(got))
}
