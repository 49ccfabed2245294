package modinfo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	info, err := Parse(strings.NewReader(`<?xml version="1.0" encoding="UTF-8" ?>
<xml>
	<Name value="FooMod" />
	<DisplayName value="Foo Mod" />
	<Version value="1.2.3" />
	<Description value="Adds foo." />
	<Author value="Jules" />
	<Website value="https://example.com" />
</xml>`))
	require.NoError(t, err)
	require.Equal(t, &ModInfo{
		Name:        "FooMod",
		DisplayName: "Foo Mod",
		Version:     "1.2.3",
		Description: "Adds foo.",
		Author:      "Jules",
		Website:     "https://example.com",
	}, info)
}

func TestParseLegacyNested(t *testing.T) {
	info, err := Parse(strings.NewReader(`<?xml version="1.0" encoding="UTF-8" ?>
<xml>
	<ModInfo>
		<Name value="OldMod" />
		<Version value="0.9" />
	</ModInfo>
</xml>`))
	require.NoError(t, err)
	require.Equal(t, "OldMod", info.Name)
	require.Equal(t, "0.9", info.Version)
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse(strings.NewReader("<xml><Name value="))
	require.Error(t, err)
}

func TestParseEmptyDocument(t *testing.T) {
	info, err := Parse(strings.NewReader("<xml></xml>"))
	require.NoError(t, err)
	require.Equal(t, &ModInfo{}, info)
}

func TestRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(`<xml><Name value="DiskMod"/></xml>`), 0644))

	info, err := Read(path)
	require.NoError(t, err)
	require.Equal(t, "DiskMod", info.Name)

	_, err = Read(filepath.Join(dir, "missing.xml"))
	require.Error(t, err)
}
