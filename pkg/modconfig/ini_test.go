package modconfig

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"go.lodestone.dev/lodestone/pkg/util/errs"
)

func writeINI(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mods.ini")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFileReader(t *testing.T) {
	path := writeINI(t, `
; game mod configuration
[Mods]
baseDir = %UserDataFolder%/Mods
disabledModsListPath = disabled.txt
extraModFolders = true

[ModFolder_Workshop]
baseDir = /workshop/content
`)

	s, err := NewFileReader(path).Read(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, s.Len())

	require.Equal(t, "Mods", s.All()[0].Name())
	require.Equal(t, "ModFolder_Workshop", s.All()[1].Name())

	v, ok := s.All()[0].Value("baseDir")
	require.True(t, ok)
	require.Equal(t, "%UserDataFolder%/Mods", v)

	v, ok = s.All()[0].Value("extramodfolders")
	require.True(t, ok)
	require.True(t, Truthy(v))
}

func TestFileReaderKeepsInlineCommentChars(t *testing.T) {
	path := writeINI(t, "[Mods]\nbaseDir = /games/c# mods ; steam\n")

	s, err := NewFileReader(path).Read(context.Background())
	require.NoError(t, err)

	v, ok := s.All()[0].Value("baseDir")
	require.True(t, ok)
	require.Equal(t, "/games/c# mods ; steam", v)
}

func TestFileReaderMissing(t *testing.T) {
	_, err := NewFileReader(filepath.Join(t.TempDir(), "nope.ini")).Read(context.Background())
	require.ErrorIs(t, err, errs.ErrMissingConfig)
}

func TestFileReaderMalformed(t *testing.T) {
	path := writeINI(t, "[Mods\nbaseDir=/x\n")

	_, err := NewFileReader(path).Read(context.Background())
	require.Error(t, err)
	require.NotErrorIs(t, err, errs.ErrMissingConfig)
}
