package modconfig

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-logr/logr"
	"gopkg.in/ini.v1"

	"go.lodestone.dev/lodestone/pkg/util/errs"
)

// FileReader reads mod configuration from an INI file on disk.
type FileReader struct {
	// Path of the INI file.
	Path string
}

var _ Reader = (*FileReader)(nil)

// NewFileReader returns a Reader for the INI file at path.
func NewFileReader(path string) *FileReader {
	return &FileReader{Path: path}
}

// Read implements Reader.
func (r *FileReader) Read(ctx context.Context) (*Sections, error) {
	if _, err := os.Stat(r.Path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("mod configuration %q: %w", r.Path, errs.ErrMissingConfig)
		}
		return nil, fmt.Errorf("stat mod configuration %q: %w", r.Path, err)
	}

	f, err := ini.LoadSources(ini.LoadOptions{
		// Values are paths that may contain # or ; characters.
		IgnoreInlineComment: true,
	}, r.Path)
	if err != nil {
		return nil, fmt.Errorf("reading mod configuration %q: %w", r.Path, err)
	}

	var sections []*Section
	for _, sec := range f.Sections() {
		if sec.Name() == ini.DefaultSection {
			// Keys outside any section have no meaning here.
			continue
		}
		pairs := make([]KeyValue, 0, len(sec.Keys()))
		for _, key := range sec.Keys() {
			pairs = append(pairs, KeyValue{Name: key.Name(), Value: key.Value()})
		}
		sections = append(sections, NewSection(sec.Name(), pairs...))
	}

	logr.FromContextOrDiscard(ctx).V(1).Info("read mod configuration",
		"path", r.Path, "sections", len(sections))
	return NewSections(sections...), nil
}
