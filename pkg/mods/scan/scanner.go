package scan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
	"github.com/rs/xid"

	"go.lodestone.dev/lodestone/pkg/internal/suggest"
	"go.lodestone.dev/lodestone/pkg/mods"
	"go.lodestone.dev/lodestone/pkg/mods/modinfo"
	"go.lodestone.dev/lodestone/pkg/util/sets"
)

// Payload directory names probed inside a mod directory.
const (
	PatchersDirName = "patchers"
	PluginsDirName  = "plugins"
)

// Options configures a Scanner.
type Options struct {
	// Marker is the file name certifying a directory as a mod.
	// Defaults to modinfo.FileName.
	Marker string
}

// Scanner discovers mod directories under directory specs and
// registers them.
type Scanner struct {
	registry *mods.Registry
	marker   string
}

// NewScanner returns a Scanner registering into registry.
func NewScanner(registry *mods.Registry, opts Options) *Scanner {
	marker := opts.Marker
	if marker == "" {
		marker = modinfo.FileName
	}
	return &Scanner{registry: registry, marker: marker}
}

// Scan inspects the base directory of spec and registers every
// qualifying mod directory, in directory enumeration order.
// A missing base directory yields no mods and no error.
// The returned descriptors are the mods this call registered.
func (s *Scanner) Scan(ctx context.Context, spec *DirectorySpec) ([]*mods.Descriptor, error) {
	log := logr.FromContextOrDiscard(ctx).WithName("scan").WithValues(
		"section", spec.Section, "dir", spec.BaseDir, "scan", xid.New().String())

	entries, err := os.ReadDir(spec.BaseDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Info("mod folder does not exist, nothing to scan")
			return nil, nil
		}
		return nil, fmt.Errorf("listing mod folder %q: %w", spec.BaseDir, err)
	}

	var (
		added      []*mods.Descriptor
		childNames []string
	)
	for _, entry := range entries {
		if ctx.Err() != nil {
			return added, ctx.Err()
		}
		name := entry.Name()
		if !s.isDir(spec.BaseDir, entry) {
			continue
		}
		childNames = append(childNames, name)

		if spec.Deny.Has(name) {
			log.Info("skipping disabled mod", "mod", name)
			continue
		}
		if spec.Allow != nil && !spec.Allow.Has(name) {
			log.Info("skipping mod not in enabled list", "mod", name)
			continue
		}

		dir := filepath.Join(spec.BaseDir, name)
		markerPath := filepath.Join(dir, s.marker)
		if fi, err := os.Stat(markerPath); err != nil || fi.IsDir() {
			// No marker file, not a mod. Intentionally silent:
			// mod folders commonly hold unrelated directories.
			continue
		}

		d := mods.NewDescriptor(dir)
		if st, err := os.Stat(filepath.Join(dir, PatchersDirName)); err == nil && st.IsDir() {
			d.PatchersDir = filepath.Join(dir, PatchersDirName)
		}
		if st, err := os.Stat(filepath.Join(dir, PluginsDirName)); err == nil && st.IsDir() {
			d.PluginsDir = filepath.Join(dir, PluginsDirName)
		}
		if info, err := modinfo.Read(markerPath); err != nil {
			log.Info("mod metadata unreadable, registering without it", "mod", name, "error", err)
		} else {
			d.Info = info
		}

		if err := s.registry.Add(d); err != nil {
			return added, fmt.Errorf("registering mod %q: %w", name, err)
		}
		added = append(added, d)
		log.Info("registered mod", "mod", name,
			"version", d.Version(), "patchers", d.HasPatchers(), "plugins", d.HasPlugins())
	}

	s.hintUnmatched(log, spec, childNames)
	log.Info("scan complete", "candidates", len(childNames), "registered", len(added))
	return added, nil
}

// isDir reports whether entry is a directory, following symlinks.
func (s *Scanner) isDir(base string, entry fs.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	st, err := os.Stat(filepath.Join(base, entry.Name()))
	return err == nil && st.IsDir()
}

// hintUnmatched logs list file entries that matched no directory,
// with a best-effort suggestion for typos.
func (s *Scanner) hintUnmatched(log logr.Logger, spec *DirectorySpec, childNames []string) {
	children := sets.NewFolded(childNames...)
	for _, f := range []struct {
		key    string
		filter *Filter
	}{
		{KeyDisabledList, spec.Deny},
		{KeyEnabledList, spec.Allow},
	} {
		for _, name := range f.filter.Names() {
			if children.Has(name) {
				continue
			}
			kv := []any{"list", f.key, "entry", name}
			if hint := suggest.Best(name, childNames); hint != "" {
				kv = append(kv, "didYouMean", hint)
			}
			log.Info("mod list entry matched no directory", kv...)
		}
	}
}
