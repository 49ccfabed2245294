// Package scan resolves configured mod folder specs and discovers
// the mod directories beneath them.
package scan

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"

	"go.lodestone.dev/lodestone/pkg/modconfig"
	"go.lodestone.dev/lodestone/pkg/util/envexpand"
	"go.lodestone.dev/lodestone/pkg/util/sets"
)

// Section and key names recognized in a mod configuration.
const (
	// PrimarySection is the section every mod configuration
	// starts from.
	PrimarySection = "Mods"
	// FolderSectionPrefix marks additional mod folder sections,
	// honored only when the primary section opts in.
	FolderSectionPrefix = "ModFolder"

	KeyBaseDir      = "baseDir"
	KeyDisabledList = "disabledModsListPath"
	KeyEnabledList  = "enabledModsListPath"
	KeyExtraFolders = "extraModFolders"
)

// ErrNoBaseDir is returned by ResolveSpec for sections without a
// usable baseDir entry. Such sections are skipped, not fatal.
var ErrNoBaseDir = errors.New("no baseDir configured")

// Filter is a caseless membership filter built from a mod list file.
// A nil Filter matches nothing and means "filter absent".
type Filter struct {
	names []string
	set   sets.Folded
}

func newFilter(names []string) *Filter {
	return &Filter{names: names, set: sets.NewFolded(names...)}
}

// Has reports whether name is in the filter, ignoring case.
func (f *Filter) Has(name string) bool {
	return f != nil && f.set.Has(name)
}

// Names returns the filter entries as written in the list file.
func (f *Filter) Names() []string {
	if f == nil {
		return nil
	}
	return f.names
}

// DirectorySpec is one resolved mod folder to scan: an absolute base
// directory plus optional allow and deny filters. A DirectorySpec is
// immutable and carries no filesystem state.
type DirectorySpec struct {
	// Section is the configuration section the spec came from.
	Section string
	// BaseDir is the absolute path of the folder holding mod
	// directories. It may not exist.
	BaseDir string
	// Deny skips matching mod directories. Deny wins over Allow.
	Deny *Filter
	// Allow, when present, restricts scanning to matching mod
	// directories.
	Allow *Filter
}

// ResolveSpec builds the DirectorySpec for a configuration section.
//
// The baseDir value is required; without it ErrNoBaseDir is returned
// and the caller skips the section. Placeholders in paths are
// expanded through lookup. List files that are missing or unreadable
// disable their filter instead of failing, the game must still boot
// when an operator deletes a list file.
func ResolveSpec(ctx context.Context, section *modconfig.Section, lookup envexpand.Lookup) (*DirectorySpec, error) {
	log := logr.FromContextOrDiscard(ctx).WithName("scan").WithValues("section", section.Name())

	raw, ok := section.Value(KeyBaseDir)
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" {
		return nil, fmt.Errorf("section %q: %w", section.Name(), ErrNoBaseDir)
	}
	base, err := filepath.Abs(envexpand.Expand(raw, lookup))
	if err != nil {
		return nil, fmt.Errorf("section %q: resolving baseDir %q: %w", section.Name(), raw, err)
	}

	spec := &DirectorySpec{Section: section.Name(), BaseDir: base}
	spec.Deny = loadFilter(log, section, KeyDisabledList, base, lookup)
	spec.Allow = loadFilter(log, section, KeyEnabledList, base, lookup)
	return spec, nil
}

// loadFilter reads the list file named by key, or nil if the key is
// unset or the file cannot be read.
func loadFilter(log logr.Logger, section *modconfig.Section, key, baseDir string, lookup envexpand.Lookup) *Filter {
	raw, ok := section.Value(key)
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" {
		return nil
	}
	path := envexpand.Expand(raw, lookup)
	if !filepath.IsAbs(path) {
		// Relative list paths live next to the mods they filter.
		path = filepath.Join(baseDir, path)
	}
	names, err := readListFile(path)
	if err != nil {
		log.Info("mod list file unavailable, filter not applied",
			"key", key, "path", path, "error", err)
		return nil
	}
	log.V(1).Info("loaded mod list file", "key", key, "path", path, "entries", len(names))
	return newFilter(names)
}
