// Package mods provides the mod registry of a host process and the
// descriptors it holds.
package mods

import (
	"path/filepath"

	"go.lodestone.dev/lodestone/pkg/mods/modinfo"
)

// Descriptor describes one discovered mod directory.
// A Descriptor is immutable once registered.
type Descriptor struct {
	// Name is the mod identifier, the base name of its directory.
	Name string
	// Dir is the absolute path of the mod directory.
	Dir string
	// PatchersDir is the absolute path of the "patchers" payload
	// directory, or empty if the mod ships none.
	PatchersDir string
	// PluginsDir is the absolute path of the "plugins" payload
	// directory, or empty if the mod ships none.
	PluginsDir string
	// Info is optional metadata from the mod's marker file.
	// It may be nil, metadata never decides membership.
	Info *modinfo.ModInfo
}

// HasPatchers reports whether the mod ships a patcher payload.
func (d *Descriptor) HasPatchers() bool { return d.PatchersDir != "" }

// HasPlugins reports whether the mod ships a plugin payload.
func (d *Descriptor) HasPlugins() bool { return d.PluginsDir != "" }

// DisplayName returns the human readable name of the mod,
// falling back to the directory name.
func (d *Descriptor) DisplayName() string {
	if d.Info != nil {
		if d.Info.DisplayName != "" {
			return d.Info.DisplayName
		}
		if d.Info.Name != "" {
			return d.Info.Name
		}
	}
	return d.Name
}

// Version returns the mod version from its metadata, or "" if unknown.
func (d *Descriptor) Version() string {
	if d.Info == nil {
		return ""
	}
	return d.Info.Version
}

// String implements fmt.Stringer.
func (d *Descriptor) String() string {
	if d == nil {
		return "<nil>"
	}
	return d.Name
}

// NewDescriptor creates a Descriptor for dir, deriving the mod name
// from the directory base name.
func NewDescriptor(dir string) *Descriptor {
	return &Descriptor{Name: filepath.Base(dir), Dir: dir}
}
