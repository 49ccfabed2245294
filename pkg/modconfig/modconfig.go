// Package modconfig defines the contract between a game's mod
// configuration file and the mod discovery pipeline.
//
// The pipeline never parses configuration syntax itself. It consumes
// an ordered Sections snapshot produced by a Reader, so hosts with a
// different configuration source only need to provide their own
// Reader implementation.
package modconfig

import (
	"context"
	"strings"

	"go.lodestone.dev/lodestone/pkg/util/sets"
)

// Reader produces the mod configuration snapshot of a game.
type Reader interface {
	// Read returns the configuration sections in file order.
	// Absence of the configuration is reported by wrapping
	// errs.ErrMissingConfig, which callers treat as "no mods
	// configured" rather than a failure.
	Read(ctx context.Context) (*Sections, error)
}

// KeyValue is a single configuration entry of a section.
type KeyValue struct {
	Name  string
	Value string
}

// KV is a convenience constructor for a KeyValue.
func KV(name, value string) KeyValue { return KeyValue{Name: name, Value: value} }

// Section is a named group of configuration entries.
// Key lookup is caseless, entry order is preserved.
type Section struct {
	name string
	keys []KeyValue
}

// NewSection creates a Section with the given entries.
func NewSection(name string, pairs ...KeyValue) *Section {
	return &Section{name: name, keys: pairs}
}

// Name returns the section name as written in the source.
func (s *Section) Name() string { return s.name }

// Keys returns the entries in source order.
func (s *Section) Keys() []KeyValue { return s.keys }

// Value returns the value of the named key, matched caselessly.
// The first matching entry wins.
func (s *Section) Value(key string) (string, bool) {
	want := sets.Fold(key)
	for _, kv := range s.keys {
		if sets.Fold(kv.Name) == want {
			return kv.Value, true
		}
	}
	return "", false
}

// Sections is an ordered mod configuration snapshot.
type Sections struct {
	list []*Section
}

// NewSections creates a snapshot from sections in order.
func NewSections(sections ...*Section) *Sections {
	return &Sections{list: sections}
}

// All returns the sections in source order.
func (s *Sections) All() []*Section {
	if s == nil {
		return nil
	}
	return s.list
}

// Len returns the number of sections.
func (s *Sections) Len() int {
	if s == nil {
		return 0
	}
	return len(s.list)
}

// Find returns the first section with the given name, matched caselessly.
func (s *Sections) Find(name string) (*Section, bool) {
	want := sets.Fold(name)
	for _, sec := range s.All() {
		if sets.Fold(sec.name) == want {
			return sec, true
		}
	}
	return nil, false
}

// WithPrefix returns all sections whose name starts with prefix,
// matched caselessly, in source order.
func (s *Sections) WithPrefix(prefix string) []*Section {
	want := sets.Fold(prefix)
	var out []*Section
	for _, sec := range s.All() {
		if strings.HasPrefix(sets.Fold(sec.name), want) {
			out = append(out, sec)
		}
	}
	return out
}

// Truthy reports whether a configuration value opts a feature in.
// Recognized are true, 1, yes and on, in any case.
func Truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}
