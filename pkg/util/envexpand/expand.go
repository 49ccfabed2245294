// Package envexpand expands environment-style placeholders in
// configuration values taken from mod configuration files.
//
// Supported placeholder forms are ${name}, $name and %name%.
// Name matching is caseless. Placeholders that do not resolve are
// left untouched so a broken entry stays visible in logs instead of
// silently collapsing to an empty path.
package envexpand

import (
	"os"
	"strings"

	"go.lodestone.dev/lodestone/pkg/util/sets"
)

// Lookup resolves a placeholder name to its value.
type Lookup func(name string) (string, bool)

// Map returns a Lookup for m, matching names caselessly.
func Map(m map[string]string) Lookup {
	folded := make(map[string]string, len(m))
	for k, v := range m {
		folded[sets.Fold(k)] = v
	}
	return func(name string) (string, bool) {
		v, ok := folded[sets.Fold(name)]
		return v, ok
	}
}

// OS returns a Lookup backed by the process environment.
// Names are matched caselessly to behave the same on Windows
// and Unix hosts.
func OS() Lookup {
	return func(name string) (string, bool) {
		if v, ok := os.LookupEnv(name); ok {
			return v, true
		}
		want := sets.Fold(name)
		for _, kv := range os.Environ() {
			if k, v, ok := strings.Cut(kv, "="); ok && sets.Fold(k) == want {
				return v, true
			}
		}
		return "", false
	}
}

// Chain tries each lookup in order, first hit wins.
func Chain(lookups ...Lookup) Lookup {
	return func(name string) (string, bool) {
		for _, l := range lookups {
			if l == nil {
				continue
			}
			if v, ok := l(name); ok {
				return v, true
			}
		}
		return "", false
	}
}

// Expand replaces all placeholders in s using lookup.
func Expand(s string, lookup Lookup) string {
	if lookup == nil || !strings.ContainsAny(s, "$%") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		switch s[i] {
		case '%':
			end := strings.IndexByte(s[i+1:], '%')
			if end < 1 {
				// No closing percent or empty name.
				b.WriteByte(s[i])
				i++
				continue
			}
			name := s[i+1 : i+1+end]
			if v, ok := lookup(name); ok {
				b.WriteString(v)
			} else {
				b.WriteString(s[i : i+end+2])
			}
			i += end + 2
		case '$':
			if i+1 < len(s) && s[i+1] == '{' {
				end := strings.IndexByte(s[i+2:], '}')
				if end < 0 {
					b.WriteString(s[i:])
					return b.String()
				}
				name := s[i+2 : i+2+end]
				if v, ok := lookup(name); ok {
					b.WriteString(v)
				} else {
					b.WriteString(s[i : i+end+3])
				}
				i += end + 3
				continue
			}
			j := i + 1
			for j < len(s) && isNameByte(s[j]) {
				j++
			}
			if j == i+1 {
				b.WriteByte(s[i])
				i++
				continue
			}
			name := s[i+1 : j]
			if v, ok := lookup(name); ok {
				b.WriteString(v)
			} else {
				b.WriteString(s[i:j])
			}
			i = j
		default:
			b.WriteByte(s[i])
			i++
		}
	}
	return b.String()
}

func isNameByte(c byte) bool {
	return c == '_' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}
