// Package resolve searches registered mods for loadable binaries
// requested by the host runtime.
//
// The host asks for assembly-style display names; only the simple
// name takes part in matching, qualifiers after the first comma are
// ignored. Absence of a binary is a normal outcome, never an error:
// other resolvers of the host may still satisfy the request.
package resolve

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gammazero/deque"
	"github.com/go-logr/logr"

	"go.lodestone.dev/lodestone/pkg/mods"
	"go.lodestone.dev/lodestone/pkg/util/sets"
)

const (
	// DefaultExt is the binary extension searched for.
	DefaultExt = ".dll"
	// DefaultMaxDepth caps the directory depth searched below a
	// mod directory.
	DefaultMaxDepth = 8
)

// Options control how binaries are searched.
type Options struct {
	// Ext is the binary file extension to match.
	// Defaults to DefaultExt.
	Ext string
	// MaxDepth caps how many directory levels below a mod
	// directory are searched. Defaults to DefaultMaxDepth.
	MaxDepth int
}

func (o Options) ext() string {
	if o.Ext == "" {
		return DefaultExt
	}
	return o.Ext
}

func (o Options) maxDepth() int {
	if o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

// SimpleName extracts the simple name from an assembly-style display
// name like "Foo, Version=1.2.3, Culture=neutral".
func SimpleName(request string) string {
	name, _, _ := strings.Cut(request, ",")
	return strings.TrimSpace(name)
}

// Search looks for a binary file satisfying request, walking the
// registered mods in registration order. The first match wins.
// File name matching is caseless. Returns ("", false) when no mod
// provides the binary.
func Search(ctx context.Context, registry *mods.Registry, request string, opts Options) (string, bool) {
	simple := SimpleName(request)
	if simple == "" {
		return "", false
	}
	fileName := simple
	if !strings.EqualFold(filepath.Ext(simple), opts.ext()) {
		fileName += opts.ext()
	}
	want := sets.Fold(fileName)

	log := logr.FromContextOrDiscard(ctx).WithName("resolve")
	for _, d := range registry.Descriptors() {
		if ctx.Err() != nil {
			return "", false
		}
		if path, ok := searchDir(ctx, d.Dir, want, opts.maxDepth()); ok {
			log.V(1).Info("resolved dependency from mod",
				"request", request, "mod", d.Name, "path", path)
			return path, true
		}
	}
	return "", false
}

type dirDepth struct {
	path  string
	depth int
}

// searchDir walks root breadth first so a binary close to the mod
// root wins over one buried in nested payload folders.
func searchDir(ctx context.Context, root, foldedFile string, maxDepth int) (string, bool) {
	q := deque.New[dirDepth]()
	q.PushBack(dirDepth{path: root})
	for q.Len() > 0 {
		if ctx.Err() != nil {
			return "", false
		}
		cur := q.PopFront()
		entries, err := os.ReadDir(cur.path)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if isSubDir(cur.path, e) {
				if cur.depth+1 <= maxDepth {
					q.PushBack(dirDepth{path: filepath.Join(cur.path, e.Name()), depth: cur.depth + 1})
				}
				continue
			}
			if sets.Fold(e.Name()) == foldedFile {
				return filepath.Join(cur.path, e.Name()), true
			}
		}
	}
	return "", false
}

func isSubDir(base string, entry fs.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	st, err := os.Stat(filepath.Join(base, entry.Name()))
	return err == nil && st.IsDir()
}
