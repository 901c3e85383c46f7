// Package include provides include resolvers for the DOC assembler.
package include

import (
	_ "embed"
	"io/fs"
	"log"
	"os"
	"path"

	"github.com/QcO-dev/doc/cpu"
)

// STD_PATH is the include path of the standard macro library.
const STD_PATH = "std.asm"

//go:embed std.asm
var stdSource string

// Std resolves the standard macro library.
var Std = Map{STD_PATH: stdSource}

// Map resolves includes from an in-memory library of sources.
type Map map[string]string

var _ cpu.Resolver = Map(nil)

func (m Map) Resolve(name string) (source string, ok bool) {
	source, ok = m[name]
	return
}

// FS resolves includes from a file system.
type FS struct {
	Verbose bool  // If set, logs include paths that could not be read.
	FS      fs.FS // File system include paths are relative to.
}

var _ cpu.Resolver = (*FS)(nil)

// Dir creates a resolver for the files under a host directory.
func Dir(dir string) *FS {
	return &FS{FS: os.DirFS(dir)}
}

func (r *FS) Resolve(name string) (source string, ok bool) {
	name = path.Clean(name)
	if !fs.ValidPath(name) {
		if r.Verbose {
			log.Printf("include: %q: %v", name, fs.ErrInvalid)
		}
		return
	}

	data, err := fs.ReadFile(r.FS, name)
	if err != nil {
		if r.Verbose {
			log.Printf("include: %v", err)
		}
		return
	}

	source = string(data)
	ok = true
	return
}

// Chain tries each resolver in turn; the first to resolve a path wins.
type Chain []cpu.Resolver

var _ cpu.Resolver = Chain(nil)

func (c Chain) Resolve(name string) (source string, ok bool) {
	for _, r := range c {
		if r == nil {
			continue
		}
		source, ok = r.Resolve(name)
		if ok {
			return
		}
	}

	return
}

// Default resolves files under each directory in turn, then the standard library.
func Default(verbose bool, dirs ...string) Chain {
	var chain Chain
	for _, dir := range dirs {
		r := Dir(dir)
		r.Verbose = verbose
		chain = append(chain, r)
	}

	return append(chain, Std)
}
