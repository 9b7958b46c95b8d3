// Copyright 2020-2023 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package lazyimport

import (
	"io/fs"

	"github.com/kralicky/lazyimport/instrument"
)

// Source is what a Finder hands back for a module path it could locate:
// the resolved path and the bytes the Host should compile.
type Source struct {
	Path string
	Data []byte
}

// Finder is the host's module-finder abstraction (spec §4.5's "finder
// chain"): given a module path, it either reports false (defer to the next
// finder) or returns a Source.
type Finder interface {
	Find(path string) (Source, bool)
}

// FinderFunc adapts a plain function to a Finder.
type FinderFunc func(path string) (Source, bool)

// Find calls f.
func (f FinderFunc) Find(path string) (Source, bool) { return f(path) }

// FinderChain is an ordered list of Finders consulted in turn until one
// supplies a result — the same composite pattern as the teacher's
// CompositeResolver for proto file resolution, applied here to the host's
// module-search chain.
type FinderChain []Finder

// Find consults each Finder in order, returning the first result found.
func (fc FinderChain) Find(path string) (Source, bool) {
	for _, f := range fc {
		if src, ok := f.Find(path); ok {
			return src, true
		}
	}
	return Source{}, false
}

// pathHookFinder wraps a Loader as a Finder: it reads path from fsys,
// routes it through the loader's instrumentation pipeline, and renders the
// result back to source bytes for the Host to compile the normal way. This
// is the "path hook" spec §4.5 installs into the finder chain.
type pathHookFinder struct {
	fsys   fs.FS
	loader *Loader
}

func (h *pathHookFinder) Find(path string) (Source, bool) {
	data, err := fs.ReadFile(h.fsys, path)
	if err != nil {
		return Source{}, false
	}
	file, err := h.loader.Load(path, data)
	if err != nil {
		return Source{}, false
	}
	return Source{Path: path, Data: instrument.Render(file)}, true
}

// Install inserts a path-hook Finder wrapping loader (reading source
// through fsys) at the head of *chain, if one isn't already present.
// Idempotent; neither Install nor Uninstall touches modules already loaded
// (spec §4.5).
func Install(chain *FinderChain, fsys fs.FS, loader *Loader) error {
	for _, f := range *chain {
		if _, ok := f.(*pathHookFinder); ok {
			return nil
		}
	}
	*chain = append(FinderChain{&pathHookFinder{fsys: fsys, loader: loader}}, *chain...)
	return nil
}

// Uninstall removes the first path-hook Finder from *chain, if present.
// Idempotent, and an exact inverse of Install.
func Uninstall(chain *FinderChain) error {
	for i, f := range *chain {
		if _, ok := f.(*pathHookFinder); ok {
			*chain = append((*chain)[:i:i], (*chain)[i+1:]...)
			return nil
		}
	}
	return nil
}
