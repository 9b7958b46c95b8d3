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

// Package cache implements the compiled-artifact cache spec §4.4 requires
// of the File Loader: instrumented *ast.File results are stored on disk
// keyed by source path, content hash, and instrumenter version, so a
// Loader can skip re-parsing and re-instrumenting unchanged source.
//
// The teacher's own domain uses protobuf descriptors and a codegen step
// neither of which has an analogue here; this package serializes with
// encoding/gob instead, since all that needs persisting is a small Go
// struct tree, not a cross-language wire format (see DESIGN.md).
package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kralicky/lazyimport/ast"
	"github.com/kralicky/lazyimport/instrument"
)

func init() {
	gob.Register(&ast.ImportStmt{})
	gob.Register(&ast.FromImportStmt{})
	gob.Register(&ast.WithStmt{})
	gob.Register(&ast.ClassDef{})
	gob.Register(&ast.FuncDef{})
	gob.Register(&ast.GenericStmt{})
	gob.Register(&ast.RawStmt{})
}

// Key identifies one cached instrumentation result. InstrumentVersion is
// stamped at Key-construction time so that a change to instrument.Version
// invalidates every existing entry regardless of whether ContentHash still
// matches (spec §4.4).
type Key struct {
	Path              string
	ContentHash       [sha256.Size]byte
	InstrumentVersion int
}

// NewKey hashes src and stamps the key with the current instrumenter
// version.
func NewKey(path string, src []byte) Key {
	return Key{Path: path, ContentHash: sha256.Sum256(src), InstrumentVersion: instrument.Version}
}

func (k Key) filename() string {
	return fmt.Sprintf("%x-%x-%d.gob", sha256.Sum256([]byte(k.Path)), k.ContentHash, k.InstrumentVersion)
}

// entry is the gob-serializable form of an *ast.File: File itself carries
// an unexported line-start index that Get rebuilds via ast.NewFile instead
// of trying to serialize.
type entry struct {
	Name  string
	Src   []byte
	Decls []ast.Stmt
}

// Cache stores instrumented *ast.File results under dir.
type Cache struct {
	dir string
}

// New returns a Cache rooted at dir, creating the directory if necessary.
func New(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &Cache{dir: dir}, nil
}

// Get returns the cached *ast.File for key, or found == false if nothing
// usable is on disk (including a corrupt entry, treated as a miss rather
// than an error).
func (c *Cache) Get(key Key) (file *ast.File, found bool) {
	data, err := os.ReadFile(filepath.Join(c.dir, key.filename()))
	if err != nil {
		return nil, false
	}
	var e entry
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&e); err != nil {
		return nil, false
	}
	return ast.NewFile(e.Name, e.Src, e.Decls), true
}

// Put stores file under key, overwriting any existing entry. The write is
// staged through a temp file and renamed into place so a concurrent Get
// never observes a partially written entry.
func (c *Cache) Put(key Key, file *ast.File) error {
	var buf bytes.Buffer
	e := entry{Name: file.Name, Src: file.Src, Decls: file.Decls}
	if err := gob.NewEncoder(&buf).Encode(e); err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}
	final := filepath.Join(c.dir, key.filename())
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if err := os.Rename(tmp, final); err != nil {
		return fmt.Errorf("committing cache entry: %w", err)
	}
	return nil
}
