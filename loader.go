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
	"log/slog"

	"github.com/kralicky/lazyimport/ast"
	"github.com/kralicky/lazyimport/cache"
	"github.com/kralicky/lazyimport/instrument"
	"github.com/kralicky/lazyimport/parser"
	"github.com/kralicky/lazyimport/reporter"
)

// Loader is the File Loader (C4): given source bytes, it parses,
// instruments, optionally consults a compiled-artifact cache, and hands the
// rewritten tree to a Host to compile. Behavior is otherwise identical to
// whatever default source loading the Host itself does.
type Loader struct {
	host  Host
	cache *cache.Cache // nil disables caching
	log   *slog.Logger
}

// LoaderOption configures a new Loader.
type LoaderOption func(*Loader)

// WithCache enables the compiled-artifact cache described in spec §4.4.
func WithCache(c *cache.Cache) LoaderOption {
	return func(l *Loader) { l.cache = c }
}

// WithLoaderLogger overrides the *slog.Logger a Loader logs cache activity
// through; the default is slog.Default().
func WithLoaderLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) { l.log = logger }
}

// NewLoader returns a Loader that hands compiled results to host.
func NewLoader(host Host, opts ...LoaderOption) *Loader {
	l := &Loader{host: host, log: slog.Default()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load parses and instruments src, returning the rewritten *ast.File a Host
// can compile. The cache key is invalidated whenever instrument.Version
// changes, independent of whether src itself changed (spec §4.4).
func (l *Loader) Load(path string, src []byte) (*ast.File, error) {
	var key cache.Key
	if l.cache != nil {
		key = cache.NewKey(path, src)
		if file, ok := l.cache.Get(key); ok {
			return file, nil
		}
	}

	file, err := parser.Parse(path, src)
	if err != nil {
		return nil, err
	}

	handler := reporter.NewHandler()
	out := instrument.Instrument(file, handler)
	if err := handler.Error(); err != nil {
		return nil, err
	}

	if l.cache != nil {
		if err := l.cache.Put(key, out); err != nil {
			l.log.Warn("failed to write instrumentation cache entry", "path", path, "error", err)
		}
	}
	return out, nil
}

// Compile runs Load and hands the rewritten tree to the Host, the full C4
// "read source, rewrite, compile" pipeline.
func (l *Loader) Compile(path string, src []byte) (CompiledUnit, error) {
	file, err := l.Load(path, src)
	if err != nil {
		return nil, err
	}
	return l.host.Compile(file)
}
