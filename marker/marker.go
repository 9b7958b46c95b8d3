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

// Package marker provides the user-facing scoped marker object the
// instrumenter recognizes syntactically (spec §4.6) and the runtime half of
// its contract: for the duration of an entered block, it replaces the
// active import primitive with a shim that hands back an unresolved
// *proxy.DeferredProxy instead of eagerly resolving (spec §4.3 "Proxy
// production") — the mechanism the instrumenter's emitted guard code
// (`if type(name) is DeferredProxy: ...`) depends on actually firing. A
// Host that executes the rewritten *ast.File directly (rather than handing
// rendered text to an external interpreter) calls ActiveHook in place of
// its own Importer wherever it executes an ImportStmt, so the swap has
// somewhere to take effect.
package marker

import (
	"context"
	"sync"

	"github.com/kralicky/lazyimport/proxy"
)

// ImportHook mirrors the Importer contract an entered marker block swaps
// in: called once per `import target` a Host executes inside the block.
// Its result is whatever the import statement binds — ordinarily a
// proxy.Module, but a *proxy.DeferredProxy while a Context is entered,
// exactly as Python's builtins.__import__ can return any object.
type ImportHook func(ctx context.Context, target string) (any, error)

var (
	hookMu sync.Mutex
	hook   ImportHook
)

// ActiveHook returns the shim currently installed by an entered Context, or
// nil if no slothy_imports() block is active — in which case a Host should
// fall back to its own Importer and resolve eagerly, exactly as an
// uninstrumented block would.
func ActiveHook() ImportHook {
	hookMu.Lock()
	defer hookMu.Unlock()
	return hook
}

// Context is the type of Marker; a `with` statement whose
// ExprText the instrumenter recognized binds and enters it. Its real field
// is the underlying Importer a Host would otherwise call directly: Enter
// replaces the primitive a Host consults (ActiveHook) with a shim that
// produces deferred proxies against that Importer; Exit restores whatever
// was active before, so nested or sequential marker blocks compose.
type Context struct {
	real proxy.Importer
	prev ImportHook // guarded by hookMu, set on Enter and consumed on Exit
}

// Marker is the package-level singleton instrument.MarkerCallExpr's literal
// source text refers to. It has no backing Importer, so entering it
// directly (bypassing NewContext) installs a shim that can produce proxies
// but never actually resolve them — harmless unless a Host both skips
// instrumentation and tries to force-resolve something from inside it.
var Marker = &Context{}

// NewContext binds a marker Context to the Importer a Host would otherwise
// call directly, so entering it produces real, resolvable proxies.
func NewContext(real proxy.Importer) *Context {
	return &Context{real: real}
}

// Enter installs the proxy-producing import shim for the duration of the
// block (spec §4.3). If code reaches it having bypassed instrumentation
// (e.g. a Host that doesn't route source through instrument.Instrument and
// never consults ActiveHook), this has no observable effect: the imports
// inside still run with ordinary, non-lazy semantics.
func (c *Context) Enter() {
	hookMu.Lock()
	defer hookMu.Unlock()
	c.prev = hook
	hook = c.shimImport
}

// Exit restores whatever hook was active before Enter. It never returns an
// error: leaving the block must never fail or change behavior even for a
// Host that never entered the shim in the first place.
func (c *Context) Exit() error {
	hookMu.Lock()
	defer hookMu.Unlock()
	hook = c.prev
	return nil
}

func (c *Context) shimImport(ctx context.Context, target string) (any, error) {
	return proxy.NewDeferredProxy(c.real, target, target, ""), nil
}
