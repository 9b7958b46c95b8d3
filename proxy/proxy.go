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

// Package proxy implements the deferred-proxy / deferred-key pair (spec
// components C1 and C2): the runtime half of the lazy-import subsystem that
// the instrumenter's rewritten code hands off to. A DeferredProxy stands in
// for an import that has not happened yet; a Namespace is the wrapper map
// whose Get triggers that import on first genuine lookup.
package proxy

import (
	"context"
	"fmt"
	"sync"
)

// Attributable is anything that supports named attribute lookup, the
// minimal capability a resolved module or object needs for a proxy to
// delegate to it.
type Attributable interface {
	GetAttr(name string) (any, bool)
}

// Module is the result of a successful Host import.
type Module interface {
	Attributable
}

// Importer resolves a target module path to its real value. The Host
// supplies the concrete implementation; this package depends on nothing
// more than this narrow contract.
type Importer interface {
	Import(ctx context.Context, target string) (Module, error)
}

// DeferredProxy stands in for a module or attribute that a marker block's
// import statement requested but has not yet been resolved (spec §4.1). It
// is never stored as a name's value after resolution: Namespace.Get always
// rebinds the owning entry to the resolved value instead.
type DeferredProxy struct {
	// TargetName is the fully qualified path this proxy resolves through
	// Importer.Import — for a plain `import X`, X; for a dotted import's
	// child proxies, the full dotted path up to and including this node.
	TargetName string
	// BindingName is the local name this proxy (or, for a child, this
	// attribute) is known by.
	BindingName string
	// FromOrigin is non-empty only when this proxy stands in for
	// `from M import N`, in which case TargetName is N and FromOrigin is M.
	FromOrigin string
	// Alias is non-empty only if the import statement used an explicit
	// "as" clause.
	Alias string

	importer Importer

	mu       sync.Mutex
	children map[string]*DeferredProxy
}

// NewDeferredProxy builds a proxy for a single (non-dotted, or already-leaf)
// import target.
func NewDeferredProxy(importer Importer, binding, target, fromOrigin string) *DeferredProxy {
	return &DeferredProxy{
		TargetName:  target,
		BindingName: binding,
		FromOrigin:  fromOrigin,
		importer:    importer,
	}
}

// NewDottedProxy builds the proxy chain for `import A.B.C`: the returned
// proxy stands for the top package A, with a child chain pre-attached so
// that `.B` and `.B.C` access return further proxies without forcing any
// resolution — touching `A.B.C.whatever` resolves exactly the `A.B.C`
// submodule, never the whole chain, matching the original project's
// `tests/test_deferred.py` expectation.
func NewDottedProxy(importer Importer, parts []string) *DeferredProxy {
	top := &DeferredProxy{TargetName: parts[0], BindingName: parts[0], importer: importer}
	cur := top
	path := parts[0]
	for _, part := range parts[1:] {
		path += "." + part
		child := &DeferredProxy{TargetName: path, BindingName: part, importer: importer}
		cur.mu.Lock()
		if cur.children == nil {
			cur.children = make(map[string]*DeferredProxy)
		}
		cur.children[part] = child
		cur.mu.Unlock()
		cur = child
	}
	return top
}

// Child returns the proxy registered under attr without forcing resolution,
// if one was pre-attached by NewDottedProxy; reports false otherwise.
func (p *DeferredProxy) Child(attr string) (*DeferredProxy, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.children[attr]
	return c, ok
}

// Get implements attribute access on an unresolved proxy (spec §4.1): a
// pre-attached child short-circuits without forcing this proxy's own
// resolution; anything else forces resolution and delegates the lookup to
// the resolved value.
func (p *DeferredProxy) Get(ctx context.Context, attr string) (any, error) {
	if c, ok := p.Child(attr); ok {
		return c, nil
	}
	resolved, err := p.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	v, ok := resolved.GetAttr(attr)
	if !ok {
		return nil, fmt.Errorf("%s has no attribute %q", p.effectiveTarget(), attr)
	}
	return v, nil
}

// Resolve calls the underlying Importer exactly as Namespace.Get does,
// without touching any owning namespace. Exposed so a Host-side shim that
// holds a proxy directly (rather than through a Namespace entry) can still
// force resolution.
func (p *DeferredProxy) Resolve(ctx context.Context) (Module, error) {
	return p.importer.Import(ctx, p.effectiveTarget())
}

func (p *DeferredProxy) effectiveTarget() string {
	if p.FromOrigin != "" {
		return p.FromOrigin
	}
	return p.TargetName
}

// String renders the proxy the way spec §4.1 requires: "<proxy for 'import
// X'>", "<proxy for 'import X as A'>", or the from-import equivalent.
func (p *DeferredProxy) String() string {
	switch {
	case p.FromOrigin != "" && p.Alias != "":
		return fmt.Sprintf("<proxy for 'from %s import %s as %s'>", p.FromOrigin, p.TargetName, p.Alias)
	case p.FromOrigin != "":
		return fmt.Sprintf("<proxy for 'from %s import %s'>", p.FromOrigin, p.TargetName)
	case p.Alias != "":
		return fmt.Sprintf("<proxy for 'import %s as %s'>", p.TargetName, p.Alias)
	default:
		return fmt.Sprintf("<proxy for 'import %s'>", p.TargetName)
	}
}
