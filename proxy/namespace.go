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

package proxy

import (
	"context"
	"fmt"
	"sync"

	art "github.com/plar/go-adaptive-radix-tree"
)

// nsEntry is one binding in a Namespace: either a plain resolved value, or
// a deferred one still backed by a *DeferredProxy.
type nsEntry struct {
	value    any
	proxy    *DeferredProxy
	resolved bool
}

// Namespace is the Go reification of the Deferred Key mechanic (spec §3,
// §4.2, §9 Design Note): Go cannot hook a map's equality check the way the
// original design does, so every lookup instead goes through Get, which
// performs the same resolution the original triggered from key equality —
// "namespace lookup invokes a user-supplied key-equality predicate" becomes
// "namespace lookup invokes Get". Entries are stored in an adaptive radix
// tree keyed by binding name, which gives ordered, prefix-queryable dumps
// for introspection (a vars(module)-equivalent) without any extra code.
type Namespace struct {
	mu   sync.RWMutex
	tree art.Tree
}

// NewNamespace returns an empty Namespace.
func NewNamespace() *Namespace {
	return &Namespace{tree: art.New()}
}

// BindResolved installs name as an already-resolved value — the ordinary
// case for every import statement outside a marker block, and the terminal
// state every deferred entry eventually reaches.
func (ns *Namespace) BindResolved(name string, value any) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	ns.tree.Insert(art.Key(name), &nsEntry{value: value, resolved: true})
}

// BindDeferred installs name bound to an unresolved proxy — spec §4.3 step
// 3's "reinsert it under a deferred key (name, proxy) pair".
func (ns *Namespace) BindDeferred(name string, p *DeferredProxy) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	ns.tree.Insert(art.Key(name), &nsEntry{proxy: p})
}

// Delete removes name, used by the rewrite schema's reserved-name cleanup
// (spec §4.3 steps 4-5) and available to callers for ordinary `del`.
func (ns *Namespace) Delete(name string) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	ns.tree.Delete(art.Key(name))
}

// Get implements the resolution protocol from spec §4.2:
//  1. if the entry doesn't exist, found is false;
//  2. if the entry exists and was already resolved (deferred or not),
//     return its value with no side effect — "subsequent comparisons are
//     pure";
//  3. otherwise resolve the backing proxy through the Host's Importer,
//     extracting the from-import attribute when FromOrigin is set, and
//     rebind the entry to the resolved value in place before returning it.
func (ns *Namespace) Get(ctx context.Context, name string) (any, bool, error) {
	ns.mu.RLock()
	v, found := ns.tree.Search(art.Key(name))
	ns.mu.RUnlock()
	if !found {
		return nil, false, nil
	}
	e := v.(*nsEntry)
	if e.resolved {
		return e.value, true, nil
	}

	value, err := resolveEntry(ctx, e.proxy)
	if err != nil {
		return nil, true, err
	}

	ns.mu.Lock()
	ns.tree.Insert(art.Key(name), &nsEntry{value: value, resolved: true})
	ns.mu.Unlock()
	return value, true, nil
}

func resolveEntry(ctx context.Context, p *DeferredProxy) (any, error) {
	mod, err := p.importer.Import(ctx, p.effectiveTarget())
	if err != nil {
		return nil, err
	}
	if p.FromOrigin == "" {
		return mod, nil
	}
	v, ok := mod.GetAttr(p.TargetName)
	if !ok {
		return nil, fmt.Errorf("module %q has no attribute %q", p.FromOrigin, p.TargetName)
	}
	return v, nil
}

// Names returns every bound name, in the radix tree's key order — the
// vars(module)-equivalent introspection spec.md §4.2 calls for, usable
// without forcing resolution of anything still deferred.
func (ns *Namespace) Names() []string {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	var names []string
	ns.tree.ForEach(func(node art.Node) bool {
		names = append(names, string(node.Key()))
		return true
	})
	return names
}

// IsDeferred reports whether name is currently bound to an unresolved
// proxy, without forcing resolution.
func (ns *Namespace) IsDeferred(name string) (bool, bool) {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	v, found := ns.tree.Search(art.Key(name))
	if !found {
		return false, false
	}
	e := v.(*nsEntry)
	return !e.resolved, true
}
