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

// Package lazyimport ties the instrumenter, the deferred-proxy runtime, and
// a caller-supplied Host together: C4 (Loader), C5 (path hook / install-
// uninstall API), and the bounded-parallelism import scheduler from §5.
package lazyimport

import (
	"context"

	"github.com/kralicky/lazyimport/ast"
	"github.com/kralicky/lazyimport/proxy"
)

// Version is the semantic version of this package's instrumenter/engine,
// exposed per spec §6's external-surface list.
const Version = "0.1.0"

// CompiledUnit is whatever the Host's compiler produces from a rewritten
// file. The lazy-import core never inspects it; Loader.Compile only ever
// hands it back to its caller.
type CompiledUnit any

// Host is the injected external collaborator spec §1 calls "the host
// language's compiler, bytecode cache, and standard module-search/path-
// finder chain" — out of scope for this module, named here only so C4/C5
// have a concrete contract to compile against (spec §6).
type Host interface {
	Import(ctx context.Context, target string) (proxy.Module, error)
	Compile(file *ast.File) (CompiledUnit, error)
}

var _ proxy.Importer = Host(nil)
