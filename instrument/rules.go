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

package instrument

// MarkerCallExpr is the exact source text (everything after "with" and
// before the optional "as"/trailing ':') that marks a block for rewriting:
//
//	with slothy_imports():
//	    import numpy
//
// Matched verbatim against ast.WithStmt.ExprText. Any other with-statement
// is left untouched by Instrument.
const MarkerCallExpr = "slothy_imports()"

// The marker package's runtime module and the two names the rewrite schema
// imports from it once per file (spec §4.3 step 1).
const (
	runtimeModule    = "_lazyimport_runtime"
	runtimeProxyName = "DeferredProxy"
	runtimeKeyName   = "DeferredKey"
)

// Reserved private names the rewrite binds, chosen so they cannot collide
// with a user identifier (spec §4.3 steps 1-2).
const (
	reservedProxyClass = "__lazyimport_Proxy__"
	reservedKeyClass   = "__lazyimport_Key__"
	reservedNamespace  = "__lazyimport_ns__"
	reservedTempProxy  = "__lazyimport_tmp__"
)
