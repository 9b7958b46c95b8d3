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

// Package instrument implements the source-to-source rewrite at the heart
// of the lazy-import subsystem (spec §4.3): it finds slothy_imports()
// marker blocks, enforces their scope and content restrictions, and
// rewrites the imports inside them into the deferred-proxy hand-off
// protocol that package proxy expects at runtime.
package instrument

import (
	"fmt"

	"github.com/kralicky/lazyimport/ast"
	"github.com/kralicky/lazyimport/reporter"
)

// Version identifies the behavior of the rewrite schema. A compiled-artifact
// cache (package cache) must invalidate every entry when Version changes,
// independent of any content-hash match, per spec §4.4.
const Version = 1

// Instrument returns a new *ast.File with every module-top-level
// slothy_imports() block rewritten per the five-step schema. file is not
// modified. Scope violations (a marker block inside a class or function
// body) and content violations (anything inside a marker block besides a
// plain import or from-import, including a wildcard from-import) are
// reported to handler as they're found; Instrument keeps scanning the rest
// of the file afterward so a single pass can surface every violation, but
// callers must treat a non-nil handler.Error() as fatal and not hand the
// result to a Host.
func Instrument(file *ast.File, handler *reporter.Handler) *ast.File {
	st := &rewriteState{total: countValidMarkerBlocks(file.Decls, 0)}
	decls := rewriteStmts(file, file.Decls, 0, st, handler)
	if st.total > 0 {
		decls = append([]ast.Stmt{runtimeImportStmt()}, decls...)
	}
	return ast.NewFile(file.Name, file.Src, decls)
}

type rewriteState struct {
	total int // number of valid (module-top-level) marker blocks in the file
	seen  int // how many of those have been rewritten so far
}

// countValidMarkerBlocks counts marker blocks that will actually be
// rewritten (depth 0 only), so Instrument knows which one is the last —
// the one that should carry the file-level cleanup of the reserved proxy
// and key aliases (see rewriteMarkerBlock).
func countValidMarkerBlocks(stmts []ast.Stmt, depth int) int {
	n := 0
	for _, s := range stmts {
		switch v := s.(type) {
		case *ast.WithStmt:
			if v.ExprText == MarkerCallExpr && depth == 0 {
				n++
				continue
			}
			if v.Body != nil {
				n += countValidMarkerBlocks(v.Body.Stmts, depth)
			}
		case *ast.ClassDef:
			if v.Body != nil {
				n += countValidMarkerBlocks(v.Body.Stmts, depth+1)
			}
		case *ast.FuncDef:
			if v.Body != nil {
				n += countValidMarkerBlocks(v.Body.Stmts, depth+1)
			}
		case *ast.GenericStmt:
			if v.Body != nil {
				n += countValidMarkerBlocks(v.Body.Stmts, depth)
			}
		}
	}
	return n
}

func rewriteStmts(file *ast.File, stmts []ast.Stmt, depth int, st *rewriteState, handler *reporter.Handler) []ast.Stmt {
	out := make([]ast.Stmt, 0, len(stmts))
	for _, s := range stmts {
		switch v := s.(type) {
		case *ast.WithStmt:
			if v.ExprText == MarkerCallExpr {
				if depth != 0 {
					handler.HandleError(reporter.NewSyntaxError(
						reporter.CategoryScopeViolation,
						file.Position(v.Start()),
						file.LineText(v.Start()),
						"slothy_imports() block must be at module top level",
					))
					out = append(out, v)
					continue
				}
				out = append(out, rewriteMarkerBlock(file, v, st, handler)...)
				continue
			}
			nv := *v
			if v.Body != nil {
				nb := *v.Body
				nb.Stmts = rewriteStmts(file, v.Body.Stmts, depth, st, handler)
				nv.Body = &nb
			}
			out = append(out, &nv)
		case *ast.ClassDef:
			nv := *v
			if v.Body != nil {
				nb := *v.Body
				nb.Stmts = rewriteStmts(file, v.Body.Stmts, depth+1, st, handler)
				nv.Body = &nb
			}
			out = append(out, &nv)
		case *ast.FuncDef:
			nv := *v
			if v.Body != nil {
				nb := *v.Body
				nb.Stmts = rewriteStmts(file, v.Body.Stmts, depth+1, st, handler)
				nv.Body = &nb
			}
			out = append(out, &nv)
		case *ast.GenericStmt:
			nv := *v
			if v.Body != nil {
				nb := *v.Body
				nb.Stmts = rewriteStmts(file, v.Body.Stmts, depth, st, handler)
				nv.Body = &nb
			}
			out = append(out, &nv)
		default:
			out = append(out, s)
		}
	}
	return out
}

// rewriteMarkerBlock implements spec §4.3's five-step schema for a single
// qualifying block (step 1, the file-level import, is handled by the
// caller). Steps 2-5 map directly onto the statements appended below.
//
// Step 1 says the proxy/key import happens "once per file"; step 5 says the
// aliases are deleted "after the block" — read literally, back to back,
// that would delete the aliases before a second marker block in the same
// file could use them. This reimplementation resolves that by emitting the
// deletion only after the last valid marker block in the file, which
// satisfies both sentences for the common single-block case and degrades
// sensibly when a file has more than one.
func rewriteMarkerBlock(file *ast.File, w *ast.WithStmt, st *rewriteState, handler *reporter.Handler) []ast.Stmt {
	st.seen++

	var body []ast.Stmt
	if w.Body != nil {
		for _, bs := range w.Body.Stmts {
			switch imp := bs.(type) {
			case *ast.ImportStmt:
				body = append(body, imp)
			case *ast.FromImportStmt:
				if imp.Wildcard {
					handler.HandleError(reporter.NewSyntaxError(
						reporter.CategoryContentViolation,
						file.Position(imp.Start()),
						file.LineText(imp.Start()),
						"wildcard import is not allowed inside a slothy_imports() block",
					))
					continue
				}
				body = append(body, imp)
			default:
				handler.HandleError(reporter.NewSyntaxError(
					reporter.CategoryContentViolation,
					file.Position(bs.Start()),
					file.LineText(bs.Start()),
					"only plain imports and from-imports are allowed inside a slothy_imports() block",
				))
			}
		}
	}

	// The with-statement itself is retained, not flattened away: its
	// __enter__/__exit__ (marker.Context) is what swaps the import
	// primitive for a proxy-producing shim for the duration of the block
	// (spec §4.3 "Proxy production"). Without it nothing inside ever
	// observes a DeferredProxy and the guard below never fires.
	out := make([]ast.Stmt, 0, len(body)*2+2)
	pos := w.Start()
	out = append(out, raw(pos, fmt.Sprintf("%s = locals()", reservedNamespace)))
	out = append(out, raw(pos, fmt.Sprintf("%s = None", reservedTempProxy)))

	for _, s := range body {
		out = append(out, s)
		for _, name := range bindingNames(s) {
			out = append(out, raw(s.End(), guardCode(name)))
		}
	}

	out = append(out, raw(w.End(), fmt.Sprintf("del %s, %s", reservedTempProxy, reservedNamespace)))

	newBody := &ast.Block{Stmts: out}
	if w.Body != nil {
		newBody.StartPos = w.Body.StartPos
		newBody.EndPos = w.Body.EndPos
	}
	newWith := &ast.WithStmt{
		ExprText: w.ExprText,
		AsName:   w.AsName,
		Body:     newBody,
		StartPos: w.StartPos,
		EndPos:   w.EndPos,
	}

	result := []ast.Stmt{newWith}
	if st.seen == st.total {
		result = append(result, raw(w.End(), fmt.Sprintf("del %s, %s", reservedProxyClass, reservedKeyClass)))
	}
	return result
}

// bindingNames applies the binding-name rule table (spec §4.3) to a single
// import statement, returning the local name(s) that must be checked and
// rebound after it executes.
func bindingNames(s ast.Stmt) []string {
	var names []string
	switch imp := s.(type) {
	case *ast.ImportStmt:
		for _, n := range imp.Names {
			names = append(names, n.BindingName())
		}
	case *ast.FromImportStmt:
		for _, n := range imp.Names {
			names = append(names, n.BindingName())
		}
	}
	return names
}

// guardCode is the type-check / pop / reinsert triple from spec §4.3 step 3,
// rendered as the literal text a Host's compiler will see in place of the
// synthesized statement. The DeferredKey, not the plain name, is the dict
// key: that's what makes the namespace's own lookup protocol consult the
// key's equality check (spec §4.2/§9) instead of a plain string compare, the
// entire mechanic this rewrite exists to wire up. Reinserting under a plain
// string key here would make the reserved key class's equality check dead
// code and nothing would ever resolve.
func guardCode(name string) string {
	return fmt.Sprintf(
		"if type(%s) is %s:\n    %s = %s.pop('%s')\n    %s[%s('%s', %s)] = %s",
		name, reservedProxyClass,
		reservedTempProxy, reservedNamespace, name,
		reservedNamespace, reservedKeyClass, name, reservedTempProxy, reservedTempProxy,
	)
}

func raw(pos int, code string) *ast.RawStmt {
	return &ast.RawStmt{Code: code, Pos: pos}
}

func runtimeImportStmt() *ast.RawStmt {
	return &ast.RawStmt{
		Pos: 0,
		Code: fmt.Sprintf("from %s import %s as %s, %s as %s",
			runtimeModule, runtimeProxyName, reservedProxyClass, runtimeKeyName, reservedKeyClass),
	}
}
