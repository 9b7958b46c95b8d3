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

package ast

// Stmt is implemented by every statement kind this grammar recognizes.
type Stmt interface {
	Node
	stmtNode()
}

// DottedName is a `.`-separated module path, e.g. `importlib.abc`.
type DottedName struct {
	Parts      []string
	StartPos   int
	EndPos     int
}

func (d *DottedName) Start() int { return d.StartPos }
func (d *DottedName) End() int   { return d.EndPos }

// String renders the dotted name back to source form.
func (d *DottedName) String() string {
	s := d.Parts[0]
	for _, p := range d.Parts[1:] {
		s += "." + p
	}
	return s
}

// Top returns the first component, e.g. "importlib" for "importlib.abc".
func (d *DottedName) Top() string {
	return d.Parts[0]
}

// ImportAlias is one `dotted_name [as name]` clause of a plain import
// statement, e.g. the `importlib.util as u` in `import importlib.util as u`.
type ImportAlias struct {
	Name  *DottedName
	Alias string // empty if no "as" clause
}

// BindingName implements the binding-name rule from spec §4.3: `import X`
// binds X; `import X as A` binds A; `import X.Y.Z` binds the top name X;
// `import X.Y.Z as A` binds A.
func (a *ImportAlias) BindingName() string {
	if a.Alias != "" {
		return a.Alias
	}
	return a.Name.Top()
}

// ImportStmt is a plain `import X[, Y, ...]` statement, optionally with
// per-name `as` aliases and dotted paths.
type ImportStmt struct {
	Names    []*ImportAlias
	StartPos int
	EndPos   int
}

func (s *ImportStmt) stmtNode() {}
func (s *ImportStmt) Start() int { return s.StartPos }
func (s *ImportStmt) End() int   { return s.EndPos }

// FromImportName is one `N [as A]` clause of a from-import statement.
type FromImportName struct {
	Name  string
	Alias string // empty if no "as" clause
}

// BindingName implements the binding-name rule: `from M import N` binds N;
// `from M import N as A` binds A.
func (n *FromImportName) BindingName() string {
	if n.Alias != "" {
		return n.Alias
	}
	return n.Name
}

// FromImportStmt is a `from M import N[, ...]` or `from M import *`
// statement. Wildcard is true only for the latter, which spec §4.3 forbids
// inside a marker block but which is otherwise a perfectly ordinary
// statement outside of one.
type FromImportStmt struct {
	Module   *DottedName
	Names    []*FromImportName
	Wildcard bool
	StartPos int
	EndPos   int
}

func (s *FromImportStmt) stmtNode() {}
func (s *FromImportStmt) Start() int { return s.StartPos }
func (s *FromImportStmt) End() int   { return s.EndPos }

// WithStmt is a `with EXPR [as NAME]: BLOCK` statement. The instrumenter
// decides whether EXPR is a marker-context reference (see instrument
// package); the parser only records its literal source text.
type WithStmt struct {
	ExprText string // the literal text between "with" and the optional "as"/colon
	AsName   string
	Body     *Block
	StartPos int
	EndPos   int
}

func (s *WithStmt) stmtNode() {}
func (s *WithStmt) Start() int { return s.StartPos }
func (s *WithStmt) End() int   { return s.EndPos }

// ClassDef is a `class NAME(...): BLOCK` statement. Only its header and
// nesting matter to the instrumenter's scope check; the body is opaque
// beyond what's needed to find nested marker blocks (there shouldn't be
// any valid ones, but detecting them is the whole point of C3's scope
// check).
type ClassDef struct {
	Name     string
	Body     *Block
	StartPos int
	EndPos   int
}

func (s *ClassDef) stmtNode() {}
func (s *ClassDef) Start() int { return s.StartPos }
func (s *ClassDef) End() int   { return s.EndPos }

// FuncDef is a `def NAME(...): BLOCK` statement.
type FuncDef struct {
	Name     string
	Body     *Block
	StartPos int
	EndPos   int
}

func (s *FuncDef) stmtNode() {}
func (s *FuncDef) Start() int { return s.StartPos }
func (s *FuncDef) End() int   { return s.EndPos }

// GenericStmt is any statement the parser does not need to understand
// structurally (assignments, expression statements, if/for/while/try
// headers, etc.): its header line is recorded only as a source span, so
// that the instrumenter can reject it (if found inside a marker block)
// citing its exact text, and so that it round-trips unmodified otherwise.
// Body is non-nil when the header ends in a suite (e.g. an `if:`/`for:`
// block); it is walked at the same scope depth as its header, since only
// class/function bodies count as nested scope for spec §4.3's "module top
// level" rule.
type GenericStmt struct {
	Body     *Block
	StartPos int
	EndPos   int
}

func (s *GenericStmt) stmtNode() {}
func (s *GenericStmt) Start() int { return s.StartPos }
func (s *GenericStmt) End() int   { return s.EndPos }

// Block is a sequence of statements introduced by an INDENT and closed by
// the matching DEDENT.
type Block struct {
	Stmts    []Stmt
	StartPos int
	EndPos   int
}

func (b *Block) Start() int { return b.StartPos }
func (b *Block) End() int   { return b.EndPos }
