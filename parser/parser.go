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

// Package parser builds an *ast.File from source bytes, the same
// responsibility split as the teacher's parser package (lex, then a
// hand-written recursive-descent parser over the token stream). It only
// understands enough syntax to find import statements, from-imports,
// with/class/def boundaries, and to treat everything else as an opaque
// statement span; it does not evaluate or type-check expressions.
package parser

import (
	"fmt"
	"strings"

	"github.com/kralicky/lazyimport/ast"
	"github.com/kralicky/lazyimport/lexer"
)

// Parse tokenizes and parses src into an *ast.File. Syntax-level problems
// in the token stream itself (unbalanced indentation, an unterminated
// string, a dangling "with"/"class"/"def" header) are returned as the
// first error found. Marker-block-specific rules from spec §4.3 (content
// and scope restrictions) are enforced later, by the instrument package,
// not here: the parser accepts any syntactically valid statement sequence
// whether or not it uses the marker at all.
func Parse(filename string, src []byte) (*ast.File, error) {
	toks, err := lexer.New(src).Tokenize()
	if err != nil {
		return nil, newSyntaxError(filename, src, 0, err.Error())
	}
	p := &parser{filename: filename, src: src, toks: toks}
	decls, err := p.parseStmts(false)
	if err != nil {
		return nil, err
	}
	return ast.NewFile(filename, src, decls), nil
}

type parser struct {
	filename string
	src      []byte
	toks     []lexer.Token
	pos      int
}

func (p *parser) cur() lexer.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[p.pos]
}

func (p *parser) advance() lexer.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) errorf(offset int, format string, args ...any) error {
	return newSyntaxError(p.filename, p.src, offset, fmt.Sprintf(format, args...))
}

// parseStmts parses statements until EOF (nested == false, top level) or
// until a DEDENT (nested == true; the DEDENT itself is left for the caller,
// i.e. parseBlock, to consume).
func (p *parser) parseStmts(nested bool) ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	for {
		switch p.cur().Kind {
		case lexer.EOF:
			if nested {
				return nil, p.errorf(p.cur().Start, "unexpected end of input inside indented block")
			}
			return stmts, nil
		case lexer.DEDENT:
			if nested {
				return stmts, nil
			}
			return nil, p.errorf(p.cur().Start, "unexpected dedent")
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
}

// parseBlock parses `NEWLINE INDENT stmts DEDENT`, given that the caller
// has already consumed everything up to and including the statement's
// trailing ':'.
func (p *parser) parseBlock() (*ast.Block, error) {
	if p.cur().Kind != lexer.NEWLINE {
		return nil, p.errorf(p.cur().Start, "expected newline after ':', found %s", p.cur().Kind)
	}
	p.advance()
	if p.cur().Kind != lexer.INDENT {
		return nil, p.errorf(p.cur().Start, "expected an indented block")
	}
	start := p.cur().Start
	p.advance()
	stmts, err := p.parseStmts(true)
	if err != nil {
		return nil, err
	}
	if p.cur().Kind != lexer.DEDENT {
		return nil, p.errorf(p.cur().Start, "expected dedent")
	}
	end := p.cur().End
	p.advance()
	return &ast.Block{Stmts: stmts, StartPos: start, EndPos: end}, nil
}

func (p *parser) parseStmt() (ast.Stmt, error) {
	tok := p.cur()
	if tok.Kind == lexer.NAME {
		switch tok.Text {
		case lexer.KwImport:
			return p.parseImportStmt()
		case lexer.KwFrom:
			return p.parseFromImportStmt()
		case lexer.KwWith:
			return p.parseWithStmt()
		case lexer.KwClass:
			return p.parseClassDef()
		case lexer.KwDef:
			return p.parseFuncDef()
		}
	}
	return p.parseGenericStmt()
}

func (p *parser) parseDottedName() (*ast.DottedName, error) {
	if p.cur().Kind != lexer.NAME || lexer.IsKeyword(p.cur().Text) {
		return nil, p.errorf(p.cur().Start, "expected a module name, found %q", p.cur().Text)
	}
	start := p.cur().Start
	parts := []string{p.cur().Text}
	end := p.cur().End
	p.advance()
	for p.cur().Kind == lexer.DOT {
		p.advance()
		if p.cur().Kind != lexer.NAME {
			return nil, p.errorf(p.cur().Start, "expected a name after '.'")
		}
		parts = append(parts, p.cur().Text)
		end = p.cur().End
		p.advance()
	}
	return &ast.DottedName{Parts: parts, StartPos: start, EndPos: end}, nil
}

// expectStmtEnd consumes the NEWLINE that ends a simple statement. A
// statement immediately followed by EOF or DEDENT (no trailing newline in
// the source) is also accepted.
func (p *parser) expectStmtEnd() error {
	switch p.cur().Kind {
	case lexer.NEWLINE:
		p.advance()
		return nil
	case lexer.EOF, lexer.DEDENT:
		return nil
	default:
		return p.errorf(p.cur().Start, "unexpected token %q after statement", p.cur().Text)
	}
}

func (p *parser) parseImportStmt() (ast.Stmt, error) {
	start := p.cur().Start
	p.advance() // 'import'
	var names []*ast.ImportAlias
	for {
		dn, err := p.parseDottedName()
		if err != nil {
			return nil, err
		}
		alias := ""
		if p.cur().Kind == lexer.NAME && p.cur().Text == lexer.KwAs {
			p.advance()
			if p.cur().Kind != lexer.NAME {
				return nil, p.errorf(p.cur().Start, "expected a name after 'as'")
			}
			alias = p.cur().Text
			p.advance()
		}
		names = append(names, &ast.ImportAlias{Name: dn, Alias: alias})
		if p.cur().Kind == lexer.COMMA {
			p.advance()
			continue
		}
		break
	}
	end := p.cur().Start
	if err := p.expectStmtEnd(); err != nil {
		return nil, err
	}
	return &ast.ImportStmt{Names: names, StartPos: start, EndPos: end}, nil
}

func (p *parser) parseFromImportStmt() (ast.Stmt, error) {
	start := p.cur().Start
	p.advance() // 'from'
	mod, err := p.parseDottedName()
	if err != nil {
		return nil, err
	}
	if !(p.cur().Kind == lexer.NAME && p.cur().Text == lexer.KwImport) {
		return nil, p.errorf(p.cur().Start, "expected 'import' after module name")
	}
	p.advance()

	stmt := &ast.FromImportStmt{Module: mod, StartPos: start}

	if p.cur().Kind == lexer.STAR {
		p.advance()
		stmt.Wildcard = true
		stmt.EndPos = p.cur().Start
		if err := p.expectStmtEnd(); err != nil {
			return nil, err
		}
		return stmt, nil
	}

	paren := false
	if p.cur().Kind == lexer.LPAREN {
		paren = true
		p.advance()
	}
	for {
		if p.cur().Kind != lexer.NAME || lexer.IsKeyword(p.cur().Text) {
			return nil, p.errorf(p.cur().Start, "expected an imported name")
		}
		name := p.cur().Text
		p.advance()
		alias := ""
		if p.cur().Kind == lexer.NAME && p.cur().Text == lexer.KwAs {
			p.advance()
			if p.cur().Kind != lexer.NAME {
				return nil, p.errorf(p.cur().Start, "expected a name after 'as'")
			}
			alias = p.cur().Text
			p.advance()
		}
		stmt.Names = append(stmt.Names, &ast.FromImportName{Name: name, Alias: alias})
		if p.cur().Kind == lexer.COMMA {
			p.advance()
			if paren && p.cur().Kind == lexer.RPAREN {
				break // trailing comma before ')'
			}
			continue
		}
		break
	}
	if paren {
		if p.cur().Kind != lexer.RPAREN {
			return nil, p.errorf(p.cur().Start, "expected ')'")
		}
		p.advance()
	}
	stmt.EndPos = p.cur().Start
	if err := p.expectStmtEnd(); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *parser) parseWithStmt() (ast.Stmt, error) {
	start := p.cur().Start
	p.advance() // 'with'
	exprStart := p.cur().Start
	exprEnd := -1
	asName := ""
	depth := 0
loop:
	for {
		t := p.cur()
		switch {
		case depth == 0 && t.Kind == lexer.NAME && t.Text == lexer.KwAs:
			exprEnd = t.Start
			p.advance()
			if p.cur().Kind != lexer.NAME {
				return nil, p.errorf(p.cur().Start, "expected a name after 'as'")
			}
			asName = p.cur().Text
			p.advance()
			continue loop
		case depth == 0 && t.Kind == lexer.COLON:
			if exprEnd < 0 {
				exprEnd = t.Start
			}
			break loop
		case t.Kind == lexer.LPAREN:
			depth++
		case t.Kind == lexer.RPAREN:
			depth--
		case t.Kind == lexer.EOF || t.Kind == lexer.NEWLINE:
			return nil, p.errorf(t.Start, "expected ':' to end 'with' statement")
		}
		p.advance()
	}
	exprText := strings.TrimSpace(string(p.src[exprStart:exprEnd]))
	p.advance() // ':'
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.WithStmt{ExprText: exprText, AsName: asName, Body: body, StartPos: start, EndPos: body.EndPos}, nil
}

func (p *parser) parseClassDef() (ast.Stmt, error) {
	start := p.cur().Start
	p.advance() // 'class'
	if p.cur().Kind != lexer.NAME {
		return nil, p.errorf(p.cur().Start, "expected a class name")
	}
	name := p.cur().Text
	p.advance()
	if err := p.skipToColon(); err != nil {
		return nil, err
	}
	p.advance() // ':'
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.ClassDef{Name: name, Body: body, StartPos: start, EndPos: body.EndPos}, nil
}

func (p *parser) parseFuncDef() (ast.Stmt, error) {
	start := p.cur().Start
	p.advance() // 'def'
	if p.cur().Kind != lexer.NAME {
		return nil, p.errorf(p.cur().Start, "expected a function name")
	}
	name := p.cur().Text
	p.advance()
	if err := p.skipToColon(); err != nil {
		return nil, err
	}
	p.advance() // ':'
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FuncDef{Name: name, Body: body, StartPos: start, EndPos: body.EndPos}, nil
}

// skipToColon advances past a class/def header's parameter list (or bases
// list) up to, but not including, the trailing ':'.
func (p *parser) skipToColon() error {
	depth := 0
	for {
		t := p.cur()
		switch t.Kind {
		case lexer.LPAREN:
			depth++
		case lexer.RPAREN:
			depth--
		case lexer.COLON:
			if depth == 0 {
				return nil
			}
		case lexer.EOF, lexer.NEWLINE:
			return p.errorf(t.Start, "expected ':'")
		}
		p.advance()
	}
}

// parseGenericStmt records the span of a statement this grammar doesn't
// need to understand. If its header ends in ':', the following indented
// block is parsed too (at the same scope depth — only class/def bodies
// count as nested scope for spec §4.3), so that marker blocks nested
// inside an `if`/`for`/`try` at module level are still found.
func (p *parser) parseGenericStmt() (ast.Stmt, error) {
	start := p.cur().Start
	sawColon := false
	depth := 0
	for {
		t := p.cur()
		if t.Kind == lexer.NEWLINE || t.Kind == lexer.EOF {
			break
		}
		switch t.Kind {
		case lexer.LPAREN:
			depth++
		case lexer.RPAREN:
			depth--
		case lexer.COLON:
			if depth == 0 {
				sawColon = true
			}
		}
		p.advance()
	}
	end := p.cur().Start
	stmt := &ast.GenericStmt{StartPos: start, EndPos: end}
	if sawColon {
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stmt.Body = body
		stmt.EndPos = body.EndPos
		return stmt, nil
	}
	if p.cur().Kind == lexer.NEWLINE {
		p.advance()
	}
	return stmt, nil
}
