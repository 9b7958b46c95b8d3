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

// Package lexer tokenizes the minimal import-statement grammar the
// instrumenter operates on: enough of a Python-shaped surface syntax to
// recognize import statements, marker blocks, and class/function
// boundaries, without attempting to lex or parse full expressions.
package lexer

import "fmt"

// Kind identifies the lexical category of a Token.
type Kind int

const (
	// EOF marks the end of input.
	EOF Kind = iota
	// NEWLINE ends a logical line (never emitted while bracket depth > 0).
	NEWLINE
	// INDENT and DEDENT are synthesized whenever a logical line's leading
	// whitespace grows or shrinks relative to the current block.
	INDENT
	DEDENT
	// NAME is an identifier, including keywords; the parser distinguishes
	// keywords by comparing Token.Text against the keyword set.
	NAME
	// NUMBER, STRING are literals that appear in generic (non-import)
	// statements; the instrumenter never inspects their value, only their
	// span, so no further classification is needed.
	NUMBER
	STRING
	DOT
	COMMA
	COLON
	STAR
	LPAREN
	RPAREN
	// OP is any other operator/punctuation character that can appear in a
	// generic statement (=, +, '[', '{', etc.). Each OP token is a single
	// rune, so a multi-character operator such as == or -> lexes as
	// several OP tokens. The instrumenter treats generic statements
	// opaquely, so these are never individually distinguished beyond their
	// source text.
	OP
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case NEWLINE:
		return "NEWLINE"
	case INDENT:
		return "INDENT"
	case DEDENT:
		return "DEDENT"
	case NAME:
		return "NAME"
	case NUMBER:
		return "NUMBER"
	case STRING:
		return "STRING"
	case DOT:
		return "'.'"
	case COMMA:
		return "','"
	case COLON:
		return "':'"
	case STAR:
		return "'*'"
	case LPAREN:
		return "'('"
	case RPAREN:
		return "')'"
	case OP:
		return "operator"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Keywords recognized by the parser. Every other NAME token is a plain
// identifier.
const (
	KwImport = "import"
	KwFrom   = "from"
	KwAs     = "as"
	KwWith   = "with"
	KwClass  = "class"
	KwDef    = "def"
)

var keywords = map[string]bool{
	KwImport: true,
	KwFrom:   true,
	KwAs:     true,
	KwWith:   true,
	KwClass:  true,
	KwDef:    true,
}

// IsKeyword reports whether text is one of the reserved words this grammar
// gives special meaning to.
func IsKeyword(text string) bool {
	return keywords[text]
}

// Token is a single lexeme together with its byte-offset span in the
// source. Line/column information is derived lazily from the offset by
// the ast package, the same split of responsibility as the teacher's
// ast.Token/ast.FileInfo.SourcePos.
type Token struct {
	Kind  Kind
	Text  string
	Start int // byte offset, inclusive
	End   int // byte offset, exclusive
}
