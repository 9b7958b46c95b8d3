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

package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer tokenizes source bytes into a Token stream. It operates on raw
// bytes the way the teacher's parser.runeReader does, rather than assuming
// any particular encoding has already been applied — the instrumenter is
// responsible for preserving whatever encoding the file declared (spec
// §4.3 "Encoding").
type Lexer struct {
	src []byte
	pos int

	atLineStart  bool
	parenDepth   int
	indentStack  []int
	pendingToks  []Token
	reachedEOF   bool
	lastWasBlank bool
}

// New returns a Lexer over src.
func New(src []byte) *Lexer {
	return &Lexer{
		src:         src,
		atLineStart: true,
		indentStack: []int{0},
	}
}

// Tokenize scans the entire input and returns every token, ending with a
// single EOF token. This is the form the parser consumes; NextToken is
// exposed separately for tests and for callers that want to stream tokens.
func (l *Lexer) Tokenize() ([]Token, error) {
	var toks []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == EOF {
			return toks, nil
		}
	}
}

// NextToken returns the next token in the stream.
func (l *Lexer) NextToken() (Token, error) {
	if len(l.pendingToks) > 0 {
		tok := l.pendingToks[0]
		l.pendingToks = l.pendingToks[1:]
		return tok, nil
	}

	if l.atLineStart && l.parenDepth == 0 {
		if done, tok := l.handleIndentation(); done {
			return tok, nil
		}
	}

	l.skipIntralineWhitespace()

	if l.pos >= len(l.src) {
		return l.handleEOF()
	}

	r, size := l.peekRune()

	switch {
	case r == '\n':
		l.pos += size
		l.lastWasBlank = true
		l.atLineStart = true
		if l.parenDepth > 0 {
			return l.NextToken()
		}
		return l.makeToken(NEWLINE, l.pos-size, l.pos), nil
	case r == '#':
		l.skipComment()
		return l.NextToken()
	case r == '\\' && l.peekAhead(size) == '\n':
		// explicit line continuation
		l.pos += size + 1
		return l.NextToken()
	case isIdentStart(r):
		return l.scanIdent(), nil
	case r == '"' || r == '\'':
		return l.scanString(r)
	case unicode.IsDigit(r):
		return l.scanNumber(), nil
	case r == '.':
		l.pos += size
		return l.makeToken(DOT, l.pos-size, l.pos), nil
	case r == ',':
		l.pos += size
		return l.makeToken(COMMA, l.pos-size, l.pos), nil
	case r == ':':
		l.pos += size
		return l.makeToken(COLON, l.pos-size, l.pos), nil
	case r == '*':
		l.pos += size
		return l.makeToken(STAR, l.pos-size, l.pos), nil
	case r == '(' || r == '[' || r == '{':
		l.parenDepth++
		l.pos += size
		if r == '(' {
			return l.makeToken(LPAREN, l.pos-size, l.pos), nil
		}
		return l.makeToken(OP, l.pos-size, l.pos), nil
	case r == ')' || r == ']' || r == '}':
		if l.parenDepth > 0 {
			l.parenDepth--
		}
		l.pos += size
		if r == ')' {
			return l.makeToken(RPAREN, l.pos-size, l.pos), nil
		}
		return l.makeToken(OP, l.pos-size, l.pos), nil
	default:
		return l.scanOperator(), nil
	}
}

func (l *Lexer) handleEOF() (Token, error) {
	if l.reachedEOF {
		return l.makeToken(EOF, l.pos, l.pos), nil
	}
	// unwind any still-open indentation levels before signaling EOF, so the
	// parser sees a DEDENT for every INDENT it was given.
	if !l.lastWasBlank && l.parenDepth == 0 && len(l.indentStack) > 1 {
		l.pendingToks = append(l.pendingToks, l.makeToken(NEWLINE, l.pos, l.pos))
	}
	for len(l.indentStack) > 1 {
		l.indentStack = l.indentStack[:len(l.indentStack)-1]
		l.pendingToks = append(l.pendingToks, l.makeToken(DEDENT, l.pos, l.pos))
	}
	l.reachedEOF = true
	l.pendingToks = append(l.pendingToks, l.makeToken(EOF, l.pos, l.pos))
	tok := l.pendingToks[0]
	l.pendingToks = l.pendingToks[1:]
	return tok, nil
}

// handleIndentation measures the leading whitespace of a new logical line
// and synthesizes INDENT/DEDENT tokens by comparing it against the current
// indent stack. Blank lines and comment-only lines never change the stack.
func (l *Lexer) handleIndentation() (bool, Token) {
	l.atLineStart = false
	start := l.pos
	width := 0
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ':
			width++
			l.pos++
			continue
		case '\t':
			width += 8 - (width % 8)
			l.pos++
			continue
		}
		break
	}
	if l.pos >= len(l.src) || l.src[l.pos] == '\n' || l.src[l.pos] == '#' {
		// blank or comment-only line: indentation is not significant.
		return false, Token{}
	}
	l.lastWasBlank = false

	top := l.indentStack[len(l.indentStack)-1]
	switch {
	case width > top:
		l.indentStack = append(l.indentStack, width)
		return true, l.makeToken(INDENT, start, l.pos)
	case width < top:
		for len(l.indentStack) > 1 && l.indentStack[len(l.indentStack)-1] > width {
			l.indentStack = l.indentStack[:len(l.indentStack)-1]
			l.pendingToks = append(l.pendingToks, l.makeToken(DEDENT, start, l.pos))
		}
		tok := l.pendingToks[0]
		l.pendingToks = l.pendingToks[1:]
		return true, tok
	default:
		return false, Token{}
	}
}

func (l *Lexer) skipIntralineWhitespace() {
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ', '\t', '\r':
			l.pos++
		default:
			return
		}
	}
}

func (l *Lexer) skipComment() {
	for l.pos < len(l.src) && l.src[l.pos] != '\n' {
		l.pos++
	}
}

func (l *Lexer) scanIdent() Token {
	start := l.pos
	for l.pos < len(l.src) {
		r, size := l.peekRune()
		if !isIdentPart(r) {
			break
		}
		l.pos += size
	}
	return l.makeToken(NAME, start, l.pos)
}

func (l *Lexer) scanNumber() Token {
	start := l.pos
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if (c >= '0' && c <= '9') || c == '.' || c == '_' || c == 'e' || c == 'E' || c == 'x' || c == 'X' {
			l.pos++
			continue
		}
		break
	}
	return l.makeToken(NUMBER, start, l.pos)
}

func (l *Lexer) scanString(quote rune) (Token, error) {
	start := l.pos
	triple := strings.HasPrefix(string(l.src[l.pos:]), strings.Repeat(string(quote), 3))
	delim := string(quote)
	if triple {
		delim = strings.Repeat(string(quote), 3)
	}
	l.pos += len(delim)
	for {
		if l.pos >= len(l.src) {
			return Token{}, fmt.Errorf("unterminated string literal starting at offset %d", start)
		}
		if l.src[l.pos] == '\\' {
			l.pos += 2
			continue
		}
		if strings.HasPrefix(string(l.src[l.pos:]), delim) {
			l.pos += len(delim)
			return l.makeToken(STRING, start, l.pos), nil
		}
		if !triple && l.src[l.pos] == '\n' {
			return Token{}, fmt.Errorf("unterminated string literal starting at offset %d", start)
		}
		_, size := utf8.DecodeRune(l.src[l.pos:])
		l.pos += size
	}
}

func (l *Lexer) scanOperator() Token {
	start := l.pos
	_, size := l.peekRune()
	l.pos += size
	return l.makeToken(OP, start, l.pos)
}

func (l *Lexer) makeToken(kind Kind, start, end int) Token {
	return Token{Kind: kind, Text: string(l.src[start:end]), Start: start, End: end}
}

func (l *Lexer) peekRune() (rune, int) {
	if l.pos >= len(l.src) {
		return 0, 0
	}
	return utf8.DecodeRune(l.src[l.pos:])
}

func (l *Lexer) peekAhead(offset int) byte {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
