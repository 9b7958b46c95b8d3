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

package lexer_test

import (
	"testing"

	"github.com/kralicky/lazyimport/lexer"
	"github.com/stretchr/testify/require"
)

func kinds(t *testing.T, src string) []lexer.Kind {
	t.Helper()
	toks, err := lexer.New([]byte(src)).Tokenize()
	require.NoError(t, err)
	out := make([]lexer.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestTokenizeSimpleImport(t *testing.T) {
	toks, err := lexer.New([]byte("import os\n")).Tokenize()
	require.NoError(t, err)
	require.Equal(t, []lexer.Kind{lexer.NAME, lexer.NAME, lexer.NEWLINE, lexer.EOF}, kindsOf(toks))
	require.Equal(t, "import", toks[0].Text)
	require.Equal(t, "os", toks[1].Text)
}

func TestTokenizeIndentDedent(t *testing.T) {
	src := "with slothy_imports():\n    import os\n    import sys\nx = 1\n"
	got := kinds(t, src)
	require.Equal(t, []lexer.Kind{
		lexer.NAME, lexer.NAME, lexer.LPAREN, lexer.RPAREN, lexer.COLON, lexer.NEWLINE,
		lexer.INDENT,
		lexer.NAME, lexer.NAME, lexer.NEWLINE,
		lexer.NAME, lexer.NAME, lexer.NEWLINE,
		lexer.DEDENT,
		lexer.NAME, lexer.OP, lexer.NUMBER, lexer.NEWLINE,
		lexer.EOF,
	}, got)
}

func TestTokenizeNestedIndentUnwindsAtEOF(t *testing.T) {
	src := "if x:\n    if y:\n        import os\n"
	got := kinds(t, src)
	require.Equal(t, lexer.DEDENT, got[len(got)-2])
	require.Equal(t, lexer.EOF, got[len(got)-1])
	dedents := 0
	for _, k := range got {
		if k == lexer.DEDENT {
			dedents++
		}
	}
	require.Equal(t, 2, dedents)
}

func TestTokenizeBracketsSuppressNewline(t *testing.T) {
	src := "from foo import (\n    bar,\n    baz,\n)\n"
	got := kinds(t, src)
	// the line breaks between the parens produce no NEWLINE/INDENT/DEDENT
	// tokens: the only NEWLINE is the one after the closing paren
	newlines := 0
	for _, k := range got {
		require.NotEqual(t, lexer.INDENT, k)
		require.NotEqual(t, lexer.DEDENT, k)
		if k == lexer.NEWLINE {
			newlines++
		}
	}
	require.Equal(t, 1, newlines)
}

func TestTokenizeBlankAndCommentLinesDoNotAffectIndent(t *testing.T) {
	src := "with slothy_imports():\n    import os\n\n    # a comment\n    import sys\n"
	got := kinds(t, src)
	indents := 0
	for _, k := range got {
		if k == lexer.INDENT {
			indents++
		}
	}
	require.Equal(t, 1, indents)
}

func TestUnterminatedStringIsAnError(t *testing.T) {
	_, err := lexer.New([]byte("x = 'unterminated\n")).Tokenize()
	require.Error(t, err)
}

func kindsOf(toks []lexer.Token) []lexer.Kind {
	out := make([]lexer.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}
