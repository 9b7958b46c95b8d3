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

package parser_test

import (
	"testing"

	"github.com/kralicky/lazyimport/ast"
	"github.com/kralicky/lazyimport/parser"
	"github.com/stretchr/testify/require"
)

func TestParsePlainImport(t *testing.T) {
	f, err := parser.Parse("t.py", []byte("import os.path as p\n"))
	require.NoError(t, err)
	require.Len(t, f.Decls, 1)
	imp, ok := f.Decls[0].(*ast.ImportStmt)
	require.True(t, ok)
	require.Len(t, imp.Names, 1)
	require.Equal(t, "os.path", imp.Names[0].Name.String())
	require.Equal(t, "p", imp.Names[0].Alias)
	require.Equal(t, "p", imp.Names[0].BindingName())
}

func TestParseFromImportList(t *testing.T) {
	f, err := parser.Parse("t.py", []byte("from pkg import (a, b as c)\n"))
	require.NoError(t, err)
	require.Len(t, f.Decls, 1)
	fi, ok := f.Decls[0].(*ast.FromImportStmt)
	require.True(t, ok)
	require.Equal(t, "pkg", fi.Module.String())
	require.Len(t, fi.Names, 2)
	require.Equal(t, "a", fi.Names[0].BindingName())
	require.Equal(t, "c", fi.Names[1].BindingName())
}

func TestParseFromImportWildcard(t *testing.T) {
	f, err := parser.Parse("t.py", []byte("from pkg import *\n"))
	require.NoError(t, err)
	fi := f.Decls[0].(*ast.FromImportStmt)
	require.True(t, fi.Wildcard)
}

func TestParseWithBlock(t *testing.T) {
	src := "with slothy_imports():\n    import numpy\n    from pandas import DataFrame\n"
	f, err := parser.Parse("t.py", []byte(src))
	require.NoError(t, err)
	require.Len(t, f.Decls, 1)
	w, ok := f.Decls[0].(*ast.WithStmt)
	require.True(t, ok)
	require.Equal(t, "slothy_imports()", w.ExprText)
	require.Len(t, w.Body.Stmts, 2)
}

func TestParseClassAndDefNesting(t *testing.T) {
	src := "class Foo:\n    def bar(self):\n        import os\n"
	f, err := parser.Parse("t.py", []byte(src))
	require.NoError(t, err)
	cls := f.Decls[0].(*ast.ClassDef)
	require.Equal(t, "Foo", cls.Name)
	fn := cls.Body.Stmts[0].(*ast.FuncDef)
	require.Equal(t, "bar", fn.Name)
	_, ok := fn.Body.Stmts[0].(*ast.ImportStmt)
	require.True(t, ok)
}

func TestParseGenericStmtWithNestedBlock(t *testing.T) {
	src := "if True:\n    with slothy_imports():\n        import os\n"
	f, err := parser.Parse("t.py", []byte(src))
	require.NoError(t, err)
	gs, ok := f.Decls[0].(*ast.GenericStmt)
	require.True(t, ok)
	require.NotNil(t, gs.Body)
	w, ok := gs.Body.Stmts[0].(*ast.WithStmt)
	require.True(t, ok)
	require.Equal(t, "slothy_imports()", w.ExprText)
}

func TestParseUnbalancedDedentIsAnError(t *testing.T) {
	_, err := parser.Parse("t.py", []byte("class Foo:\nimport os\n"))
	require.Error(t, err)
}
