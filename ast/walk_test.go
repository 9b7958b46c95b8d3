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

package ast_test

import (
	"testing"

	"github.com/kralicky/lazyimport/ast"
	"github.com/kralicky/lazyimport/parser"
	"github.com/stretchr/testify/require"
)

func TestWalkDepthCountsOnlyClassAndFuncNesting(t *testing.T) {
	src := "if True:\n" +
		"    with slothy_imports():\n" +
		"        import os\n" +
		"class Foo:\n" +
		"    with slothy_imports():\n" +
		"        import sys\n"
	f, err := parser.Parse("t.py", []byte(src))
	require.NoError(t, err)

	var depths []int
	ast.Walk(f.Decls, func(s ast.Stmt, depth int) bool {
		if w, ok := s.(*ast.WithStmt); ok && w.ExprText == "slothy_imports()" {
			depths = append(depths, depth)
		}
		return true
	})
	require.Equal(t, []int{0, 1}, depths)
}
