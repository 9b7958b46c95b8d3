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

package console_test

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/kralicky/lazyimport/ast"
	"github.com/kralicky/lazyimport/console"
)

type recordingExecutor struct {
	files []*ast.File
	// incompleteUntil causes Run to return console.ErrIncompleteInput for
	// the first n calls, then succeed.
	incompleteUntil int
	calls           int
}

func (e *recordingExecutor) Run(f *ast.File) error {
	e.calls++
	if e.calls <= e.incompleteUntil {
		return console.ErrIncompleteInput
	}
	e.files = append(e.files, f)
	return nil
}

func enter(c *console.Console) *console.Console {
	model, _ := c.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return model.(*console.Console)
}

func typeLine(c *console.Console, line string) {
	for _, r := range line {
		model, _ := c.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		c = model.(*console.Console)
	}
}

func TestConsoleInstrumentsAndDispatchesCompleteStatement(t *testing.T) {
	exec := &recordingExecutor{}
	c := console.New(exec, "<stdin>")

	typeLine(c, "import os")
	c = enter(c)

	require.Len(t, exec.files, 1)
	require.Len(t, exec.files[0].Decls, 1)
	_, ok := exec.files[0].Decls[0].(*ast.ImportStmt)
	require.True(t, ok)
}

func TestConsoleReportsParseErrorWithoutCallingExecutor(t *testing.T) {
	exec := &recordingExecutor{}
	c := console.New(exec, "<stdin>")

	typeLine(c, "import ")
	c = enter(c)

	require.Empty(t, exec.files)
	require.Equal(t, 0, exec.calls)
}

func TestConsoleKeepsPromptOpenOnIncompleteInput(t *testing.T) {
	exec := &recordingExecutor{incompleteUntil: 1}
	c := console.New(exec, "<stdin>")

	typeLine(c, "import os")
	c = enter(c)
	require.Equal(t, 1, exec.calls)
	require.Empty(t, exec.files)

	typeLine(c, "import sys")
	c = enter(c)
	require.Equal(t, 2, exec.calls)
	require.Len(t, exec.files, 1)
}

func TestConsoleCtrlCQuits(t *testing.T) {
	c := console.New(&recordingExecutor{}, "<stdin>")
	_, cmd := c.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
}
