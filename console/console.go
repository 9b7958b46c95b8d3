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

// Package console implements the Interactive Console Adapter (C7): a thin
// bubbletea-based line prompt that instruments each statement the user
// enters before handing it to a caller-supplied Executor. Incomplete input
// and exception handling are the Executor's responsibility — the real
// read-compile-execute loop being wrapped; Console only ever touches the
// compile step (spec §4.7).
package console

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kralicky/lazyimport/ast"
	"github.com/kralicky/lazyimport/instrument"
	"github.com/kralicky/lazyimport/parser"
	"github.com/kralicky/lazyimport/reporter"
)

var (
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	echoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

// ErrIncompleteInput tells Console the statement submitted so far (e.g. an
// unterminated "with" block) is not complete: Console will read another
// line, append it, and resubmit the combined source instead of reporting
// an error.
var ErrIncompleteInput = errors.New("incomplete input")

// Executor runs what Console has already parsed and instrumented.
// Everything past the compile step belongs to the wrapped read-eval loop,
// not to Console.
type Executor interface {
	// Run receives the instrumented source for the statement entered so
	// far. Returning ErrIncompleteInput asks Console for more lines; any
	// other non-nil error is reported to the user and the statement is
	// discarded.
	Run(file *ast.File) error
}

// Console is the bubbletea model driving one REPL session.
type Console struct {
	exec     Executor
	filename string

	input    textinput.Model
	pending  []string
	history  []string
	quitting bool
}

// New returns a Console that submits instrumented statements to exec.
// filename is used only for diagnostics (the file/line/column error
// surface spec §6 requires).
func New(exec Executor, filename string) *Console {
	ti := textinput.New()
	ti.Prompt = ">>> "
	ti.Focus()
	return &Console{exec: exec, filename: filename, input: ti}
}

// Init satisfies tea.Model.
func (c *Console) Init() tea.Cmd {
	return textinput.Blink
}

// Update satisfies tea.Model.
func (c *Console) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD:
			c.quitting = true
			return c, tea.Quit
		case tea.KeyEnter:
			line := c.input.Value()
			c.input.SetValue("")
			c.submitLine(line)
			if c.quitting {
				return c, tea.Quit
			}
			return c, nil
		}
	}
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

// View satisfies tea.Model.
func (c *Console) View() string {
	var b strings.Builder
	for _, h := range c.history {
		b.WriteString(h)
		b.WriteByte('\n')
	}
	if !c.quitting {
		b.WriteString(c.input.View())
	}
	return b.String()
}

// Run starts the bubbletea program and blocks until the user exits.
func (c *Console) Run() error {
	_, err := tea.NewProgram(c).Run()
	return err
}

func (c *Console) submitLine(line string) {
	c.history = append(c.history, echoStyle.Render(c.input.Prompt+line))
	c.pending = append(c.pending, line)
	src := strings.Join(c.pending, "\n") + "\n"

	file, err := parser.Parse(c.filename, []byte(src))
	if err != nil {
		c.report(err)
		return
	}

	handler := reporter.NewHandler()
	out := instrument.Instrument(file, handler)
	if err := handler.Error(); err != nil {
		c.report(err)
		return
	}

	switch err := c.exec.Run(out); {
	case errors.Is(err, ErrIncompleteInput):
		c.input.Prompt = "... "
		return
	case err != nil:
		c.report(err)
		return
	}
	c.resetPrompt()
}

func (c *Console) report(err error) {
	c.history = append(c.history, errorStyle.Render(err.Error()))
	c.resetPrompt()
}

func (c *Console) resetPrompt() {
	c.pending = nil
	c.input.Prompt = ">>> "
}
