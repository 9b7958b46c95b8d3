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

package reporter

import (
	"errors"
	"fmt"
)

// ErrInvalidSource is the sentinel error that every SyntaxError and every
// parser syntax error unwraps to, so callers can detect any source-level
// failure with errors.Is. Mirrors the teacher's reporter.ErrInvalidSource.
var ErrInvalidSource = errors.New("instrumentation failed: invalid source")

// ErrorWithPos is an error about a source file that adds the exact location,
// and the exact offending source text, that caused it. The instrumenter's
// syntax-level errors (scope violations, content violations) and the
// parser's syntax errors both implement this.
type ErrorWithPos interface {
	error
	// GetPosition returns the source position that caused the underlying error.
	GetPosition() Position
	// SourceText returns the exact source text that triggered the error.
	SourceText() string
	// Unwrap returns the underlying error.
	Unwrap() error
}

// Error creates a new ErrorWithPos from the given error, position, and the
// exact offending source text.
func Error(pos Position, text string, err error) ErrorWithPos {
	return errorWithSourcePos{pos: pos, text: text, underlying: err}
}

// Errorf creates a new ErrorWithPos whose underlying error is created using
// the given message format and arguments (via fmt.Errorf).
func Errorf(pos Position, text string, format string, args ...any) ErrorWithPos {
	return errorWithSourcePos{pos: pos, text: text, underlying: fmt.Errorf(format, args...)}
}

type errorWithSourcePos struct {
	underlying error
	pos        Position
	text       string
}

func (e errorWithSourcePos) Error() string {
	return fmt.Sprintf("%s: %v", e.pos, e.underlying)
}

func (e errorWithSourcePos) GetPosition() Position {
	return e.pos
}

func (e errorWithSourcePos) SourceText() string {
	return e.text
}

func (e errorWithSourcePos) Unwrap() error {
	return e.underlying
}

var _ ErrorWithPos = errorWithSourcePos{}

// Category distinguishes the error taxonomy from §7 of the specification:
// the instrumenter fails loudly and early (ScopeViolation, ContentViolation),
// while the runtime fails lazily and transparently (ResolutionFailure,
// LoaderFailure propagate verbatim from their origin instead of being
// wrapped here).
type Category string

const (
	// CategoryScopeViolation: a marker block appeared inside a class or
	// function body instead of at module top level.
	CategoryScopeViolation Category = "scope_violation"
	// CategoryContentViolation: a marker block contained something other
	// than a plain import or from-import, or a wildcard from-import.
	CategoryContentViolation Category = "content_violation"
)

// SyntaxError is the concrete ErrorWithPos raised for scope and content
// violations detected while instrumenting a marker block (spec §7 items 1-2).
type SyntaxError struct {
	category Category
	pos      Position
	text     string
	message  string
}

// NewSyntaxError builds a SyntaxError for the given category, position, and
// the exact offending source text.
func NewSyntaxError(category Category, pos Position, text, message string) *SyntaxError {
	return &SyntaxError{category: category, pos: pos, text: text, message: message}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s: %q", e.pos, e.message, e.text)
}

func (e *SyntaxError) GetPosition() Position { return e.pos }
func (e *SyntaxError) SourceText() string    { return e.text }
func (e *SyntaxError) Unwrap() error         { return ErrInvalidSource }
func (e *SyntaxError) Category() Category    { return e.category }

var _ ErrorWithPos = (*SyntaxError)(nil)

// Handler accumulates errors the way the teacher's
// reporter.Handler does, so instrumentation can keep scanning a file after
// the first problem in order to report several violations in one pass
// instead of stopping at the first one.
type Handler struct {
	errs []error
}

// NewHandler returns a ready-to-use Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// HandleError records err and always returns it, mirroring the teacher's
// "fail loudly and early" policy for instrumentation-time problems: callers
// that want to keep scanning for more violations ignore the return value;
// callers that want to stop at the first one return it immediately.
func (h *Handler) HandleError(err error) error {
	h.errs = append(h.errs, err)
	return err
}

// Errors returns every error recorded so far, in report order.
func (h *Handler) Errors() []error {
	return h.errs
}

// Error returns the first recorded error, or nil if none were recorded.
func (h *Handler) Error() error {
	if len(h.errs) == 0 {
		return nil
	}
	return h.errs[0]
}
