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

package parser

import (
	"github.com/kralicky/lazyimport/ast"
	"github.com/kralicky/lazyimport/reporter"
)

// ErrNoSyntaxError is a sentinel-style category used when the parser hits a
// malformed token stream it cannot recover from (unexpected EOF, unbalanced
// indentation). It always carries a position, mirroring the teacher's
// parser.ParseError.
type ErrNoSyntaxError struct {
	pos     reporter.Position
	text    string
	message string
}

func (e *ErrNoSyntaxError) Error() string {
	return e.pos.String() + ": " + e.message
}

func (e *ErrNoSyntaxError) GetPosition() reporter.Position { return e.pos }
func (e *ErrNoSyntaxError) SourceText() string             { return e.text }
func (e *ErrNoSyntaxError) Unwrap() error                  { return reporter.ErrInvalidSource }

var _ reporter.ErrorWithPos = (*ErrNoSyntaxError)(nil)

func newSyntaxError(filename string, src []byte, offset int, message string) *ErrNoSyntaxError {
	return &ErrNoSyntaxError{
		pos:     ast.PositionIn(filename, src, offset),
		text:    ast.LineTextIn(src, offset),
		message: message,
	}
}
