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

// Package reporter defines the error and position types shared by the
// lexer, parser, and instrumenter. It mirrors the teacher's error-with-
// position design: every syntax-level failure carries a filename, a
// one-based line and column, and the exact offending source text, so that
// an embedding host can print a diagnostic without re-scanning the file.
package reporter

import "fmt"

// Position identifies a single point in a source file.
type Position struct {
	Filename string
	Line     int // one-based
	Column   int // one-based
}

func (p Position) String() string {
	if p.Filename == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// IsValid reports whether p names an actual location. The zero Position is
// invalid.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}
