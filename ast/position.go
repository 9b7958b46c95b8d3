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

package ast

import "github.com/kralicky/lazyimport/reporter"

// PositionIn computes the one-based line/column of offset within src,
// without requiring a constructed *File. The parser uses this to attach
// positions to syntax errors as they're discovered, before a File exists
// to own the finished tree.
func PositionIn(filename string, src []byte, offset int) reporter.Position {
	line := 1
	col := 1
	limit := offset
	if limit > len(src) {
		limit = len(src)
	}
	for i := 0; i < limit; i++ {
		if src[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return reporter.Position{Filename: filename, Line: line, Column: col}
}

// LineTextIn returns the full source line containing offset, trimmed of
// its trailing newline.
func LineTextIn(src []byte, offset int) string {
	if offset > len(src) {
		offset = len(src)
	}
	start := offset
	for start > 0 && src[start-1] != '\n' {
		start--
	}
	end := offset
	for end < len(src) && src[end] != '\n' {
		end++
	}
	s := string(src[start:end])
	if len(s) > 0 && s[len(s)-1] == '\r' {
		s = s[:len(s)-1]
	}
	return s
}
