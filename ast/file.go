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

// Package ast defines the syntax tree the parser produces and the
// instrumenter rewrites: a deliberately small surface covering import
// statements, from-imports, marker (`with`) blocks, class/function
// boundaries, and an opaque catch-all for everything else. It mirrors the
// teacher's ast package in spirit (a Node interface anchored to source
// position, a File holding top-level Decls, position lookup through the
// owning File) without any of the protobuf-specific node kinds.
package ast

import (
	"strings"

	"github.com/kralicky/lazyimport/reporter"
)

// Node is implemented by every syntax tree node. Start/End are byte offsets
// into the owning File's source, the same split of responsibility as the
// teacher's ast.Node / ast.FileInfo.
type Node interface {
	Start() int
	End() int
}

// File is the root of a parsed source file.
type File struct {
	Name string
	Src  []byte

	Decls []Stmt

	lineStarts []int // byte offset of the first byte of each line
}

// NewFile builds a File from its parsed declarations and indexes line
// starts for Position lookups.
func NewFile(name string, src []byte, decls []Stmt) *File {
	f := &File{Name: name, Src: src, Decls: decls}
	f.indexLines()
	return f
}

func (f *File) indexLines() {
	f.lineStarts = []int{0}
	for i, b := range f.Src {
		if b == '\n' {
			f.lineStarts = append(f.lineStarts, i+1)
		}
	}
}

// Position converts a byte offset into a one-based line/column, the same
// lazy conversion the teacher's ast.FileInfo.SourcePos performs.
func (f *File) Position(offset int) reporter.Position {
	// binary search for the last line start <= offset
	lo, hi := 0, len(f.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if f.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	line := lo
	col := offset - f.lineStarts[line]
	return reporter.Position{Filename: f.Name, Line: line + 1, Column: col + 1}
}

// Text returns the exact source text spanning [start, end).
func (f *File) Text(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(f.Src) {
		end = len(f.Src)
	}
	if start >= end {
		return ""
	}
	return string(f.Src[start:end])
}

// LineText returns the full source line containing offset, trimmed of its
// trailing newline. Used when an error needs "the exact offending source
// text" for a node that spans less than a full line (spec §6 error surface).
func (f *File) LineText(offset int) string {
	lo, hi := 0, len(f.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if f.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	start := f.lineStarts[lo]
	end := len(f.Src)
	if lo+1 < len(f.lineStarts) {
		end = f.lineStarts[lo+1]
	}
	return strings.TrimRight(string(f.Src[start:end]), "\r\n")
}
