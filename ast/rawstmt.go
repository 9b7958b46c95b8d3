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

// RawStmt is a statement synthesized by the instrumenter (spec §4.3's
// rewrite schema) rather than parsed from the original file: the guard,
// rebind, and cleanup lines the rewrite inserts around a marker block's
// import statements. Its Pos anchors diagnostics to the statement it was
// generated next to; Code, not a span of the original source, is its text.
type RawStmt struct {
	Code string
	Pos  int
}

func (s *RawStmt) stmtNode()  {}
func (s *RawStmt) Start() int { return s.Pos }
func (s *RawStmt) End() int   { return s.Pos }
