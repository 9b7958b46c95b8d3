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

package main

import (
	"context"
	"fmt"

	"github.com/kralicky/lazyimport"
	"github.com/kralicky/lazyimport/ast"
	"github.com/kralicky/lazyimport/instrument"
	"github.com/kralicky/lazyimport/proxy"
)

// renderHost is a stand-in for a real interpreter's import machinery: its
// Compile step only renders the instrumented tree back to text, and its
// Import step always fails. It exists so this CLI can exercise the loader
// and path-hook API without embedding an actual Python host.
type renderHost struct{}

func (renderHost) Compile(file *ast.File) (lazyimport.CompiledUnit, error) {
	return instrument.Render(file), nil
}

func (renderHost) Import(ctx context.Context, target string) (proxy.Module, error) {
	return nil, fmt.Errorf("renderHost cannot import %q: no interpreter embedded", target)
}
