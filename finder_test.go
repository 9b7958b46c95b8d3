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

package lazyimport_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/kralicky/lazyimport"
	"github.com/kralicky/lazyimport/ast"
	"github.com/kralicky/lazyimport/proxy"
)

type noopHost struct{}

func (noopHost) Import(ctx context.Context, target string) (proxy.Module, error) {
	return nil, nil
}

func (noopHost) Compile(file *ast.File) (lazyimport.CompiledUnit, error) {
	return file, nil
}

// P6: calling Install N times and Uninstall M times, M >= N >= 1, returns
// the chain to its original contents.
func TestP6InstallUninstallIdempotence(t *testing.T) {
	fsys := fstest.MapFS{
		"mod.py": &fstest.MapFile{Data: []byte("with slothy_imports():\n    import os\n")},
	}
	loader := lazyimport.NewLoader(noopHost{})

	var chain lazyimport.FinderChain
	var other fakeFinder
	chain = append(chain, other)
	original := append(lazyimport.FinderChain{}, chain...)

	for i := 0; i < 3; i++ {
		require.NoError(t, lazyimport.Install(&chain, fsys, loader))
	}
	require.Len(t, chain, 2, "repeated Install must not stack up duplicate path hooks")

	for i := 0; i < 5; i++ {
		require.NoError(t, lazyimport.Uninstall(&chain))
	}
	require.Equal(t, original, chain)
}

func TestInstalledFinderRendersInstrumentedSource(t *testing.T) {
	fsys := fstest.MapFS{
		"mod.py": &fstest.MapFile{Data: []byte("with slothy_imports():\n    import os\n")},
	}
	loader := lazyimport.NewLoader(noopHost{})

	var chain lazyimport.FinderChain
	require.NoError(t, lazyimport.Install(&chain, fsys, loader))

	src, ok := chain.Find("mod.py")
	require.True(t, ok)
	require.Contains(t, string(src.Data), "DeferredProxy")

	_, ok = chain.Find("missing.py")
	require.False(t, ok)
}

type fakeFinder struct{}

func (fakeFinder) Find(path string) (lazyimport.Source, bool) { return lazyimport.Source{}, false }
