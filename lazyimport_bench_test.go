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
	"fmt"
	"testing"

	"github.com/kralicky/lazyimport/proxy"
)

// BenchmarkEagerImport models importing a corpus of modules up front, the
// baseline the original project's bench_slothy.py measures against.
func BenchmarkEagerImport(b *testing.B) {
	imp := benchImporter(64)
	ctx := context.Background()
	names := benchModuleNames(64)

	for i := 0; i < b.N; i++ {
		for _, name := range names {
			if _, err := imp.Import(ctx, name); err != nil {
				b.Fatal(err)
			}
		}
	}
}

// BenchmarkDeferredNamespaceColdGet measures the cost of binding the same
// corpus as deferred proxies and resolving every one through Namespace.Get,
// the steady-state cost the original benchmark calls "lazy".
func BenchmarkDeferredNamespaceColdGet(b *testing.B) {
	imp := benchImporter(64)
	names := benchModuleNames(64)
	ctx := context.Background()

	for i := 0; i < b.N; i++ {
		b.StopTimer()
		ns := proxy.NewNamespace()
		for _, name := range names {
			ns.BindDeferred(name, proxy.NewDeferredProxy(imp, name, name, ""))
		}
		b.StartTimer()

		for _, name := range names {
			if _, _, err := ns.Get(ctx, name); err != nil {
				b.Fatal(err)
			}
		}
	}
}

// BenchmarkDeferredNamespaceUntouched measures the cost of binding the same
// corpus without ever resolving it, the case a marker block exists to make
// cheap.
func BenchmarkDeferredNamespaceUntouched(b *testing.B) {
	imp := benchImporter(64)
	names := benchModuleNames(64)

	for i := 0; i < b.N; i++ {
		ns := proxy.NewNamespace()
		for _, name := range names {
			ns.BindDeferred(name, proxy.NewDeferredProxy(imp, name, name, ""))
		}
	}
}

func benchModuleNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("benchmod%d", i)
	}
	return names
}

type benchModule struct{ name string }

func (m *benchModule) GetAttr(name string) (any, bool) { return nil, false }

type benchImporter int

func (benchImporter) Import(ctx context.Context, target string) (proxy.Module, error) {
	return &benchModule{name: target}, nil
}
