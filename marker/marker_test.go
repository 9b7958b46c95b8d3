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

package marker_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kralicky/lazyimport/marker"
	"github.com/kralicky/lazyimport/proxy"
)

type stubModule struct{ name string }

func (m *stubModule) GetAttr(name string) (any, bool) { return nil, false }

type stubImporter struct{}

func (stubImporter) Import(ctx context.Context, target string) (proxy.Module, error) {
	return &stubModule{name: target}, nil
}

func TestActiveHookNilOutsideAnyEnteredContext(t *testing.T) {
	require.Nil(t, marker.ActiveHook())
}

func TestEnterInstallsProxyProducingShim(t *testing.T) {
	c := marker.NewContext(stubImporter{})
	c.Enter()
	defer c.Exit()

	hook := marker.ActiveHook()
	require.NotNil(t, hook)

	v, err := hook(context.Background(), "inspect")
	require.NoError(t, err)
	p, ok := v.(*proxy.DeferredProxy)
	require.True(t, ok, "a hook installed by Enter must hand back a DeferredProxy, not an eagerly resolved module")
	require.Equal(t, "inspect", p.TargetName)

	resolved, err := p.Resolve(context.Background())
	require.NoError(t, err)
	require.Equal(t, &stubModule{name: "inspect"}, resolved)
}

func TestExitRestoresPriorHook(t *testing.T) {
	require.Nil(t, marker.ActiveHook())

	outer := marker.NewContext(stubImporter{})
	outer.Enter()

	inner := marker.NewContext(stubImporter{})
	inner.Enter()
	require.NotNil(t, marker.ActiveHook())

	require.NoError(t, inner.Exit())
	require.NotNil(t, marker.ActiveHook(), "exiting the inner block must restore the outer block's shim")

	require.NoError(t, outer.Exit())
	require.Nil(t, marker.ActiveHook(), "exiting the outermost block must leave no shim installed")
}

func TestUninstrumentedEntryIsHarmless(t *testing.T) {
	require.NotPanics(t, func() {
		marker.Marker.Enter()
		defer marker.Marker.Exit()
	})
}
