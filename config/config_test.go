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

package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/kralicky/lazyimport/config"
	"github.com/stretchr/testify/require"
)

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := "import_paths:\n  - ./vendor\ncache_dir: ./.cache\nlog_level: debug\nmax_parallelism: 4\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	c, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"./vendor"}, c.ImportPaths)
	require.Equal(t, "./.cache", c.CacheDir)
	require.Equal(t, int64(4), c.MaxParallelism)
	require.Equal(t, slog.LevelDebug, c.SlogLevel())
}

func TestSlogLevelDefaultsToInfo(t *testing.T) {
	c := &config.Config{}
	require.Equal(t, slog.LevelInfo, c.SlogLevel())
}
