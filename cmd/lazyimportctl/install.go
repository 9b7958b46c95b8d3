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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kralicky/lazyimport"
	"github.com/kralicky/lazyimport/cache"
)

func getInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install <dir> <module-path>",
		Short: "Install a path-hook finder over dir and resolve module-path through it",
		Long: "Demonstrates the C5 path hook: a lazyimport.FinderChain with a single " +
			"entry is built, the path hook is installed into it, and the given " +
			"module path is resolved through the chain, printing the instrumented source. " +
			"If --config names a file with a non-empty cache_dir, resolved sources are " +
			"also cached there across runs.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, modulePath := args[0], args[1]

			var opts []lazyimport.LoaderOption
			if cfg != nil && cfg.CacheDir != "" {
				c, err := cache.New(cfg.CacheDir)
				if err != nil {
					return fmt.Errorf("opening cache dir: %w", err)
				}
				opts = append(opts, lazyimport.WithCache(c))
			}
			loader := lazyimport.NewLoader(renderHost{}, opts...)
			var chain lazyimport.FinderChain
			if err := lazyimport.Install(&chain, os.DirFS(dir), loader); err != nil {
				return err
			}

			src, ok := chain.Find(modulePath)
			if !ok {
				return fmt.Errorf("no finder in the chain resolved %q", modulePath)
			}
			_, err := cmd.OutOrStdout().Write(src.Data)
			return err
		},
	}
}
