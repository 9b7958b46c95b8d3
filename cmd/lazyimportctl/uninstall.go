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
)

func getUninstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall <dir> <module-path>",
		Short: "Install then immediately uninstall a path-hook finder, to show the chain reverts",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, modulePath := args[0], args[1]

			loader := lazyimport.NewLoader(renderHost{})
			var chain lazyimport.FinderChain
			if err := lazyimport.Install(&chain, os.DirFS(dir), loader); err != nil {
				return err
			}
			if err := lazyimport.Uninstall(&chain); err != nil {
				return err
			}

			if _, ok := chain.Find(modulePath); ok {
				return fmt.Errorf("chain still resolved %q after uninstall", modulePath)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "uninstalled: chain no longer resolves", modulePath)
			return nil
		},
	}
}
