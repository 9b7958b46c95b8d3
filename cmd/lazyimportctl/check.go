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

	"github.com/kralicky/lazyimport/instrument"
	"github.com/kralicky/lazyimport/parser"
	"github.com/kralicky/lazyimport/reporter"
)

func getCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>...",
		Short: "Report scope and content violations without printing rewritten source",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var failed bool
			for _, path := range args {
				src, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("reading %s: %w", path, err)
				}
				file, err := parser.Parse(path, src)
				if err != nil {
					fmt.Fprintln(cmd.OutOrStdout(), err)
					failed = true
					continue
				}
				handler := reporter.NewHandler()
				instrument.Instrument(file, handler)
				for _, e := range handler.Errors() {
					fmt.Fprintln(cmd.OutOrStdout(), e)
					failed = true
				}
			}
			if failed {
				return fmt.Errorf("one or more files failed checks")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}
