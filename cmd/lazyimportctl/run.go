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

func getRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <file>",
		Short: "Rewrite slothy_imports() blocks in a file and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			src, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			file, err := parser.Parse(path, src)
			if err != nil {
				return err
			}
			handler := reporter.NewHandler()
			out := instrument.Instrument(file, handler)
			if err := handler.Error(); err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(instrument.Render(out))
			return err
		},
	}
}
