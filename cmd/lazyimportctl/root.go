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
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kralicky/lazyimport/config"
)

// cfg holds the config file loaded via --config, nil if the flag was never
// set. install.go consults it for CacheDir; root.go consults it
// for LogLevel when --log-level was left at its default.
var cfg *config.Config

func newRootCmd() *cobra.Command {
	var logLevel string
	var configPath string

	root := &cobra.Command{
		Use:           "lazyimportctl",
		Short:         "Inspect and drive the lazyimport instrumenter from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				c, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = c
				if !cmd.Flags().Changed("log-level") {
					logLevel = c.LogLevel
				}
			}
			var level slog.Level
			if err := level.UnmarshalText([]byte(logLevel)); err != nil {
				level = slog.LevelInfo
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn, or error")
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a lazyimportctl YAML config file")

	root.AddCommand(getVersionCmd())
	root.AddCommand(getRunCmd())
	root.AddCommand(getCheckCmd())
	root.AddCommand(getInstallCmd())
	root.AddCommand(getUninstallCmd())
	return root
}
