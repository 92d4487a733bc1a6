// Copyright 2025 The packetd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cmd is the demo CLI: a small spf13/cobra program exercising
// the wire/conn stack end to end, the way cmd/agent.go in the teacher
// wires its own controller.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/packetd/mongowire/logger"
)

var (
	configPath string
	logLevel   string
	logFile    string
	setFlags   []string
)

var rootCmd = &cobra.Command{
	Use:   "mongowire",
	Short: "A MongoDB wire protocol client and demo CLI",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetOptions(logger.Options{
			Stdout:   logFile == "",
			Level:    logLevel,
			Filename: logFile,
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Configuration file path (optional; flags win over config values)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log.level", "info", "Log level [debug|info|warn|error]")
	rootCmd.PersistentFlags().StringVar(&logFile, "log.file", "", "Log file path; logs to stdout when empty")
	rootCmd.PersistentFlags().StringArrayVar(&setFlags, "set", nil, "Override a config value, in key=value form; repeatable")
}

// Execute runs the root command, printing any returned error to
// stderr and exiting non-zero.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
