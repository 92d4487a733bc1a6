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

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/packetd/mongowire/config"
	"github.com/packetd/mongowire/internal/sigs"
	"github.com/packetd/mongowire/logger"
	"github.com/packetd/mongowire/server"
)

var serveMetricsConfig server.Config

var serveMetricsCmd = &cobra.Command{
	Use:   "serve-metrics",
	Short: "Serve Prometheus metrics and a liveness probe",
	Example: "# mongowire serve-metrics --addr 0.0.0.0:9090\n" +
		"# mongowire serve-metrics --config mongowire.yaml",
	Run: func(cmd *cobra.Command, args []string) {
		serveMetricsConfig.Address = serveMetricsAddr
		serveMetricsConfig.Pprof = serveMetricsPprof

		if configPath != "" {
			cfg, err := config.LoadPath(configPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
				os.Exit(1)
			}
			if err := cfg.UnpackChild("server", &serveMetricsConfig); err != nil {
				fmt.Fprintf(os.Stderr, "failed to unpack server config: %v\n", err)
				os.Exit(1)
			}
		}

		// Flags win over the config file: only --set and the explicit
		// --addr/--pprof flags the user actually passed get re-applied
		// on top of whatever the config file set.
		overrides := parseSetOverrides(setFlags)
		if cmd.Flags().Changed("addr") {
			overrides.Merge("address", serveMetricsAddr)
		}
		if cmd.Flags().Changed("pprof") {
			overrides.Merge("pprof", serveMetricsPprof)
		}
		if err := config.ApplyOverrides(overrides, &serveMetricsConfig); err != nil {
			fmt.Fprintf(os.Stderr, "failed to apply overrides: %v\n", err)
			os.Exit(1)
		}

		s := server.New(serveMetricsConfig)
		go func() {
			if err := s.ListenAndServe(); err != nil {
				logger.Errorf("serve-metrics: %v", err)
			}
		}()

		<-sigs.Terminate()
	},
}

var (
	serveMetricsAddr  string
	serveMetricsPprof bool
)

func init() {
	serveMetricsCmd.Flags().StringVar(&serveMetricsAddr, "addr", "0.0.0.0:9090", "Address to serve /metrics and /healthz on")
	serveMetricsCmd.Flags().BoolVar(&serveMetricsPprof, "pprof", false, "Also expose /debug/pprof routes")
	rootCmd.AddCommand(serveMetricsCmd)
}
