/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/rotblauer/gpxc/params"
	"github.com/rotblauer/gpxc/trackio"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export --format <format> [file or directory]...",
	Short: "Convert track files to another format",
	Long: `Export writes each input in the --format given, without cleaning,
smoothing or compressing it. The --remove-* flags still apply.

Unless --suffix is given, outputs keep the input's base name:

  gpxc export --format kml ride.gpx   # writes ride.kml
`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)

		cfg, err := exportConfig(pipelineConfig(viper.GetViper()), cmd.Flags().Changed("suffix"))
		if err != nil {
			log.Fatalln(err)
		}
		inputs, err := trackio.Discover(args, cfg.OutputSuffix)
		if err != nil {
			log.Fatalln(err)
		}

		opts := params.DefaultBatchConfig()
		report, err := runBatchWithProgress(inputs, cfg, opts)
		if report != nil {
			fmt.Println(renderBatchTable(report))
			for _, f := range report.Failures() {
				slog.Error("Failed", "input", f.Input, "error", f.Err)
			}
		}
		if err != nil {
			if errors.Is(err, context.Canceled) {
				os.Exit(130)
			}
			log.Fatalln(err)
		}
		if report.Failed > 0 {
			os.Exit(1)
		}
	},
}

// exportConfig turns cfg into a conversion-only pipeline.
func exportConfig(cfg params.PipelineConfig, keepSuffix bool) (params.PipelineConfig, error) {
	if cfg.OutputFormat == "" {
		return cfg, errors.New("export needs --format")
	}
	out := params.DefaultIdentityConfig()
	out.StripConfig = cfg.StripConfig
	out.OutputFormat = cfg.OutputFormat
	out.OutputSuffix = ""
	if keepSuffix {
		out.OutputSuffix = cfg.OutputSuffix
	}
	return out, nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
