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
	"path/filepath"
	"strings"
	"sync"

	"github.com/rotblauer/gpxc/api"
	"github.com/rotblauer/gpxc/common"
	"github.com/rotblauer/gpxc/events"
	"github.com/rotblauer/gpxc/params"
	"github.com/rotblauer/gpxc/trackio"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var optWorkersN int
var optManifest string
var optForce bool

// compressCmd represents the compress command
var compressCmd = &cobra.Command{
	Use:   "compress [file or directory]...",
	Short: "Clean and compress track files",
	Long: `Clean and compress GPX and GeoJSON track files.

Directories are searched recursively for .gpx, .geojson and .json files.
Each output is written next to its input, named <base><suffix><ext>.
Files already named with the output suffix are skipped.

Inputs that have not changed since the last run with the same settings
are skipped unless --force is given.

The first interrupt stops the run after the files in flight; the second exits at once.

Strategies:

` + strategiesHelp() + `
Examples:

  gpxc compress ~/tracks
  gpxc compress --strategy remove-close --proximity 25 ride.gpx
  gpxc compress --strategy fraction --keep-fraction 0.2 --format geojson ride.gpx
`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)

		cfg := pipelineConfig(viper.GetViper())
		inputs, err := trackio.Discover(args, cfg.OutputSuffix)
		if err != nil {
			log.Fatalln(err)
		}
		if len(inputs) == 0 {
			slog.Warn("No track files found", "args", args)
			return
		}

		opts := params.DefaultBatchConfig()
		opts.Workers = optWorkersN
		if !optForce {
			opts.ManifestPath = optManifest
		}

		report, err := runBatchWithProgress(inputs, cfg, opts)
		if report != nil {
			fmt.Println(renderBatchTable(report))
			for _, f := range report.Failures() {
				slog.Error("Failed", "input", f.Input, "error", f.Err)
			}
		}
		if err != nil {
			if errors.Is(err, context.Canceled) {
				slog.Warn("Interrupted")
				os.Exit(130)
			}
			log.Fatalln(err)
		}
		if report.Failed > 0 {
			os.Exit(1)
		}
	},
}

// runBatchWithProgress runs the batch with interrupt handling,
// drawing a progress bar on stderr when it is a terminal.
func runBatchWithProgress(inputs []string, cfg params.PipelineConfig, opts params.BatchConfig) (*api.BatchReport, error) {
	ctx, cancel := common.CancelOnInterrupt(context.Background(), func() {
		slog.Error("Forced exit")
		os.Exit(1)
	})
	defer cancel()

	if !isTerminal(os.Stderr) {
		return api.RunBatch(ctx, inputs, cfg, opts)
	}

	bar := progressbar.NewOptions(len(inputs),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("gpxc"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	ch := make(chan events.FileProcessed, opts.Workers+1)
	sub := events.FileProcessedFeed.Subscribe(ch)
	wg := new(sync.WaitGroup)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case o := <-ch:
				bar.Describe(filepath.Base(o.Input))
				_ = bar.Add(1)
			case <-sub.Err():
				return
			}
		}
	}()

	report, err := api.RunBatch(ctx, inputs, cfg, opts)
	sub.Unsubscribe()
	wg.Wait()
	_ = bar.Finish()
	return report, err
}

func strategiesHelp() string {
	var b strings.Builder
	for _, s := range params.Strategies {
		fmt.Fprintf(&b, "  %-14s %s\n", s[0], s[1])
	}
	return b.String()
}

func init() {
	rootCmd.AddCommand(compressCmd)

	defaults := params.DefaultBatchConfig()
	flags := compressCmd.Flags()
	flags.IntVar(&optWorkersN, "workers", defaults.Workers, "Number of files processed in parallel")
	flags.StringVar(&optManifest, "manifest", filepath.Join(params.DatadirRoot, params.ManifestDBName),
		"Database of processed files, used to skip unchanged inputs. Empty disables it")
	flags.BoolVar(&optForce, "force", false, "Process every input, even if its output is current")
}
