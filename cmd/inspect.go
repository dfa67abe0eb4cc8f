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
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rotblauer/gpxc/api"
	"github.com/rotblauer/gpxc/common"
	"github.com/rotblauer/gpxc/stream"
	"github.com/rotblauer/gpxc/trackio"
	"github.com/rotblauer/gpxc/types/track"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var optListErrors bool

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect [file or directory]...",
	Short: "Show what compress would do, without writing anything",
	Long: `Inspect reads each track file, runs the pipeline in memory and prints
a table of tracks, segments and points before and after.

With --errors, the points the GPS error filter would drop are listed too.
`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)

		cfg := pipelineConfig(viper.GetViper())
		p, err := api.NewPipeline(cfg)
		if err != nil {
			log.Fatalln(err)
		}
		inputs, err := trackio.Discover(args, cfg.OutputSuffix)
		if err != nil {
			log.Fatalln(err)
		}
		ctx, cancel := common.CancelOnInterrupt(context.Background(), func() {
			os.Exit(1)
		})
		defer cancel()
		inspect(ctx, os.Stdout, inputs, p, optListErrors)
	},
}

type inspection struct {
	input  string
	doc    track.Document
	report api.Report
	err    error
}

func inspectFile(p *api.Pipeline, input string) inspection {
	doc, err := trackio.ReadFile(input)
	if err != nil {
		return inspection{input: input, err: err}
	}
	_, report := p.Process(doc)
	return inspection{input: input, doc: doc, report: report}
}

// inspect writes the dry-run tables for inputs to w.
// Inputs that cannot be read, including files in formats this program
// does not read, get a row with their error.
func inspect(ctx context.Context, w io.Writer, inputs []string, p *api.Pipeline, listErrors bool) {
	inspections := stream.Collect(ctx, stream.Map(ctx, runtime.NumCPU(), func(input string) inspection {
		return inspectFile(p, input)
	}, stream.Slice(ctx, inputs)))

	files := newTable(table.Row{"Input", "Tracks", "Segments", "In", "Out", "Ratio", "GPS errors"}, 1)
	gpsErrors := newTable(table.Row{"Input", "Lat", "Lon", "Time"}, 1)
	gpsErrorsN := 0

	for _, in := range inspections {
		name := filepath.Base(in.input)
		if in.err != nil {
			files.AppendRow(table.Row{name, in.err.Error()})
			continue
		}
		files.AppendRow(table.Row{
			name, len(in.doc.Tracks), in.doc.SegmentsN(),
			in.report.PointsIn, in.report.PointsOut, ratio(in.report.PointsIn, in.report.PointsOut),
			len(in.report.GPSErrors),
		})
		for _, pt := range in.report.GPSErrors {
			ts := ""
			if !pt.Time.IsZero() {
				ts = pt.Time.UTC().Format(time.RFC3339)
			}
			gpsErrors.AppendRow(table.Row{name, pt.Lat, pt.Lon, ts})
			gpsErrorsN++
		}
	}

	fmt.Fprintln(w, files.Render())
	if listErrors && gpsErrorsN > 0 {
		fmt.Fprintln(w, gpsErrors.Render())
	}
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().BoolVar(&optListErrors, "errors", false, "List the points removed as GPS errors")
}
