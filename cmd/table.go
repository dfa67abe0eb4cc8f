package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/rotblauer/gpxc/api"
	"github.com/rotblauer/gpxc/common"
	"github.com/rotblauer/gpxc/events"
)

func newTable(header table.Row, rightFrom int) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(header)
	configs := make([]table.ColumnConfig, 0, len(header))
	for i := rightFrom; i < len(header); i++ {
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       text.AlignRight,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)
	return tw
}

func status(o events.FileProcessed) string {
	switch {
	case o.Failed():
		return "failed"
	case o.Skipped:
		return "skipped"
	}
	return "written"
}

func ratio(in, out int) string {
	if in == 0 {
		return "-"
	}
	return strconv.FormatFloat(common.DecimalToFixed(common.Ratio(out, in), 3), 'f', -1, 64)
}

// renderBatchTable renders one row per outcome and a totals footer.
func renderBatchTable(report *api.BatchReport) string {
	tw := newTable(table.Row{"Input", "Status", "In", "Out", "Ratio", "GPS errors", "Size", "Took"}, 2)
	for _, o := range report.Outcomes {
		row := table.Row{filepath.Base(o.Input), status(o), o.PointsIn, o.PointsOut, ratio(o.PointsIn, o.PointsOut), o.GPSErrors, "", ""}
		if !o.Failed() && !o.Skipped {
			row[6] = humanize.Bytes(uint64(o.Bytes))
			row[7] = o.Duration.Round(1e6).String()
		}
		tw.AppendRow(row)
	}
	tw.AppendFooter(table.Row{
		fmt.Sprintf("%d files", len(report.Outcomes)),
		fmt.Sprintf("%d/%d/%d", report.Written, report.Skipped, report.Failed),
		report.PointsIn,
		report.PointsOut,
		fmt.Sprintf("%.3f/%.3f", report.MeanRatio, report.MedianRatio),
		report.GPSErrors,
		humanize.Bytes(uint64(report.Bytes)),
		report.Duration.Round(1e6).String(),
	})
	return tw.Render()
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
