package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rotblauer/gpxc/api"
	"github.com/rotblauer/gpxc/events"
	"github.com/rotblauer/gpxc/params"
	"github.com/rotblauer/gpxc/testing/testdata"
	"github.com/spf13/viper"
)

func newTestViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	bindEnv(v)
	if err := v.BindPFlags(pipelineFlags(params.DefaultPipelineConfig())); err != nil {
		t.Fatal(err)
	}
	return v
}

func TestPipelineConfig_defaults(t *testing.T) {
	got := pipelineConfig(newTestViper(t))
	if want := params.DefaultPipelineConfig(); got != want {
		t.Errorf("got %+v\nwant %+v", got, want)
	}
}

func TestPipelineConfig_overrides(t *testing.T) {
	t.Setenv("GPXC_KEEP_FRACTION", "0.3")
	t.Setenv("GPXC_REMOVE_GPS_ERRORS", "false")

	v := newTestViper(t)
	v.Set("strategy", params.StrategyFraction)
	v.Set("format", params.FormatKML)

	got := pipelineConfig(v)
	if got.Strategy != params.StrategyFraction {
		t.Errorf("strategy: got %q", got.Strategy)
	}
	if got.KeepFraction != 0.3 {
		t.Errorf("keep fraction: got %v", got.KeepFraction)
	}
	if got.RemoveGPSErrors {
		t.Error("remove gps errors: got true")
	}
	if got.OutputFormat != params.FormatKML {
		t.Errorf("format: got %q", got.OutputFormat)
	}
	if _, err := api.NewPipeline(got); err != nil {
		t.Error(err)
	}
}

func TestExportConfig(t *testing.T) {
	cfg := params.DefaultPipelineConfig()
	if _, err := exportConfig(cfg, false); err == nil {
		t.Error("expected an error without a format")
	}

	cfg.OutputFormat = params.FormatCSV
	cfg.RemoveTime = true
	got, err := exportConfig(cfg, false)
	if err != nil {
		t.Fatal(err)
	}
	if got.Strategy != params.StrategyNone || got.RemoveGPSErrors || got.SmoothVertical || got.SmoothHorizontal {
		t.Errorf("export must not alter geometry: %+v", got)
	}
	if !got.RemoveTime {
		t.Error("strip flags must carry over")
	}
	if got.OutputSuffix != "" {
		t.Errorf("suffix: got %q", got.OutputSuffix)
	}

	got, _ = exportConfig(cfg, true)
	if got.OutputSuffix != params.DefaultOutputSuffix {
		t.Errorf("suffix: got %q", got.OutputSuffix)
	}
}

func TestStrategiesHelp(t *testing.T) {
	help := strategiesHelp()
	for _, s := range params.Strategies {
		if !strings.Contains(help, s[0]) {
			t.Errorf("missing %s", s[0])
		}
	}
}

func TestRenderBatchTable(t *testing.T) {
	report := &api.BatchReport{
		Outcomes: []events.FileProcessed{
			{Input: "/tmp/a.gpx", Output: "/tmp/a_compressed.gpx", PointsIn: 10, PointsOut: 4, Bytes: 2048, Duration: time.Millisecond},
			{Input: "/tmp/b.gpx", Skipped: true},
			{Input: "/tmp/c.gpx", Err: os.ErrNotExist},
		},
		Written:   1,
		Skipped:   1,
		Failed:    1,
		PointsIn:  10,
		PointsOut: 4,
		Bytes:     2048,
		MeanRatio: 0.4, MedianRatio: 0.4,
	}
	out := renderBatchTable(report)
	for _, want := range []string{"a.gpx", "written", "skipped", "failed", "0.4", "2.0 kB", "1/1/1"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "jumpy.gpx")
	if err := os.WriteFile(good, []byte(testdata.GPXOutlier), 0644); err != nil {
		t.Fatal(err)
	}
	bad := filepath.Join(dir, "bad.gpx")
	if err := os.WriteFile(bad, []byte("nope"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := params.DefaultIdentityConfig()
	cfg.RemoveGPSErrors = true
	p, err := api.NewPipeline(cfg)
	if err != nil {
		t.Fatal(err)
	}

	notes := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(notes, []byte("not a track"), 0644); err != nil {
		t.Fatal(err)
	}

	buf := new(bytes.Buffer)
	inspect(context.Background(), buf, []string{bad, good, notes}, p, true)
	out := buf.String()
	for _, want := range []string{
		"jumpy.gpx", "bad.gpx", "track parse error", "0.8", "2024-12-20T22:00:20Z",
		"notes.txt", "unsupported track format",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}

	// Nothing is written by a dry run.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Errorf("got %d files, want 3", len(entries))
	}
}
