package api

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/rotblauer/gpxc/common"
	"github.com/rotblauer/gpxc/events"
	"github.com/rotblauer/gpxc/params"
	"github.com/rotblauer/gpxc/testing/testdata"
)

func batchInputs(t *testing.T) (dir string, inputs []string) {
	t.Helper()
	dir = t.TempDir()
	inputs = []string{
		writeInput(t, dir, "a.gpx", testdata.GPXOutlier),
		writeInput(t, dir, "b.geojson", testdata.GeoJSONLine),
		writeInput(t, dir, "c.gpx", "not a gpx file"),
	}
	return dir, inputs
}

func TestRunBatch(t *testing.T) {
	defer common.SlogResetLevel(slog.LevelError)()
	_, inputs := batchInputs(t)

	ch := make(chan events.FileProcessed, len(inputs))
	sub := events.FileProcessedFeed.Subscribe(ch)
	defer sub.Unsubscribe()

	opts := params.BatchConfig{Workers: 2, RunID: "test-run"}
	report, err := RunBatch(context.Background(), inputs, cleanOnly(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if report.RunID != "test-run" {
		t.Errorf("run id: %s", report.RunID)
	}
	if report.Written != 2 || report.Failed != 1 || report.Skipped != 0 {
		t.Fatalf("report: %+v", report)
	}
	if len(report.Outcomes) != 3 || report.Outcomes[2].Input != inputs[2] || !report.Outcomes[2].Failed() {
		t.Errorf("outcomes: %+v", report.Outcomes)
	}
	if report.PointsIn != 9 || report.PointsOut != 8 || report.GPSErrors != 1 {
		t.Errorf("points: %+v", report)
	}
	if report.MeanRatio <= 0 || report.MeanRatio > 1 || report.MedianRatio != report.MeanRatio {
		t.Errorf("ratios: mean %v median %v", report.MeanRatio, report.MedianRatio)
	}

	for i := 0; i < len(inputs); i++ {
		ev := <-ch
		if ev.RunID != "test-run" {
			t.Errorf("event run id: %s", ev.RunID)
		}
	}
}

func TestRunBatchManifestSkips(t *testing.T) {
	defer common.SlogResetLevel(slog.LevelError)()
	dir, inputs := batchInputs(t)
	opts := params.BatchConfig{
		Workers:      1,
		ManifestPath: filepath.Join(dir, ".gpxc", params.ManifestDBName),
	}

	first, err := RunBatch(context.Background(), inputs, cleanOnly(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.Written != 2 {
		t.Fatalf("first run: %+v", first)
	}

	second, err := RunBatch(context.Background(), inputs, cleanOnly(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if second.Skipped != 2 || second.Written != 0 || second.Failed != 1 {
		t.Errorf("second run: %+v", second)
	}
	if second.RunID == first.RunID {
		t.Error("run ids repeat")
	}

	// A different configuration invalidates every entry.
	cfg := cleanOnly()
	cfg.Strategy = params.StrategyRemove50
	third, err := RunBatch(context.Background(), inputs, cfg, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.Written != 2 || third.Skipped != 0 {
		t.Errorf("third run: %+v", third)
	}
}

func TestRunBatchInvalidConfig(t *testing.T) {
	cfg := params.DefaultPipelineConfig()
	cfg.Strategy = "nope"
	if _, err := RunBatch(context.Background(), nil, cfg, params.DefaultBatchConfig()); err == nil {
		t.Fatal("want error")
	}
}

func TestRunBatchCancelled(t *testing.T) {
	defer common.SlogResetLevel(slog.LevelError)()
	_, inputs := batchInputs(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := RunBatch(ctx, inputs, cleanOnly(), params.BatchConfig{Workers: 1})
	if err != context.Canceled {
		t.Fatalf("want context.Canceled, got %v", err)
	}
	if report.Written != 0 {
		t.Errorf("written after cancel: %+v", report)
	}
}

func gzipString(t *testing.T, data string) string {
	t.Helper()
	buf := new(bytes.Buffer)
	zw := gzip.NewWriter(buf)
	if _, err := zw.Write([]byte(data)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestRunBatchSameStemInputs(t *testing.T) {
	defer common.SlogResetLevel(slog.LevelError)()
	dir := t.TempDir()
	inputs := []string{
		writeInput(t, dir, "ride.json", testdata.GeoJSONLine),
		writeInput(t, dir, "ride.geojson", testdata.GeoJSONLine),
		writeInput(t, dir, "walk.gpx", testdata.GPXOutlier),
		writeInput(t, dir, "walk.gpx.gz", gzipString(t, testdata.GPXOutlier)),
	}
	report, err := RunBatch(context.Background(), inputs, params.DefaultIdentityConfig(), params.BatchConfig{Workers: 4})
	if err != nil {
		t.Fatal(err)
	}
	if report.Written != 4 || report.Failed != 0 {
		t.Fatalf("report: %+v", report)
	}
	outputs := map[string]string{}
	for _, o := range report.Outcomes {
		if prev, ok := outputs[o.Output]; ok {
			t.Errorf("%s and %s both wrote %s", prev, o.Input, o.Output)
		}
		outputs[o.Output] = o.Input
		if _, err := os.Stat(o.Output); err != nil {
			t.Errorf("%s: %v", o.Input, err)
		}
	}
}

func TestRunBatchOutputCollision(t *testing.T) {
	defer common.SlogResetLevel(slog.LevelError)()
	dir := t.TempDir()
	inputs := []string{
		// Both are named a.gpx_compressed.gpx.
		writeInput(t, dir, "a.gpx.gz", gzipString(t, testdata.GPXOutlier)),
		writeInput(t, dir, "a.gpx.gpx", testdata.GPXOutlier),
		// b.gpx would overwrite the other input.
		writeInput(t, dir, "b.gpx", testdata.GPXOutlier),
		writeInput(t, dir, "b_compressed.gpx", testdata.GPXOutlier),
	}
	report, err := RunBatch(context.Background(), inputs, params.DefaultIdentityConfig(), params.BatchConfig{Workers: 2})
	if err != nil {
		t.Fatal(err)
	}
	if report.Written != 1 || report.Failed != 3 {
		t.Fatalf("report: %+v", report)
	}
	for _, o := range report.Outcomes {
		if o.Input == inputs[3] {
			if o.Failed() {
				t.Errorf("%s: %v", o.Input, o.Err)
			}
			continue
		}
		if !errors.Is(o.Err, ErrOutputCollision) {
			t.Errorf("%s: want ErrOutputCollision, got %v", o.Input, o.Err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "a.gpx_compressed.gpx")); !os.IsNotExist(err) {
		t.Errorf("colliding output written: %v", err)
	}
	b, err := os.ReadFile(inputs[3])
	if err != nil || string(b) != testdata.GPXOutlier {
		t.Errorf("input overwritten: %v", err)
	}
}
