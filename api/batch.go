package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
	"github.com/rotblauer/gpxc/catdb/manifest"
	"github.com/rotblauer/gpxc/events"
	"github.com/rotblauer/gpxc/params"
	"github.com/rotblauer/gpxc/stream"
	"golang.org/x/sync/errgroup"
)

// ErrOutputCollision fails batch inputs whose output would land on the
// output of another input, or on another input.
var ErrOutputCollision = errors.New("output path collision")

// BatchReport summarises a RunBatch call.
type BatchReport struct {
	RunID string

	// Outcomes holds one entry per dispatched input, sorted by input path.
	Outcomes []events.FileProcessed

	Written int
	Skipped int
	Failed  int

	PointsIn  int
	PointsOut int
	GPSErrors int
	Bytes     int64

	// MeanRatio and MedianRatio are over the retained-point ratios of written files.
	MeanRatio   float64
	MedianRatio float64

	Duration time.Duration
}

// Failures returns the failed outcomes.
func (r *BatchReport) Failures() []events.FileProcessed {
	var out []events.FileProcessed
	for _, o := range r.Outcomes {
		if o.Failed() {
			out = append(out, o)
		}
	}
	return out
}

// RunBatch processes inputs with up to opts.Workers files in flight.
// The config is validated once; an invalid config fails the whole batch.
// After that, a failing file is recorded and the batch moves on.
// Inputs whose output paths collide fail with ErrOutputCollision before
// anything is written for them.
// Cancelling ctx stops dispatch of further inputs; the report then covers
// the inputs dispatched so far and ctx's error is returned with it.
func RunBatch(ctx context.Context, inputs []string, cfg params.PipelineConfig, opts params.BatchConfig) (*BatchReport, error) {
	p, err := NewPipeline(cfg)
	if err != nil {
		return nil, err
	}
	started := time.Now()
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	logger := slog.With("d", "batch", "run", runID)

	var m *manifest.Manifest
	var hash uint64
	if opts.ManifestPath != "" {
		m, err = manifest.Open(opts.ManifestPath, false)
		if err != nil {
			return nil, err
		}
		defer m.Close()
		hash, err = manifest.ConfigHash(cfg)
		if err != nil {
			return nil, err
		}
	}

	meter := stream.NewTickMeter(logger, opts.MeterInterval)
	defer meter.Stop()

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	logger.Info("Starting batch", "files", len(inputs), "workers", workers,
		"strategy", cfg.Strategy, "manifest", opts.ManifestPath)

	collisions := outputCollisions(inputs, cfg)

	results := make(chan events.FileProcessed, len(inputs))
	g := new(errgroup.Group)
	g.SetLimit(workers)
	for input := range stream.Slice(ctx, inputs) {
		g.Go(func() error {
			var o events.FileProcessed
			if err := collisions[input]; err != nil {
				o = events.FileProcessed{Input: input, Err: err}
			} else {
				o = runOne(ctx, p, m, hash, input)
			}
			o.RunID = runID
			if o.Failed() {
				logger.Warn("Failed to process file", "input", input, "error", o.Err)
			}
			meter.Mark(input, o.PointsIn, o.Bytes)
			results <- o
			events.FileProcessedFeed.Send(o)
			return nil
		})
	}
	_ = g.Wait()
	close(results)

	report := &BatchReport{
		RunID:    runID,
		Outcomes: stream.Collect(context.Background(), results),
	}
	sort.Slice(report.Outcomes, func(i, j int) bool {
		return report.Outcomes[i].Input < report.Outcomes[j].Input
	})
	var ratios stats.Float64Data
	for _, o := range report.Outcomes {
		switch {
		case o.Failed():
			report.Failed++
			continue
		case o.Skipped:
			report.Skipped++
			continue
		}
		report.Written++
		report.PointsIn += o.PointsIn
		report.PointsOut += o.PointsOut
		report.GPSErrors += o.GPSErrors
		report.Bytes += o.Bytes
		if o.PointsIn > 0 {
			ratios = append(ratios, float64(o.PointsOut)/float64(o.PointsIn))
		}
	}
	if len(ratios) > 0 {
		report.MeanRatio, _ = stats.Mean(ratios)
		report.MedianRatio, _ = stats.Median(ratios)
	}
	report.Duration = time.Since(started)
	meter.Log()
	logger.Info("Finished batch",
		"written", report.Written,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"mean.ratio", report.MeanRatio,
		"elapsed", report.Duration.Round(time.Millisecond))
	return report, ctx.Err()
}

// outputCollisions returns the error for each input whose output path is
// shared with another input's output, or is itself one of the inputs.
// Inputs whose output cannot be named are left to fail in ProcessFile.
func outputCollisions(inputs []string, cfg params.PipelineConfig) map[string]error {
	isInput := map[string]bool{}
	for _, in := range inputs {
		isInput[filepath.Clean(in)] = true
	}
	claims := map[string][]string{}
	claimed := map[string]bool{}
	for _, in := range inputs {
		if claimed[filepath.Clean(in)] {
			continue
		}
		claimed[filepath.Clean(in)] = true
		out, err := OutputPath(in, cfg)
		if err != nil {
			continue
		}
		out = filepath.Clean(out)
		claims[out] = append(claims[out], in)
	}
	bad := map[string]error{}
	for out, ins := range claims {
		var err error
		switch {
		case isInput[out]:
			err = fmt.Errorf("%w: %s is also an input", ErrOutputCollision, out)
		case len(ins) > 1:
			err = fmt.Errorf("%w: %s is the output of %s", ErrOutputCollision, out, strings.Join(ins, ", "))
		default:
			continue
		}
		for _, in := range ins {
			bad[in] = err
		}
	}
	return bad
}

func runOne(ctx context.Context, p *Pipeline, m *manifest.Manifest, hash uint64, input string) events.FileProcessed {
	o := events.FileProcessed{Input: input}
	if m != nil {
		current, err := m.Current(input, hash)
		if err != nil {
			p.logger.Debug("Manifest lookup failed", "input", input, "error", err)
		}
		if current {
			o.Skipped = true
			o.Output, _ = OutputPath(input, p.config)
			return o
		}
	}
	res, err := p.ProcessFile(ctx, input)
	if err != nil {
		o.Err = err
		return o
	}
	o.Output = res.Output
	o.PointsIn = res.PointsIn
	o.PointsOut = res.PointsOut
	o.GPSErrors = res.GPSErrors
	o.Bytes = res.Bytes
	o.Duration = res.Duration
	if m != nil {
		e, err := manifest.Stamp(input, hash)
		if err == nil {
			e.Output = res.Output
			e.PointsIn, e.PointsOut = res.PointsIn, res.PointsOut
			err = m.Record(e)
		}
		if err != nil {
			p.logger.Warn("Failed to record manifest entry", "input", input, "error", err)
		}
	}
	return o
}
