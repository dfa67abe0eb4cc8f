package api

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/rotblauer/gpxc/params"
	"github.com/rotblauer/gpxc/trackio"
)

// Result is the outcome of one successfully written file.
type Result struct {
	Input     string
	Output    string
	Format    string
	PointsIn  int
	PointsOut int
	GPSErrors int
	Bytes     int64
	Duration  time.Duration
}

// OutputFormat is the format input will be written in under cfg.
func OutputFormat(input string, cfg params.PipelineConfig) (string, error) {
	if cfg.OutputFormat != "" {
		if !trackio.IsWritable(cfg.OutputFormat) {
			return "", fmt.Errorf("%w: %w: %q", ErrInvalidConfig, trackio.ErrUnsupportedFormat, cfg.OutputFormat)
		}
		return cfg.OutputFormat, nil
	}
	return trackio.FormatOf(input)
}

// OutputPath names the output of input: <dir>/<stem><suffix><ext>,
// where ext follows the output format and stem is trackio.OutputStem,
// so walk.gpx and walk.gpx.gz, or ride.json and ride.geojson, get
// different outputs.
// A path that would overwrite input is an ErrInvalidConfig.
func OutputPath(input string, cfg params.PipelineConfig) (string, error) {
	format, err := OutputFormat(input, cfg)
	if err != nil {
		return "", err
	}
	ext, err := trackio.Extension(format)
	if err != nil {
		return "", err
	}
	out := filepath.Join(filepath.Dir(input), trackio.OutputStem(input)+cfg.OutputSuffix+ext)
	if filepath.Clean(out) == filepath.Clean(input) {
		return "", fmt.Errorf("%w: output would overwrite input %s; set an output suffix", ErrInvalidConfig, input)
	}
	return out, nil
}

// ProcessFile reads input, runs it through a pipeline built from cfg,
// and writes the result beside it.
func ProcessFile(ctx context.Context, input string, cfg params.PipelineConfig) (*Result, error) {
	p, err := NewPipeline(cfg)
	if err != nil {
		return nil, err
	}
	return p.ProcessFile(ctx, input)
}

// ProcessFile reads input, processes it and atomically writes the output.
// Nothing is written if ctx is done before the write starts, and a failed
// write leaves no partial output behind.
func (p *Pipeline) ProcessFile(ctx context.Context, input string) (*Result, error) {
	started := time.Now()
	output, err := OutputPath(input, p.config)
	if err != nil {
		return nil, err
	}
	format, err := OutputFormat(input, p.config)
	if err != nil {
		return nil, err
	}
	doc, err := trackio.ReadFile(input)
	if err != nil {
		return nil, err
	}
	processed, report := p.Process(doc)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	counter := &countingWriter{}
	err = trackio.WriteFileAtomic(output, 0644, func(w io.Writer) error {
		counter.w = w
		return trackio.Encode(counter, processed, format)
	})
	if err != nil {
		return nil, fmt.Errorf("write %s: %w", output, err)
	}
	res := &Result{
		Input:     input,
		Output:    output,
		Format:    format,
		PointsIn:  report.PointsIn,
		PointsOut: report.PointsOut,
		GPSErrors: len(report.GPSErrors),
		Bytes:     counter.n,
		Duration:  time.Since(started),
	}
	p.logger.Debug("Wrote file", "input", input, "output", output, "bytes", res.Bytes)
	return res, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(b []byte) (int, error) {
	n, err := c.w.Write(b)
	c.n += int64(n)
	return n, err
}
