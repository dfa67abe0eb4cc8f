package api

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/rotblauer/gpxc/geo/clean"
	"github.com/rotblauer/gpxc/geo/compress"
	"github.com/rotblauer/gpxc/geo/smooth"
	"github.com/rotblauer/gpxc/params"
	"github.com/rotblauer/gpxc/trackio"
	"github.com/rotblauer/gpxc/types/track"
)

var ErrInvalidConfig = errors.New("invalid pipeline config")

// Pipeline is a validated, immutable PipelineConfig ready to run.
// It holds no mutable state and is safe for concurrent use.
type Pipeline struct {
	config   params.PipelineConfig
	strategy compress.Strategy
	smooth   smooth.Options
	logger   *slog.Logger
}

// NewPipeline validates cfg once, up front.
// Every error wraps ErrInvalidConfig.
func NewPipeline(cfg params.PipelineConfig) (*Pipeline, error) {
	if cfg.RemoveGPSErrors && !(cfg.GPSErrorThreshold > 0 && !math.IsInf(cfg.GPSErrorThreshold, 0)) {
		return nil, fmt.Errorf("%w: GPS error threshold must be positive, got %v", ErrInvalidConfig, cfg.GPSErrorThreshold)
	}
	method, err := smooth.ParseMethod(cfg.SmoothMethod)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	strategy, err := compress.Parse(cfg.Strategy, compress.ParamsFromConfig(cfg.CompressConfig))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if cfg.OutputFormat != "" && !trackio.IsWritable(cfg.OutputFormat) {
		return nil, fmt.Errorf("%w: %w: %q", ErrInvalidConfig, trackio.ErrUnsupportedFormat, cfg.OutputFormat)
	}
	return &Pipeline{
		config:   cfg,
		strategy: strategy,
		smooth: smooth.Options{
			Vertical:   cfg.SmoothVertical,
			Horizontal: cfg.SmoothHorizontal,
			Method:     method,
		},
		logger: slog.With("d", "pipeline"),
	}, nil
}

func (p *Pipeline) Config() params.PipelineConfig {
	return p.config
}

func (p *Pipeline) Strategy() compress.Strategy {
	return p.strategy
}

// Report summarises one Process call.
type Report struct {
	PointsIn  int
	PointsOut int

	// GPSErrors are the points the error filter removed, in encounter order.
	GPSErrors []track.GeoPoint
}

// Ratio is the share of input points retained.
func (r Report) Ratio() float64 {
	if r.PointsIn == 0 {
		return 1
	}
	return float64(r.PointsOut) / float64(r.PointsIn)
}

// Process runs the GPS error filter, the field strippers,
// smoothing and compression over doc, in that order.
// doc is not modified.
func (p *Pipeline) Process(doc track.Document) (track.Document, Report) {
	report := Report{PointsIn: doc.PointsN()}

	out := doc
	if p.config.RemoveGPSErrors {
		out, report.GPSErrors = clean.FilterDocumentGPSErrors(out, p.config.GPSErrorThreshold)
	}
	if p.config.RemoveMetadata {
		out = clean.RemoveMetadata(out)
	}
	if p.config.RemoveTime {
		out = clean.RemoveTime(out)
	}
	if p.config.RemoveElevation {
		out = clean.RemoveElevation(out)
	}
	out = out.MapTracks(func(t track.Track) track.Track {
		return compress.Compress(smooth.Smooth(t, p.smooth), p.strategy)
	})

	report.PointsOut = out.PointsN()
	p.logger.Debug("Processed document",
		"tracks", len(out.Tracks),
		"in", report.PointsIn,
		"out", report.PointsOut,
		"gps.errors", len(report.GPSErrors),
		"strategy", p.strategy.Kind())
	return out, report
}
