package webd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotblauer/gpxc/api"
	"github.com/rotblauer/gpxc/events"
	"github.com/rotblauer/gpxc/params"
	"github.com/rotblauer/gpxc/trackio"
	"github.com/rotblauer/gpxc/types/track"
)

func pingPong(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("pong"))
}

type webDaemonStatus struct {
	StartedAt time.Time               `json:"started_at"`
	Uptime    string                  `json:"uptime"`
	Config    *params.WebDaemonConfig `json:"config"`
	Documents int64                   `json:"documents"`
	PointsIn  int64                   `json:"points_in"`
	PointsOut int64                   `json:"points_out"`
	Formats   []string                `json:"formats"`
}

func (s *WebDaemon) statusReport(w http.ResponseWriter, r *http.Request) {
	status := webDaemonStatus{
		StartedAt: s.started,
		Uptime:    time.Since(s.started).Round(time.Second).String(),
		Config:    s.Config,
		Documents: s.documents.Load(),
		PointsIn:  s.pointsIn.Load(),
		PointsOut: s.pointsOut.Load(),
		Formats:   trackio.Formats(),
	}
	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_, _ = w.Write(data)
}

var contentTypes = map[string]string{
	params.FormatGPX:      "application/gpx+xml",
	params.FormatGeoJSON:  "application/geo+json",
	params.FormatCSV:      "text/csv",
	params.FormatKML:      "application/vnd.google-earth.kml+xml",
	params.FormatPolyline: "text/plain",
}

// handleCompress runs the pipeline over the request body.
// The input format is sniffed from the body unless ?in= names it.
// Query parameters override the daemon's base pipeline config.
func (s *WebDaemon) handleCompress(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.Config.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	query := r.URL.Query()
	cfg, err := pipelineFromQuery(s.Config.Pipeline, query)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	pipeline, err := api.NewPipeline(cfg)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	inFormat := query.Get("in")
	if inFormat == "" {
		inFormat, err = trackio.Sniff(body)
	}
	var doc track.Document
	if err == nil {
		doc, err = trackio.Decode(body, inFormat)
	}
	if err != nil {
		if errors.Is(err, trackio.ErrUnsupportedFormat) {
			http.Error(w, err.Error(), http.StatusUnsupportedMediaType)
			return
		}
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	out, report := pipeline.Process(doc)

	outFormat := cfg.OutputFormat
	if outFormat == "" {
		outFormat = inFormat
	}
	buf := new(bytes.Buffer)
	if err := trackio.Encode(buf, out, outFormat); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.documents.Add(1)
	s.pointsIn.Add(int64(report.PointsIn))
	s.pointsOut.Add(int64(report.PointsOut))
	events.HTTPCompressFeed.Send(events.HTTPCompressed{
		RemoteAddr: r.RemoteAddr,
		Format:     outFormat,
		PointsIn:   report.PointsIn,
		PointsOut:  report.PointsOut,
		GPSErrors:  len(report.GPSErrors),
	})

	w.Header().Set("Content-Type", contentTypes[outFormat])
	w.Header().Set("X-Points-In", strconv.Itoa(report.PointsIn))
	w.Header().Set("X-Points-Out", strconv.Itoa(report.PointsOut))
	w.Header().Set("X-GPS-Errors", strconv.Itoa(len(report.GPSErrors)))
	_, _ = buf.WriteTo(w)
}

// pipelineFromQuery overlays the recognised query parameters on base.
// Validation of the resulting values is left to api.NewPipeline.
func pipelineFromQuery(base params.PipelineConfig, q url.Values) (params.PipelineConfig, error) {
	cfg := base
	bools := []struct {
		key string
		dst *bool
	}{
		{"remove_gps_errors", &cfg.RemoveGPSErrors},
		{"smooth_vertical", &cfg.SmoothVertical},
		{"smooth_horizontal", &cfg.SmoothHorizontal},
		{"remove_metadata", &cfg.RemoveMetadata},
		{"remove_time", &cfg.RemoveTime},
		{"remove_elevation", &cfg.RemoveElevation},
	}
	for _, b := range bools {
		if !q.Has(b.key) {
			continue
		}
		v, err := strconv.ParseBool(q.Get(b.key))
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", b.key, err)
		}
		*b.dst = v
	}
	floats := []struct {
		key string
		dst *float64
	}{
		{"threshold", &cfg.GPSErrorThreshold},
		{"epsilon", &cfg.RDPEpsilon},
		{"fraction", &cfg.KeepFraction},
		{"proximity", &cfg.CloseProximity},
	}
	for _, f := range floats {
		if !q.Has(f.key) {
			continue
		}
		v, err := strconv.ParseFloat(q.Get(f.key), 64)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", f.key, err)
		}
		*f.dst = v
	}
	if q.Has("strategy") {
		cfg.Strategy = q.Get("strategy")
	}
	if q.Has("smooth_method") {
		cfg.SmoothMethod = q.Get("smooth_method")
	}
	if q.Has("format") {
		cfg.OutputFormat = q.Get("format")
	}
	return cfg, nil
}
