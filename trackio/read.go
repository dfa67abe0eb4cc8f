package trackio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rotblauer/gpxc/params"
	"github.com/rotblauer/gpxc/types/track"
	"github.com/tkrajina/gpxgo/gpx"
)

// ReadFile parses the track file at path, choosing the decoder by extension.
func ReadFile(path string) (track.Document, error) {
	format, err := FormatOf(path)
	if err != nil {
		return track.Document{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return track.Document{}, err
	}
	doc, err := Decode(data, format)
	if err != nil {
		return track.Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Read parses a whole stream in the given format.
func Read(r io.Reader, format string) (track.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return track.Document{}, err
	}
	return Decode(data, format)
}

// Decode parses data in the given format.
// Gzipped data is decompressed first.
func Decode(data []byte, format string) (track.Document, error) {
	data, err := Gunzip(data)
	if err != nil {
		return track.Document{}, err
	}
	switch format {
	case params.FormatGPX:
		return decodeGPX(data)
	case params.FormatGeoJSON:
		return decodeGeoJSON(data)
	}
	return track.Document{}, fmt.Errorf("%w: cannot read %q", ErrUnsupportedFormat, format)
}

// Sniff guesses the format of data from its first non-space byte.
// Gzipped data is sniffed after decompression.
func Sniff(data []byte) (string, error) {
	data, err := Gunzip(data)
	if err != nil {
		return "", err
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return "", fmt.Errorf("%w: empty input", ErrParse)
	}
	switch trimmed[0] {
	case '<':
		return params.FormatGPX, nil
	case '{':
		return params.FormatGeoJSON, nil
	}
	return "", fmt.Errorf("%w: neither GPX nor GeoJSON", ErrUnsupportedFormat)
}

func decodeGPX(data []byte) (track.Document, error) {
	g, err := gpx.ParseBytes(data)
	if err != nil {
		return track.Document{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	doc := track.Document{
		Creator: g.Creator,
		Metadata: track.Metadata{
			Name:        g.Name,
			Description: g.Description,
			Author:      g.AuthorName,
			Keywords:    g.Keywords,
		},
		Tracks: make([]track.Track, 0, len(g.Tracks)),
	}
	if g.Time != nil {
		doc.Metadata.Time = *g.Time
	}
	for _, gt := range g.Tracks {
		t := track.Track{
			Name:        gt.Name,
			Description: gt.Description,
			Type:        gt.Type,
			Segments:    make([]track.Segment, 0, len(gt.Segments)),
		}
		for _, gs := range gt.Segments {
			seg := make(track.Segment, 0, len(gs.Points))
			for _, gp := range gs.Points {
				p := track.NewGeoPoint(gp.Latitude, gp.Longitude).WithTime(gp.Timestamp)
				if gp.Elevation.NotNull() {
					p = p.WithEle(gp.Elevation.Value())
				}
				seg = append(seg, p)
			}
			t.Segments = append(t.Segments, seg)
		}
		doc.Tracks = append(doc.Tracks, t)
	}
	return doc, nil
}

// coordTimesKey is the feature property holding per-coordinate timestamps,
// one array per line.
const coordTimesKey = "coordTimes"

func decodeGeoJSON(data []byte) (track.Document, error) {
	fc, err := featureCollection(data)
	if err != nil {
		return track.Document{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	doc := track.Document{}
	for _, f := range fc.Features {
		var lines []orb.LineString
		switch g := f.Geometry.(type) {
		case orb.LineString:
			lines = []orb.LineString{g}
		case orb.MultiLineString:
			lines = g
		default:
			// Points and polygons are not tracks.
			continue
		}
		times := coordTimes(f.Properties)
		t := track.Track{
			Name:        f.Properties.MustString("name", ""),
			Description: f.Properties.MustString("description", ""),
			Type:        f.Properties.MustString("type", ""),
			Segments:    make([]track.Segment, 0, len(lines)),
		}
		for li, ls := range lines {
			seg := make(track.Segment, len(ls))
			for i, pt := range ls {
				seg[i] = track.NewGeoPoint(pt.Lat(), pt.Lon())
				if li < len(times) && i < len(times[li]) {
					seg[i].Time = times[li][i]
				}
			}
			t.Segments = append(t.Segments, seg)
		}
		doc.Tracks = append(doc.Tracks, t)
	}
	return doc, nil
}

// featureCollection accepts a FeatureCollection, a lone Feature or a bare geometry.
func featureCollection(data []byte) (*geojson.FeatureCollection, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}
	switch head.Type {
	case "FeatureCollection":
		return geojson.UnmarshalFeatureCollection(data)
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, err
		}
		return geojson.NewFeatureCollection().Append(f), nil
	case "":
		return nil, fmt.Errorf("missing GeoJSON type")
	}
	g, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return nil, err
	}
	return geojson.NewFeatureCollection().Append(geojson.NewFeature(g.Geometry())), nil
}

// coordTimes reads the timestamps property, accepting either one array per
// line or a single flat array for a LineString. Unparseable values are zero.
func coordTimes(props geojson.Properties) [][]time.Time {
	raw, ok := props[coordTimesKey]
	if !ok {
		return nil
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return nil
	}
	var nested [][]string
	if err := json.Unmarshal(b, &nested); err != nil {
		var flat []string
		if err := json.Unmarshal(b, &flat); err != nil {
			return nil
		}
		nested = [][]string{flat}
	}
	out := make([][]time.Time, len(nested))
	for i, line := range nested {
		out[i] = make([]time.Time, len(line))
		for j, s := range line {
			out[i][j], _ = time.Parse(time.RFC3339Nano, s)
		}
	}
	return out
}
