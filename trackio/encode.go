package trackio

import (
	"encoding/csv"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rotblauer/gpxc/params"
	"github.com/rotblauer/gpxc/types/track"
	"github.com/tkrajina/gpxgo/gpx"
	"github.com/twpayne/go-polyline"
)

// Encode writes doc to w in the given output format.
func Encode(w io.Writer, doc track.Document, format string) error {
	switch format {
	case params.FormatGPX:
		return encodeGPX(w, doc)
	case params.FormatGeoJSON:
		return encodeGeoJSON(w, doc)
	case params.FormatCSV:
		return encodeCSV(w, doc)
	case params.FormatKML:
		return encodeKML(w, doc)
	case params.FormatPolyline:
		return encodePolyline(w, doc)
	}
	return fmt.Errorf("%w: cannot write %q", ErrUnsupportedFormat, format)
}

func encodeGPX(w io.Writer, doc track.Document) error {
	g := &gpx.GPX{
		Version:     "1.1",
		Creator:     doc.Creator,
		Name:        doc.Metadata.Name,
		Description: doc.Metadata.Description,
		AuthorName:  doc.Metadata.Author,
		Keywords:    doc.Metadata.Keywords,
	}
	if g.Creator == "" {
		g.Creator = Creator
	}
	if !doc.Metadata.Time.IsZero() {
		t := doc.Metadata.Time
		g.Time = &t
	}
	for _, t := range doc.Tracks {
		gt := gpx.GPXTrack{
			Name:        t.Name,
			Description: t.Description,
			Type:        t.Type,
		}
		for _, seg := range t.Segments {
			gs := gpx.GPXTrackSegment{Points: make([]gpx.GPXPoint, 0, len(seg))}
			for _, p := range seg {
				var gp gpx.GPXPoint
				gp.Latitude = p.Lat
				gp.Longitude = p.Lon
				if p.HasEle {
					gp.Elevation = *gpx.NewNullableFloat64(p.Ele)
				}
				gp.Timestamp = p.Time
				gs.Points = append(gs.Points, gp)
			}
			gt.Segments = append(gt.Segments, gs)
		}
		g.Tracks = append(g.Tracks, gt)
	}
	b, err := g.ToXml(gpx.ToXmlParams{Version: "1.1", Indent: true})
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// encodeGeoJSON writes one MultiLineString feature per track.
// Timestamps, when the track has any, go in the coordTimes property.
func encodeGeoJSON(w io.Writer, doc track.Document) error {
	fc := geojson.NewFeatureCollection()
	for _, t := range doc.Tracks {
		mls := make(orb.MultiLineString, 0, len(t.Segments))
		times := make([][]string, 0, len(t.Segments))
		timed := false
		for _, seg := range t.Segments {
			mls = append(mls, seg.LineString())
			ts := make([]string, len(seg))
			for i, p := range seg {
				if p.HasTime() {
					ts[i] = p.Time.UTC().Format(time.RFC3339Nano)
					timed = true
				}
			}
			times = append(times, ts)
		}
		f := geojson.NewFeature(mls)
		if t.Name != "" {
			f.Properties["name"] = t.Name
		}
		if t.Description != "" {
			f.Properties["description"] = t.Description
		}
		if t.Type != "" {
			f.Properties["type"] = t.Type
		}
		if timed {
			f.Properties[coordTimesKey] = times
		}
		fc.Append(f)
	}
	b, err := fc.MarshalJSON()
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

var csvHeader = []string{"track", "segment", "lat", "lon", "ele", "time"}

func encodeCSV(w io.Writer, doc track.Document) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for ti, t := range doc.Tracks {
		for si, seg := range t.Segments {
			for _, p := range seg {
				row := []string{
					strconv.Itoa(ti),
					strconv.Itoa(si),
					formatFloat(p.Lat),
					formatFloat(p.Lon),
					"",
					"",
				}
				if p.HasEle {
					row[4] = formatFloat(p.Ele)
				}
				if p.HasTime() {
					row[5] = p.Time.UTC().Format(time.RFC3339Nano)
				}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

const kmlDocument = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
<Document>
{{- with .Name}}
<name>{{xml .}}</name>
{{- end}}
{{- range $ti, $t := .Tracks}}{{range $si, $seg := $t.Segments}}
<Placemark>
	<name>{{placemark $t.Name $ti $si}}</name>
	<LineString>
		<tessellate>1</tessellate>
		<coordinates>{{coordinates $seg}}</coordinates>
	</LineString>
</Placemark>
{{- end}}{{end}}
</Document>
</kml>
`

var kmlTmpl = template.Must(template.New("kml").Funcs(template.FuncMap{
	"xml": xmlEscape,
	"placemark": func(name string, ti, si int) string {
		if name == "" {
			name = fmt.Sprintf("track %d", ti+1)
		}
		return xmlEscape(fmt.Sprintf("%s #%d", name, si+1))
	},
	"coordinates": func(seg track.Segment) string {
		var sb strings.Builder
		for i, p := range seg {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(formatFloat(p.Lon))
			sb.WriteByte(',')
			sb.WriteString(formatFloat(p.Lat))
			if p.HasEle {
				sb.WriteByte(',')
				sb.WriteString(formatFloat(p.Ele))
			}
		}
		return sb.String()
	},
}).Parse(kmlDocument))

func xmlEscape(s string) string {
	var sb strings.Builder
	_ = xml.EscapeText(&sb, []byte(s))
	return sb.String()
}

func encodeKML(w io.Writer, doc track.Document) error {
	return kmlTmpl.Execute(w, struct {
		Name   string
		Tracks []track.Track
	}{doc.Metadata.Name, doc.Tracks})
}

// encodePolyline writes one encoded polyline per non-empty segment, one per line.
func encodePolyline(w io.Writer, doc track.Document) error {
	for _, t := range doc.Tracks {
		for _, seg := range t.Segments {
			if len(seg) == 0 {
				continue
			}
			coords := make([][]float64, len(seg))
			for i, p := range seg {
				coords[i] = []float64{p.Lat, p.Lon}
			}
			if _, err := w.Write(append(polyline.EncodeCoords(coords), '\n')); err != nil {
				return err
			}
		}
	}
	return nil
}
