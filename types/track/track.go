/*
Package track is the in-memory model of a GPS recording:
documents hold tracks, tracks hold segments, segments hold points.
*/
package track

import (
	"time"

	"github.com/paulmach/orb"
	"github.com/rotblauer/gpxc/common"
)

// GeoPoint is a single geographic fix.
// It is a value; stages that drop points build new segments
// and never write through to their input.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`

	// Ele is the elevation in meters, meaningful only when HasEle is set.
	Ele    float64 `json:"ele,omitempty"`
	HasEle bool    `json:"has_ele,omitempty"`

	// Time is the zero value when the fix carries no timestamp.
	Time time.Time `json:"time,omitempty"`
}

// NewGeoPoint returns a point with coordinates only.
func NewGeoPoint(lat, lon float64) GeoPoint {
	return GeoPoint{Lat: lat, Lon: lon}
}

// WithEle returns a copy of p with the elevation set.
func (p GeoPoint) WithEle(ele float64) GeoPoint {
	p.Ele = ele
	p.HasEle = true
	return p
}

// WithTime returns a copy of p with the timestamp set.
func (p GeoPoint) WithTime(t time.Time) GeoPoint {
	p.Time = t
	return p
}

func (p GeoPoint) HasTime() bool {
	return !p.Time.IsZero()
}

// Point returns the orb (lon, lat) representation.
func (p GeoPoint) Point() orb.Point {
	return orb.Point{p.Lon, p.Lat}
}

// Distance is the haversine distance in meters between a and b.
func Distance(a, b GeoPoint) float64 {
	return common.Haversine(a.Point(), b.Point())
}

// Segment is one continuous recording interval, in path order.
type Segment []GeoPoint

// LineString returns the segment as an orb.LineString.
// The returned line is freshly allocated and safe to simplify in place.
func (s Segment) LineString() orb.LineString {
	ls := make(orb.LineString, len(s))
	for i, p := range s {
		ls[i] = p.Point()
	}
	return ls
}

func (s Segment) Clone() Segment {
	if s == nil {
		return nil
	}
	out := make(Segment, len(s))
	copy(out, s)
	return out
}

// Bound returns the bounding box of the segment.
func (s Segment) Bound() orb.Bound {
	return s.LineString().Bound()
}

// Track is an ordered run of segments plus optional metadata.
type Track struct {
	Name        string    `json:"name,omitempty"`
	Description string    `json:"description,omitempty"`
	Type        string    `json:"type,omitempty"`
	Segments    []Segment `json:"segments"`
}

// PointsN returns the total number of points across all segments.
func (t Track) PointsN() int {
	n := 0
	for _, s := range t.Segments {
		n += len(s)
	}
	return n
}

// WithSegments returns a copy of t's metadata carrying segs.
func (t Track) WithSegments(segs []Segment) Track {
	t.Segments = segs
	return t
}

// MapSegments returns a copy of t with fn applied to every segment.
// The segment count is preserved.
func (t Track) MapSegments(fn func(Segment) Segment) Track {
	segs := make([]Segment, len(t.Segments))
	for i, s := range t.Segments {
		segs[i] = fn(s)
	}
	return t.WithSegments(segs)
}

func (t Track) Clone() Track {
	return t.MapSegments(Segment.Clone)
}

// IsEmpty reports whether the track has no points at all.
func (t Track) IsEmpty() bool {
	return t.PointsN() == 0
}

// Metadata is file-level descriptive information.
type Metadata struct {
	Name        string    `json:"name,omitempty"`
	Description string    `json:"description,omitempty"`
	Author      string    `json:"author,omitempty"`
	Keywords    string    `json:"keywords,omitempty"`
	Time        time.Time `json:"time,omitempty"`
}

func (m Metadata) IsZero() bool {
	return m == Metadata{}
}

// Document is one parsed track file.
type Document struct {
	Creator  string   `json:"creator,omitempty"`
	Metadata Metadata `json:"metadata"`
	Tracks   []Track  `json:"tracks"`
}

func (d Document) PointsN() int {
	n := 0
	for _, t := range d.Tracks {
		n += t.PointsN()
	}
	return n
}

func (d Document) SegmentsN() int {
	n := 0
	for _, t := range d.Tracks {
		n += len(t.Segments)
	}
	return n
}

// MapTracks returns a copy of d with fn applied to every track.
func (d Document) MapTracks(fn func(Track) Track) Document {
	tracks := make([]Track, len(d.Tracks))
	for i, t := range d.Tracks {
		tracks[i] = fn(t)
	}
	d.Tracks = tracks
	return d
}

func (d Document) Clone() Document {
	return d.MapTracks(Track.Clone)
}
