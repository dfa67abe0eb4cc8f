package smooth

import (
	"math"
	"testing"
	"time"

	"github.com/rotblauer/gpxc/types/track"
)

func zigzag(n int) track.Segment {
	seg := make(track.Segment, n)
	t0 := time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC)
	for i := range seg {
		lat := 0.0
		if i%2 == 1 {
			lat = 1
		}
		seg[i] = track.NewGeoPoint(lat, float64(i)*0.001).WithEle(lat * 10).WithTime(t0.Add(time.Duration(i) * time.Second))
	}
	return seg
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSmoothAverageHorizontal(t *testing.T) {
	in := track.Track{Segments: []track.Segment{zigzag(5)}}
	out := Smooth(in, Options{Horizontal: true})
	got := out.Segments[0]
	want := []float64{0, 0.2, 0.8, 0.2, 0}
	for i, w := range want {
		if !near(got[i].Lat, w) {
			t.Errorf("lat[%d]: want %v, got %v", i, w, got[i].Lat)
		}
	}
	if got[0] != in.Segments[0][0] || got[4] != in.Segments[0][4] {
		t.Error("endpoints changed")
	}
	// Horizontal only.
	for i := range got {
		if got[i].Ele != in.Segments[0][i].Ele {
			t.Errorf("ele[%d] changed", i)
		}
	}
	if in.Segments[0][1].Lat != 1 {
		t.Error("input was mutated")
	}
}

func TestSmoothAverageVertical(t *testing.T) {
	in := track.Track{Segments: []track.Segment{zigzag(5)}}
	out := Smooth(in, Options{Vertical: true})
	got := out.Segments[0]
	want := []float64{0, 2, 8, 2, 0}
	for i, w := range want {
		if !near(got[i].Ele, w) {
			t.Errorf("ele[%d]: want %v, got %v", i, w, got[i].Ele)
		}
		if got[i].Lat != in.Segments[0][i].Lat || got[i].Lon != in.Segments[0][i].Lon {
			t.Errorf("position[%d] changed", i)
		}
	}
}

func TestSmoothVerticalNeedsElevationNeighbours(t *testing.T) {
	seg := zigzag(6)
	seg[2].HasEle = false
	seg[2].Ele = 0
	out := Smooth(track.Track{Segments: []track.Segment{seg}}, Options{Vertical: true}).Segments[0]
	// Points 1, 2 and 3 each have the elevation-less point in their window.
	for _, i := range []int{1, 2, 3} {
		if out[i].Ele != seg[i].Ele {
			t.Errorf("ele[%d]: want untouched %v, got %v", i, seg[i].Ele, out[i].Ele)
		}
	}
	if !near(out[4].Ele, 0.4*10+0.2*0+0.4*10) {
		t.Errorf("ele[4]: got %v", out[4].Ele)
	}
}

func TestSmoothShortSegmentsUntouched(t *testing.T) {
	for n := 0; n < minAveragePoints; n++ {
		seg := zigzag(n)
		out := Smooth(track.Track{Segments: []track.Segment{seg}}, Options{Vertical: true, Horizontal: true}).Segments[0]
		if len(out) != n {
			t.Fatalf("n=%d: count changed to %d", n, len(out))
		}
		for i := range seg {
			if out[i] != seg[i] {
				t.Errorf("n=%d: point %d changed", n, i)
			}
		}
	}
}

func TestSmoothDisabled(t *testing.T) {
	in := track.Track{Name: "x", Segments: []track.Segment{zigzag(7)}}
	out := Smooth(in, Options{Method: MethodKalman})
	for i := range in.Segments[0] {
		if out.Segments[0][i] != in.Segments[0][i] {
			t.Fatalf("point %d changed with smoothing disabled", i)
		}
	}
}

func TestSmoothKalman(t *testing.T) {
	seg := make(track.Segment, 30)
	t0 := time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC)
	for i := range seg {
		// ~11 m/s northward with alternating 0.00005° east/west jitter.
		jitter := 0.00005
		if i%2 == 0 {
			jitter = -jitter
		}
		seg[i] = track.NewGeoPoint(45+float64(i)*0.0001, 7+jitter).WithTime(t0.Add(time.Duration(i) * time.Second))
	}
	in := track.Track{Segments: []track.Segment{seg}}
	out := Smooth(in, Options{Horizontal: true, Method: MethodKalman}).Segments[0]
	if len(out) != len(seg) {
		t.Fatalf("count: want %d, got %d", len(seg), len(out))
	}
	if out[0] != seg[0] {
		t.Error("first point changed")
	}
	for i, p := range out {
		if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) {
			t.Fatalf("point %d is NaN", i)
		}
		if !p.Time.Equal(seg[i].Time) {
			t.Errorf("point %d time changed", i)
		}
		// Estimates stay in the neighbourhood of the raw fix.
		if d := track.Distance(p, seg[i]); d > 500 {
			t.Errorf("point %d moved %.1f m", i, d)
		}
	}

	moved := 0
	var jitter float64
	for i := 1; i < len(out); i++ {
		if out[i] != seg[i] {
			moved++
		}
		jitter += math.Abs(out[i].Lon - 7)
	}
	if moved < (len(out)-1)/2 {
		t.Errorf("only %d of %d points moved", moved, len(out)-1)
	}
	// Every raw fix is 0.00005° off the centre line.
	if mean := jitter / float64(len(out)-1); mean >= 0.00005 {
		t.Errorf("east/west jitter not reduced: mean offset %v", mean)
	}
}

func TestParseMethod(t *testing.T) {
	cases := []struct {
		name    string
		want    Method
		wantErr bool
	}{
		{"", MethodAverage, false},
		{"average", MethodAverage, false},
		{"kalman", MethodKalman, false},
		{"median", 0, true},
	}
	for _, c := range cases {
		got, err := ParseMethod(c.name)
		if (err != nil) != c.wantErr {
			t.Errorf("%q: err=%v", c.name, err)
			continue
		}
		if got != c.want {
			t.Errorf("%q: want %v, got %v", c.name, c.want, got)
		}
	}
}
