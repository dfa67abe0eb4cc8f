package compress

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
	"github.com/rotblauer/gpxc/types/track"
)

// None keeps every point.
type None struct{}

func (None) Kind() Kind { return KindNone }

func (None) Apply(seg track.Segment) track.Segment {
	return seg.Clone()
}

// RDP is Ramer-Douglas-Peucker simplification in planar lon/lat space.
type RDP struct {
	// Epsilon is the perpendicular distance tolerance, in degrees.
	Epsilon float64
}

func NewRDP(epsilon float64) (*RDP, error) {
	if epsilon < 0 || math.IsNaN(epsilon) || math.IsInf(epsilon, 0) {
		return nil, invalid("epsilon", epsilon)
	}
	return &RDP{Epsilon: epsilon}, nil
}

func (r *RDP) Kind() Kind { return KindRDP }

func (r *RDP) Apply(seg track.Segment) track.Segment {
	if len(seg) <= 2 {
		return seg.Clone()
	}
	simplifier := simplify.DouglasPeucker(r.Epsilon)
	return simplifyLine(seg, simplifier)
}

// FixedFraction keeps floor(n*Keep) points of each segment,
// removing those contributing the least area first.
type FixedFraction struct {
	// Keep is the fraction of points retained, in (0, 1].
	Keep float64
}

func NewFixedFraction(keep float64) (*FixedFraction, error) {
	if !(keep > 0 && keep <= 1) {
		return nil, invalid("keep fraction", keep)
	}
	return &FixedFraction{Keep: keep}, nil
}

func (f *FixedFraction) Kind() Kind { return KindFixedFraction }

// Target is the number of points retained from a segment of n points.
// Both endpoints survive, so the target never drops below 2.
func (f *FixedFraction) Target(n int) int {
	if n <= 2 {
		return n
	}
	target := int(math.Floor(float64(n) * f.Keep))
	if target < 2 {
		target = 2
	}
	if target > n {
		target = n
	}
	return target
}

func (f *FixedFraction) Apply(seg track.Segment) track.Segment {
	target := f.Target(len(seg))
	if target == len(seg) {
		return seg.Clone()
	}
	return simplifyLine(seg, simplify.VisvalingamKeep(target))
}

// RemoveClose drops points closer than Proximity meters to the last kept point.
type RemoveClose struct {
	Proximity float64
}

func NewRemoveClose(proximity float64) (*RemoveClose, error) {
	if !(proximity > 0) || math.IsInf(proximity, 0) {
		return nil, invalid("proximity", proximity)
	}
	return &RemoveClose{Proximity: proximity}, nil
}

func (r *RemoveClose) Kind() Kind { return KindRemoveClose }

func (r *RemoveClose) Apply(seg track.Segment) track.Segment {
	kept, _ := seg.Retain(func(last, next track.GeoPoint) bool {
		return track.Distance(last, next) >= r.Proximity
	})
	return kept
}

type lineSimplifier interface {
	Simplify(g orb.Geometry) orb.Geometry
}

// simplifyLine runs s over the segment's geometry and maps the surviving
// vertices back onto the original points by index. If any vertex cannot be
// traced back, the segment is returned unchanged.
func simplifyLine(seg track.Segment, s lineSimplifier) track.Segment {
	ls, index := distinctLine(seg)
	if index == nil {
		return seg.Clone()
	}
	simplified, ok := s.Simplify(ls).(orb.LineString)
	if !ok || len(simplified) == 0 {
		return seg.Clone()
	}
	out := make(track.Segment, 0, len(simplified))
	last := -1
	for _, p := range simplified {
		i, ok := index[p]
		if !ok || i <= last {
			return seg.Clone()
		}
		out = append(out, seg[i])
		last = i
	}
	return out
}

// distinctLine returns the segment's geometry with every vertex unique,
// keyed to its index in seg. A repeated coordinate is moved east by single
// ulps of longitude until it no longer collides. The index is nil when
// that cannot be done (infinite longitudes).
func distinctLine(seg track.Segment) (orb.LineString, map[orb.Point]int) {
	ls := seg.LineString()
	index := make(map[orb.Point]int, len(ls))
	for i, p := range ls {
		for {
			if _, dup := index[p]; !dup {
				break
			}
			next := math.Nextafter(p[0], math.Inf(1))
			if next == p[0] {
				return ls, nil
			}
			p[0] = next
		}
		ls[i] = p
		index[p] = i
	}
	return ls, index
}
