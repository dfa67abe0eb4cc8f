package smooth

import (
	"log/slog"
	"math"

	"github.com/paulmach/orb/geo"
	rkalman "github.com/regnull/kalman"
	"github.com/rotblauer/gpxc/types/track"
)

// defaultSpeed is the assumed movement, in m/s, of a segment without timestamps.
const defaultSpeed = 5.0

// maxDivergence bounds the distance between an estimate and its fix,
// in multiples of the assumed accuracy.
const maxDivergence = 10.0

// NewRKalmanFilter returns a geo filter tuned for a recorder moving at
// about speed m/s near latitude.
func NewRKalmanFilter(latitude, speed, acceleration float64) (*rkalman.GeoFilter, error) {
	processNoise := &rkalman.GeoProcessNoise{
		// Segments are short enough to disregard the earth's curvature around BaseLat.
		BaseLat: latitude,
		// How much do we expect the recorder to move, meters per second.
		DistancePerSecond: speed,
		// How much do we expect the speed to change, meters per second squared.
		SpeedPerSecond: acceleration,
	}
	return rkalman.NewGeoFilter(processNoise)
}

// kalmanHorizontal replaces lat/lon of seg[1:] with forward Kalman estimates.
// The first point seeds the filter and is left as is.
func kalmanHorizontal(seg track.Segment, accuracy float64) {
	if len(seg) < 2 {
		return
	}
	raw := seg.Clone()
	filter, err := NewRKalmanFilter(raw[0].Lat, segmentSpeed(raw), 0.1)
	if err != nil {
		slog.Warn("Kalman filter init failed, segment left unsmoothed", "error", err)
		return
	}
	for i := 1; i < len(raw); i++ {
		prev, cur := raw[i-1], raw[i]
		seconds := interval(prev, cur)
		dist := track.Distance(prev, cur)
		err := filter.Observe(seconds, &rkalman.GeoObserved{
			Lat:                cur.Lat,
			Lng:                cur.Lon,
			Altitude:           cur.Ele,
			Speed:              dist / seconds,
			SpeedAccuracy:      1.0,
			Direction:          bearing(prev, cur),
			DirectionAccuracy:  0,
			HorizontalAccuracy: accuracy,
			VerticalAccuracy:   2.0,
		})
		if err != nil {
			slog.Debug("Kalman.Observe failed", "index", i, "error", err)
			continue
		}
		est := filter.Estimate()
		if est == nil || math.IsNaN(est.Lat) || math.IsNaN(est.Lng) {
			continue
		}
		smoothed := cur
		smoothed.Lat, smoothed.Lon = est.Lat, est.Lng
		// Estimates that wander off the fix are dropped in favour of the raw point.
		if track.Distance(smoothed, cur) > accuracy*maxDivergence {
			continue
		}
		seg[i] = smoothed
	}
}

// interval is the time between two fixes in seconds.
// Missing or non-increasing timestamps count as one second.
func interval(a, b track.GeoPoint) float64 {
	if a.HasTime() && b.HasTime() {
		if d := b.Time.Sub(a.Time).Seconds(); d > 0 {
			return d
		}
	}
	return 1
}

// bearing is the initial bearing from a to b in degrees clockwise from north, [0, 360).
func bearing(a, b track.GeoPoint) float64 {
	d := geo.Bearing(a.Point(), b.Point())
	if d < 0 {
		d += 360
	}
	return d
}

// segmentSpeed is the mean speed over the timed span of the segment.
func segmentSpeed(seg track.Segment) float64 {
	first, last := seg[0], seg[len(seg)-1]
	if !first.HasTime() || !last.HasTime() {
		return defaultSpeed
	}
	seconds := last.Time.Sub(first.Time).Seconds()
	if seconds <= 0 {
		return defaultSpeed
	}
	dist := 0.0
	for i := 1; i < len(seg); i++ {
		dist += track.Distance(seg[i-1], seg[i])
	}
	if speed := dist / seconds; speed > 0 {
		return speed
	}
	return defaultSpeed
}
