/*
Package smooth adjusts point values in place of noise, never point count or order.
*/
package smooth

import (
	"fmt"

	"github.com/rotblauer/gpxc/params"
	"github.com/rotblauer/gpxc/types/track"
)

type Method int

const (
	MethodAverage Method = iota
	MethodKalman
)

func (m Method) String() string {
	switch m {
	case MethodAverage:
		return params.SmoothMethodAverage
	case MethodKalman:
		return params.SmoothMethodKalman
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// ParseMethod maps a configured method name to a Method.
// The empty name is the average kernel.
func ParseMethod(name string) (Method, error) {
	switch name {
	case "", params.SmoothMethodAverage:
		return MethodAverage, nil
	case params.SmoothMethodKalman:
		return MethodKalman, nil
	}
	return 0, fmt.Errorf("unknown smoothing method %q", name)
}

type Options struct {
	Vertical   bool
	Horizontal bool
	Method     Method

	// KalmanAccuracy is the assumed horizontal accuracy of each fix, in meters.
	KalmanAccuracy float64
}

const defaultKalmanAccuracy = 10.0

// Smooth returns a smoothed copy of t.
// With neither Vertical nor Horizontal set it returns t unchanged.
func Smooth(t track.Track, opts Options) track.Track {
	if !opts.Vertical && !opts.Horizontal {
		return t
	}
	return t.MapSegments(func(seg track.Segment) track.Segment {
		out := seg.Clone()
		switch opts.Method {
		case MethodKalman:
			if opts.Horizontal {
				kalmanHorizontal(out, opts.kalmanAccuracy())
			}
			if opts.Vertical {
				averageInPlace(seg, out, true, false)
			}
		default:
			averageInPlace(seg, out, opts.Vertical, opts.Horizontal)
		}
		return out
	})
}

func (o Options) kalmanAccuracy() float64 {
	if o.KalmanAccuracy > 0 {
		return o.KalmanAccuracy
	}
	return defaultKalmanAccuracy
}
