/*
Package compress reduces the number of points in a track.

A Strategy is chosen once, at the configuration boundary, with Parse.
Every strategy works per segment, keeps a subsequence of the input points
in their original order, and never alters point values.
*/
package compress

import (
	"errors"
	"fmt"
	"math"

	"github.com/rotblauer/gpxc/params"
	"github.com/rotblauer/gpxc/types/track"
)

var (
	ErrUnknownStrategy = errors.New("unknown compression strategy")
	ErrInvalidParam    = errors.New("invalid compression parameter")
)

type Kind int

const (
	KindNone Kind = iota
	KindRDP
	KindFixedFraction
	KindRemoveClose
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindRDP:
		return "rdp"
	case KindFixedFraction:
		return "fixed-fraction"
	case KindRemoveClose:
		return "remove-close"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

type Strategy interface {
	Kind() Kind

	// Apply returns the retained points of seg.
	// The result is a new slice; seg is never modified.
	Apply(seg track.Segment) track.Segment
}

// Compress applies s to every segment of t.
// Segment count and track metadata are preserved.
func Compress(t track.Track, s Strategy) track.Track {
	return t.MapSegments(s.Apply)
}

// Params carries the numeric inputs of the parameterised strategies.
// Values are taken as given; defaults belong to the config layer
// (see DefaultParams).
type Params struct {
	RDPEpsilon     float64
	KeepFraction   float64
	CloseProximity float64
}

// DefaultParams returns the parameters of params.DefaultPipelineConfig.
func DefaultParams() Params {
	return Params{
		RDPEpsilon:     params.DefaultRDPEpsilon,
		KeepFraction:   params.DefaultKeepFraction,
		CloseProximity: params.DefaultCloseProximity,
	}
}

// ParamsFromConfig lifts the compression fields of a config.
func ParamsFromConfig(c params.CompressConfig) Params {
	return Params{
		RDPEpsilon:     c.RDPEpsilon,
		KeepFraction:   c.KeepFraction,
		CloseProximity: c.CloseProximity,
	}
}

// Parse maps a strategy name to a Strategy.
// Unknown names are an error, never a silent None.
// An RDP epsilon of 0 is honoured; a keep fraction or proximity
// at or below 0 is rejected.
func Parse(name string, p Params) (Strategy, error) {
	switch name {
	case params.StrategyNone:
		return None{}, nil
	case params.StrategyRDP:
		return NewRDP(p.RDPEpsilon)
	case params.StrategyRemove25:
		return NewFixedFraction(0.75)
	case params.StrategyRemove50:
		return NewFixedFraction(0.5)
	case params.StrategyRemove75:
		return NewFixedFraction(0.25)
	case params.StrategyFraction:
		return NewFixedFraction(p.KeepFraction)
	case params.StrategyRemoveClose:
		return NewRemoveClose(p.CloseProximity)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

func invalid(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s is not finite", ErrInvalidParam, name)
	}
	return fmt.Errorf("%w: %s=%v", ErrInvalidParam, name, v)
}
