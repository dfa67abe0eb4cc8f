package params

// DefaultGPSErrorThreshold is the jump, in meters, from the last retained
// point beyond which a fix is considered a GPS error.
// It is a policy, not physics; tracks from aircraft want more.
const DefaultGPSErrorThreshold = 1000.0

type CleanConfig struct {
	// RemoveGPSErrors enables the GPS error filter.
	RemoveGPSErrors bool `json:"remove_gps_errors"`

	// GPSErrorThreshold is the distance in meters between a point and the
	// last retained point at or above which the point is dropped.
	GPSErrorThreshold float64 `json:"gps_error_threshold"`
}

// StripConfig selects attributes to drop before smoothing and compression.
type StripConfig struct {
	RemoveMetadata  bool `json:"remove_metadata"`
	RemoveTime      bool `json:"remove_time"`
	RemoveElevation bool `json:"remove_elevation"`
}

type SmoothConfig struct {
	SmoothVertical   bool `json:"smooth_vertical"`
	SmoothHorizontal bool `json:"smooth_horizontal"`

	// SmoothMethod is "average" or "kalman".
	// Kalman smoothing only applies horizontally.
	SmoothMethod string `json:"smooth_method"`
}

const (
	SmoothMethodAverage = "average"
	SmoothMethodKalman  = "kalman"
)
