package params

const (
	// DefaultRDPEpsilon is the Douglas-Peucker tolerance in degrees,
	// about 9 meters of latitude.
	DefaultRDPEpsilon = 0.00008

	// DefaultKeepFraction is used by the "fraction" strategy when none is given.
	DefaultKeepFraction = 0.5

	// DefaultCloseProximity is the distance in meters under which a point
	// is considered redundant with the last retained point.
	DefaultCloseProximity = 10.0
)

const (
	StrategyNone        = "none"
	StrategyRDP         = "rdp"
	StrategyRemove25    = "remove-25"
	StrategyRemove50    = "remove-50"
	StrategyRemove75    = "remove-75"
	StrategyFraction    = "fraction"
	StrategyRemoveClose = "remove-close"
)

// Strategies lists the accepted strategy names with a short description,
// in the order they are shown to users.
var Strategies = [][2]string{
	{StrategyNone, "no compression"},
	{StrategyRDP, "Ramer-Douglas-Peucker simplification (--epsilon)"},
	{StrategyRemove25, "remove 25% of points"},
	{StrategyRemove50, "remove 50% of points"},
	{StrategyRemove75, "remove 75% of points"},
	{StrategyFraction, "keep a fraction of points (--keep-fraction)"},
	{StrategyRemoveClose, "remove points closer than --proximity meters"},
}

type CompressConfig struct {
	// Strategy names the compression strategy, one of the Strategy* names.
	Strategy string `json:"strategy"`

	RDPEpsilon     float64 `json:"rdp_epsilon"`
	KeepFraction   float64 `json:"keep_fraction"`
	CloseProximity float64 `json:"close_proximity"`
}
