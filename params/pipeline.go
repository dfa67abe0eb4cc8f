package params

// PipelineConfig is everything one pipeline run needs.
// It is built once per batch and passed by value.
type PipelineConfig struct {
	CleanConfig
	StripConfig
	SmoothConfig
	CompressConfig
	OutputConfig
}

const (
	FormatGPX      = "gpx"
	FormatGeoJSON  = "geojson"
	FormatCSV      = "csv"
	FormatKML      = "kml"
	FormatPolyline = "polyline"
)

// DefaultOutputSuffix is inserted between an input's base name and its
// extension to name the output file.
const DefaultOutputSuffix = "_compressed"

type OutputConfig struct {
	// OutputSuffix is appended to the input base name.
	OutputSuffix string `json:"output_suffix"`

	// OutputFormat is one of the Format* names.
	// Empty means the input's own format.
	OutputFormat string `json:"output_format"`
}

// DefaultPipelineConfig mirrors the original application's defaults:
// GPS errors removed, both smoothings on, RDP compression.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		CleanConfig: CleanConfig{
			RemoveGPSErrors:   true,
			GPSErrorThreshold: DefaultGPSErrorThreshold,
		},
		SmoothConfig: SmoothConfig{
			SmoothVertical:   true,
			SmoothHorizontal: true,
			SmoothMethod:     SmoothMethodAverage,
		},
		CompressConfig: CompressConfig{
			Strategy:       StrategyRDP,
			RDPEpsilon:     DefaultRDPEpsilon,
			KeepFraction:   DefaultKeepFraction,
			CloseProximity: DefaultCloseProximity,
		},
		OutputConfig: OutputConfig{
			OutputSuffix: DefaultOutputSuffix,
		},
	}
}

// DefaultIdentityConfig is a pipeline that changes nothing but the format.
func DefaultIdentityConfig() PipelineConfig {
	c := DefaultPipelineConfig()
	c.RemoveGPSErrors = false
	c.SmoothVertical = false
	c.SmoothHorizontal = false
	c.Strategy = StrategyNone
	return c
}
