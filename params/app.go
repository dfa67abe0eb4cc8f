package params

import (
	"os"
	"path/filepath"
	"runtime"
	"time"
)

var DatadirRoot = func() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".gpxc")
	}
	return filepath.Join(home, ".gpxc")
}()

var ManifestDBName = "manifest.db"
var ManifestBucket = []byte("processed")

type BatchConfig struct {
	// RunID tags the batch in logs and events. Empty means a fresh UUID.
	RunID string

	// Workers is the number of files processed in parallel.
	Workers int

	// ManifestPath enables skipping of unchanged inputs when non-empty.
	ManifestPath string

	// MeterInterval is how often throughput is logged. Zero disables the meter.
	MeterInterval time.Duration
}

func DefaultBatchConfig() BatchConfig {
	return BatchConfig{
		Workers:       runtime.NumCPU(),
		MeterInterval: 10 * time.Second,
	}
}
