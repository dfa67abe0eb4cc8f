package api

import (
	"log/slog"
	"os"
	"testing"

	"github.com/rotblauer/gpxc/common"
)

func TestMain(m *testing.M) {
	// Failing inputs are expected in batch tests; keep their errors out of the test log.
	reset := common.SlogResetLevel(slog.LevelError + 1)
	code := m.Run()
	reset()
	os.Exit(code)
}
