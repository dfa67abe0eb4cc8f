package webd

import (
	"testing"

	"github.com/rotblauer/gpxc/params"
)

func newTestWebDaemon(t *testing.T, configure func(c *params.WebDaemonConfig)) *WebDaemon {
	t.Helper()
	config := params.DefaultTestWebDaemonConfig()
	if configure != nil {
		configure(config)
	}
	d, err := NewWebDaemon(config)
	if err != nil {
		t.Fatal(err)
	}
	return d
}
