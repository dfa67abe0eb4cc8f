package manifest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rotblauer/gpxc/params"
)

func openTemp(t *testing.T) (*Manifest, string) {
	t.Helper()
	dir := t.TempDir()
	m, err := Open(filepath.Join(dir, "sub", params.ManifestDBName), false)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { m.Close() })
	return m, dir
}

func TestConfigHash(t *testing.T) {
	a, err := ConfigHash(params.DefaultPipelineConfig())
	if err != nil {
		t.Fatal(err)
	}
	b, _ := ConfigHash(params.DefaultPipelineConfig())
	if a != b {
		t.Error("same config, different hash")
	}
	cfg := params.DefaultPipelineConfig()
	cfg.Strategy = params.StrategyRemove50
	c, _ := ConfigHash(cfg)
	if a == c {
		t.Error("different strategy, same hash")
	}
}

func TestLookupMissing(t *testing.T) {
	m, _ := openTemp(t)
	e, err := m.Lookup("nope.gpx")
	if err != nil || e != nil {
		t.Errorf("got %v, %v", e, err)
	}
	if n, _ := m.Len(); n != 0 {
		t.Errorf("len: %d", n)
	}
}

func TestCurrent(t *testing.T) {
	m, dir := openTemp(t)
	in := filepath.Join(dir, "ride.gpx")
	out := filepath.Join(dir, "ride_compressed.gpx")
	for _, p := range []string{in, out} {
		if err := os.WriteFile(p, []byte("<gpx/>"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	hash, _ := ConfigHash(params.DefaultPipelineConfig())

	if ok, err := m.Current(in, hash); ok || err != nil {
		t.Fatalf("unrecorded input is current: %v %v", ok, err)
	}

	e, err := Stamp(in, hash)
	if err != nil {
		t.Fatal(err)
	}
	e.Output = out
	e.PointsIn, e.PointsOut = 10, 4
	if err := m.Record(e); err != nil {
		t.Fatal(err)
	}
	got, err := m.Lookup(in)
	if err != nil || got == nil {
		t.Fatalf("lookup: %v %v", got, err)
	}
	if got.PointsOut != 4 || got.At.IsZero() {
		t.Errorf("entry: %+v", got)
	}

	if ok, _ := m.Current(in, hash); !ok {
		t.Error("want current after record")
	}
	if ok, _ := m.Current(in, hash+1); ok {
		t.Error("config change should invalidate")
	}

	// Touch the input.
	later := time.Now().Add(time.Hour)
	if err := os.Chtimes(in, later, later); err != nil {
		t.Fatal(err)
	}
	if ok, _ := m.Current(in, hash); ok {
		t.Error("modified input should invalidate")
	}

	// Re-record, then lose the output.
	e, _ = Stamp(in, hash)
	e.Output = out
	if err := m.Record(e); err != nil {
		t.Fatal(err)
	}
	if ok, _ := m.Current(in, hash); !ok {
		t.Error("want current after re-record")
	}
	if err := os.Remove(out); err != nil {
		t.Fatal(err)
	}
	if ok, _ := m.Current(in, hash); ok {
		t.Error("missing output should invalidate")
	}
	if n, _ := m.Len(); n != 1 {
		t.Errorf("len: %d", n)
	}
}
