package stream

import (
	"log/slog"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ethereum/go-ethereum/metrics"
	"github.com/rotblauer/gpxc/common"
)

// TickMeter counts processed files, points and bytes,
// and logs their rates every interval until stopped.
type TickMeter struct {
	logger   *slog.Logger
	mu       sync.Mutex
	label    string
	interval time.Duration
	started  time.Time
	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once

	reg        metrics.Registry
	files      metrics.Counter
	fileMeter  metrics.Meter
	pointMeter metrics.Meter
	byteMeter  metrics.Meter
}

func NewTickMeter(logger *slog.Logger, interval time.Duration) *TickMeter {
	// Enable metrics package.
	// Won't work without this global setting.
	metrics.Enabled = true

	if logger == nil {
		logger = slog.Default()
	}
	reg := metrics.NewRegistry()
	rl := &TickMeter{
		logger:     logger,
		reg:        reg,
		interval:   interval,
		started:    time.Now(),
		done:       make(chan struct{}),
		files:      metrics.NewCounter(),
		fileMeter:  metrics.NewMeter(),
		pointMeter: metrics.NewMeter(),
		byteMeter:  metrics.NewMeter(),
	}
	for name, m := range map[string]interface{}{
		"files.count": rl.files,
		"files.meter": rl.fileMeter,
		"point.meter": rl.pointMeter,
		"bytes.meter": rl.byteMeter,
	} {
		if err := reg.Register(name, m); err != nil {
			panic(err)
		}
	}
	if interval > 0 {
		rl.ticker = time.NewTicker(interval)
		go rl.run()
	}
	return rl
}

// Mark records one finished file.
func (rl *TickMeter) Mark(label string, points int, bytes int64) {
	rl.mu.Lock()
	rl.label = label
	rl.mu.Unlock()
	rl.files.Inc(1)
	rl.fileMeter.Mark(1)
	rl.pointMeter.Mark(int64(points))
	rl.byteMeter.Mark(bytes)
}

func (rl *TickMeter) Files() int64 {
	return rl.files.Snapshot().Count()
}

func (rl *TickMeter) Points() int64 {
	return rl.pointMeter.Snapshot().Count()
}

func (rl *TickMeter) Bytes() int64 {
	return rl.byteMeter.Snapshot().Count()
}

func (rl *TickMeter) run() {
	for {
		select {
		case <-rl.done:
			return
		case <-rl.ticker.C:
			rl.Log()
		}
	}
}

func (rl *TickMeter) Log() {
	fileSnap := rl.fileMeter.Snapshot()
	pointSnap := rl.pointMeter.Snapshot()
	byteSnap := rl.byteMeter.Snapshot()
	rl.mu.Lock()
	last := rl.label
	rl.mu.Unlock()

	rl.logger.Info("Processed files", "n", humanize.Comma(fileSnap.Count()),
		"last", last,
		"fps", common.DecimalToFixed(fileSnap.Rate1(), 2),
		"pps", common.DecimalToFixed(pointSnap.Rate1(), 0),
		"points", humanize.Comma(pointSnap.Count()),
		"bps", humanize.Bytes(uint64(byteSnap.Rate1())),
		"total.bytes", humanize.Bytes(uint64(byteSnap.Count())),
		"running", time.Since(rl.started).Round(time.Second))
}

func (rl *TickMeter) Stop() {
	if rl == nil {
		return
	}
	rl.stopOnce.Do(func() {
		if rl.ticker != nil {
			rl.ticker.Stop()
		}
		close(rl.done)
		rl.fileMeter.Stop()
		rl.pointMeter.Stop()
		rl.byteMeter.Stop()
	})
}
