package events

import (
	"time"

	"github.com/ethereum/go-ethereum/event"
)

// FileProcessed describes the outcome of one input file in a batch run.
type FileProcessed struct {
	RunID  string
	Input  string
	Output string

	// Skipped is set when the manifest showed the output to be current.
	Skipped bool

	PointsIn  int
	PointsOut int
	GPSErrors int
	Bytes     int64
	Duration  time.Duration

	Err error
}

func (f FileProcessed) Failed() bool {
	return f.Err != nil
}

// FileProcessedFeed is emitted once for every input of a batch,
// whether it was written, skipped or failed.
var FileProcessedFeed = event.FeedOf[FileProcessed]{}

// HTTPCompressed describes one track document processed over HTTP.
type HTTPCompressed struct {
	RemoteAddr string
	Format     string
	PointsIn   int
	PointsOut  int
	GPSErrors  int
}

// HTTPCompressFeed is emitted for every successful POST /compress.
// It is emitted only in the context of an HTTP request.
var HTTPCompressFeed = event.FeedOf[HTTPCompressed]{}
