package clean

import (
	"github.com/rotblauer/gpxc/types/track"
)

// FilterGPSErrors removes points that jump thresholdMeters or more from the
// last retained point of their segment. It returns the cleaned track and the
// removed points in encounter order.
//
// Each segment starts fresh: its first point is always retained.
// A rejected point is never used as the reference for the next one, so a
// single wild fix does not poison the fixes after it. The flip side is that a
// genuine relocation (a recorder resumed far away) rejects every following
// point until one comes back within threshold of the old position.
func FilterGPSErrors(t track.Track, thresholdMeters float64) (track.Track, []track.GeoPoint) {
	var removed []track.GeoPoint
	keep := withinThreshold(thresholdMeters)
	cleaned := t.MapSegments(func(seg track.Segment) track.Segment {
		kept, rejected := seg.Retain(keep)
		removed = append(removed, rejected...)
		return kept
	})
	return cleaned, removed
}

// FilterDocumentGPSErrors applies FilterGPSErrors to every track of doc.
func FilterDocumentGPSErrors(doc track.Document, thresholdMeters float64) (track.Document, []track.GeoPoint) {
	var removed []track.GeoPoint
	cleaned := doc.MapTracks(func(t track.Track) track.Track {
		ct, rm := FilterGPSErrors(t, thresholdMeters)
		removed = append(removed, rm...)
		return ct
	})
	return cleaned, removed
}

func withinThreshold(thresholdMeters float64) func(last, next track.GeoPoint) bool {
	return func(last, next track.GeoPoint) bool {
		return track.Distance(last, next) < thresholdMeters
	}
}
