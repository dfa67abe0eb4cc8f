package clean

import (
	"time"

	"github.com/rotblauer/gpxc/types/track"
)

// RemoveTime drops timestamps from every point and from the metadata.
func RemoveTime(doc track.Document) track.Document {
	doc.Metadata.Time = time.Time{}
	return mapPoints(doc, func(p track.GeoPoint) track.GeoPoint {
		p.Time = time.Time{}
		return p
	})
}

// RemoveElevation drops elevations from every point.
func RemoveElevation(doc track.Document) track.Document {
	return mapPoints(doc, func(p track.GeoPoint) track.GeoPoint {
		p.Ele, p.HasEle = 0, false
		return p
	})
}

// RemoveMetadata drops document metadata and the descriptive fields of each track.
// The creator is kept; serializers need one.
func RemoveMetadata(doc track.Document) track.Document {
	doc.Metadata = track.Metadata{}
	return doc.MapTracks(func(t track.Track) track.Track {
		t.Name, t.Description, t.Type = "", "", ""
		return t
	})
}

func mapPoints(doc track.Document, fn func(track.GeoPoint) track.GeoPoint) track.Document {
	return doc.MapTracks(func(t track.Track) track.Track {
		return t.MapSegments(func(seg track.Segment) track.Segment {
			if seg == nil {
				return nil
			}
			out := make(track.Segment, len(seg))
			for i, p := range seg {
				out[i] = fn(p)
			}
			return out
		})
	})
}
