package smooth

import "github.com/rotblauer/gpxc/types/track"

// weights of the previous, current and next point.
var weights = [3]float64{0.4, 0.2, 0.4}

// minAveragePoints is the smallest segment the kernel touches.
// Shorter segments are mostly endpoints.
const minAveragePoints = 4

// averageInPlace writes the weighted neighbourhood average of src into dst,
// which must be a copy of src. Every value is computed from src, so earlier
// replacements never feed later ones. Endpoints are not touched.
func averageInPlace(src, dst track.Segment, vertical, horizontal bool) {
	if len(src) < minAveragePoints {
		return
	}
	for i := 1; i < len(src)-1; i++ {
		prev, cur, next := src[i-1], src[i], src[i+1]
		if vertical && prev.HasEle && cur.HasEle && next.HasEle {
			dst[i].Ele = weigh(prev.Ele, cur.Ele, next.Ele)
		}
		if horizontal {
			dst[i].Lat = weigh(prev.Lat, cur.Lat, next.Lat)
			dst[i].Lon = weigh(prev.Lon, cur.Lon, next.Lon)
		}
	}
}

func weigh(prev, cur, next float64) float64 {
	return weights[0]*prev + weights[1]*cur + weights[2]*next
}
