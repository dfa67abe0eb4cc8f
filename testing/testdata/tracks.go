package testdata

// GPXOutlier is a five point segment, ~111 m steps along the equator
// with a jump to (50, 50) and back.
var GPXOutlier = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="gpxc-test" xmlns="http://www.topografix.com/GPX/1/1">
  <metadata>
    <name>outlier</name>
  </metadata>
  <trk>
    <name>jumpy</name>
    <trkseg>
      <trkpt lat="0" lon="0"><ele>10</ele><time>2024-12-20T22:00:00Z</time></trkpt>
      <trkpt lat="0" lon="0.001"><ele>11</ele><time>2024-12-20T22:00:10Z</time></trkpt>
      <trkpt lat="50" lon="50"><ele>12</ele><time>2024-12-20T22:00:20Z</time></trkpt>
      <trkpt lat="0" lon="0.002"><ele>13</ele><time>2024-12-20T22:00:30Z</time></trkpt>
      <trkpt lat="0" lon="0.003"><ele>14</ele><time>2024-12-20T22:00:40Z</time></trkpt>
    </trkseg>
  </trk>
</gpx>
`

// GPXEmpty has a track with no segments.
var GPXEmpty = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="gpxc-test" xmlns="http://www.topografix.com/GPX/1/1">
  <trk>
    <name>nothing</name>
  </trk>
</gpx>
`

// GeoJSONLine is a FeatureCollection with one named LineString.
var GeoJSONLine = `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{"name":"walk"},"geometry":{"type":"LineString","coordinates":[[-93.2554,44.9889],[-93.2550,44.9890],[-93.2545,44.9892],[-93.2540,44.9895]]}}]}`
