/*
Package trackio reads track files into track.Documents and writes them
back out in one of the supported formats.
*/
package trackio

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rotblauer/gpxc/params"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported track format")
	ErrParse             = errors.New("track parse error")
)

// Creator names this program in written GPX files that had no creator.
const Creator = "gpxc"

var extensions = map[string]string{
	params.FormatGPX:      ".gpx",
	params.FormatGeoJSON:  ".geojson",
	params.FormatCSV:      ".csv",
	params.FormatKML:      ".kml",
	params.FormatPolyline: ".txt",
}

// Readable formats, by lower-cased file extension.
var readable = map[string]string{
	".gpx":     params.FormatGPX,
	".geojson": params.FormatGeoJSON,
	".json":    params.FormatGeoJSON,
}

// Extension returns the file extension written for format.
func Extension(format string) (string, error) {
	ext, ok := extensions[format]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return ext, nil
}

// FormatOf returns the input format of path, judged by its extension.
// A trailing .gz is ignored.
func FormatOf(path string) (string, error) {
	f, ok := readable[strings.ToLower(filepath.Ext(trimGzipExt(path)))]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
	}
	return f, nil
}

// IsReadable reports whether path looks like a track file this package can read.
func IsReadable(path string) bool {
	_, err := FormatOf(path)
	return err == nil
}

// IsWritable reports whether format is a known output format.
func IsWritable(format string) bool {
	_, ok := extensions[format]
	return ok
}

// Formats lists the output formats.
func Formats() []string {
	return []string{
		params.FormatGPX,
		params.FormatGeoJSON,
		params.FormatCSV,
		params.FormatKML,
		params.FormatPolyline,
	}
}
