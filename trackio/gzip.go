package trackio

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

const gzipExt = ".gz"

// IsGzip reports whether data starts with the gzip magic number.
func IsGzip(data []byte) bool {
	return len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b
}

// Gunzip returns data decompressed if it is gzipped, or as is otherwise.
func Gunzip(data []byte) ([]byte, error) {
	if !IsGzip(data) {
		return data, nil
	}
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return out, nil
}

// trimGzipExt strips a trailing .gz from name.
func trimGzipExt(name string) string {
	if strings.EqualFold(filepath.Ext(name), gzipExt) {
		return name[:len(name)-len(gzipExt)]
	}
	return name
}

// Stem is the base name of path without its track and .gz extensions.
// ride.gpx.gz and ride.gpx both have the stem ride.
func Stem(path string) string {
	base := trimGzipExt(filepath.Base(path))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// OutputStem is the part of path's base name carried into the name of a
// file written from it. The extension is dropped only when it is the one
// this package writes for the file's format, and a trailing .gz alone is
// dropped from compressed files: ride.gpx gives ride, ride.json gives
// ride.json and ride.gpx.gz gives ride.gpx.
func OutputStem(path string) string {
	base := filepath.Base(path)
	if trimmed := trimGzipExt(base); trimmed != base {
		return trimmed
	}
	ext := filepath.Ext(base)
	if f, err := FormatOf(base); err == nil && strings.EqualFold(extensions[f], ext) {
		return base[:len(base)-len(ext)]
	}
	return base
}
