/*
Package manifest records which inputs a batch has already processed,
so an unchanged input with an unchanged configuration can be skipped.
*/
package manifest

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/hashstructure/v2"
	"github.com/rotblauer/gpxc/params"
	"go.etcd.io/bbolt"
)

// Entry is the record of one successful run over an input.
type Entry struct {
	Input      string    `json:"input"`
	Size       int64     `json:"size"`
	ModTime    time.Time `json:"mod_time"`
	ConfigHash uint64    `json:"config_hash"`
	Output     string    `json:"output"`
	PointsIn   int       `json:"points_in"`
	PointsOut  int       `json:"points_out"`
	At         time.Time `json:"at"`
}

type Manifest struct {
	DB *bbolt.DB
}

// Open opens or creates the manifest database at path.
// A writable manifest holds the file lock until Close.
func Open(path string, readOnly bool) (*Manifest, error) {
	if !readOnly {
		if err := os.MkdirAll(filepath.Dir(path), 0770); err != nil {
			return nil, err
		}
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{
		ReadOnly: readOnly,
		Timeout:  5 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("open manifest %s: %w", path, err)
	}
	return &Manifest{DB: db}, nil
}

func (m *Manifest) Close() error {
	return m.DB.Close()
}

// ConfigHash identifies a pipeline configuration.
func ConfigHash(cfg params.PipelineConfig) (uint64, error) {
	return hashstructure.Hash(cfg, hashstructure.FormatV2, nil)
}

func key(input string) []byte {
	if abs, err := filepath.Abs(input); err == nil {
		input = abs
	}
	return []byte(input)
}

// Lookup returns the entry for input, or nil if there is none.
func (m *Manifest) Lookup(input string) (*Entry, error) {
	var got []byte
	err := m.DB.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(params.ManifestBucket)
		if bucket == nil {
			return nil
		}
		// The value returned by Get is only valid in the scope of the transaction.
		if v := bucket.Get(key(input)); v != nil {
			got = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil || got == nil {
		return nil, err
	}
	e := &Entry{}
	if err := json.Unmarshal(got, e); err != nil {
		return nil, fmt.Errorf("manifest entry %s: %w", input, err)
	}
	return e, nil
}

// Record stores e under its input, replacing any earlier entry.
func (m *Manifest) Record(e Entry) error {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return m.DB.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(params.ManifestBucket)
		if err != nil {
			return err
		}
		return bucket.Put(key(e.Input), b)
	})
}

// Stamp builds an entry for input from its current size and mtime.
func Stamp(input string, configHash uint64) (Entry, error) {
	fi, err := os.Stat(input)
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		Input:      input,
		Size:       fi.Size(),
		ModTime:    fi.ModTime(),
		ConfigHash: configHash,
	}, nil
}

// Current reports whether input was last processed with configHash,
// has not changed since, and its output still exists.
func (m *Manifest) Current(input string, configHash uint64) (bool, error) {
	e, err := m.Lookup(input)
	if err != nil || e == nil {
		return false, err
	}
	now, err := Stamp(input, configHash)
	if err != nil {
		return false, err
	}
	if e.ConfigHash != configHash || e.Size != now.Size || !e.ModTime.Equal(now.ModTime) {
		return false, nil
	}
	if _, err := os.Stat(e.Output); err != nil {
		slog.Debug("Manifest output missing", "input", input, "output", e.Output)
		return false, nil
	}
	return true, nil
}

// Len is the number of recorded inputs.
func (m *Manifest) Len() (int, error) {
	n := 0
	err := m.DB.View(func(tx *bbolt.Tx) error {
		if bucket := tx.Bucket(params.ManifestBucket); bucket != nil {
			n = bucket.Stats().KeyN
		}
		return nil
	})
	return n, err
}
