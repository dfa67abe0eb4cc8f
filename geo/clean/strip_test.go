package clean

import (
	"testing"
	"time"

	"github.com/rotblauer/gpxc/types/track"
)

func stripFixture() track.Document {
	ts := time.Date(2024, 11, 20, 7, 0, 0, 0, time.UTC)
	return track.Document{
		Creator:  "test",
		Metadata: track.Metadata{Name: "ride", Author: "ia", Time: ts},
		Tracks: []track.Track{{
			Name: "morning", Type: "cycling",
			Segments: []track.Segment{{
				track.NewGeoPoint(1, 2).WithEle(100).WithTime(ts),
				track.NewGeoPoint(1.1, 2.1).WithEle(101).WithTime(ts.Add(time.Second)),
			}},
		}},
	}
}

func TestRemoveTime(t *testing.T) {
	in := stripFixture()
	got := RemoveTime(in)
	for _, p := range got.Tracks[0].Segments[0] {
		if p.HasTime() {
			t.Errorf("point kept its time: %+v", p)
		}
		if !p.HasEle {
			t.Errorf("point lost its elevation: %+v", p)
		}
	}
	if !got.Metadata.Time.IsZero() {
		t.Error("metadata time kept")
	}
	if !in.Tracks[0].Segments[0][0].HasTime() {
		t.Error("input was modified")
	}
}

func TestRemoveElevation(t *testing.T) {
	got := RemoveElevation(stripFixture())
	for _, p := range got.Tracks[0].Segments[0] {
		if p.HasEle || p.Ele != 0 {
			t.Errorf("point kept its elevation: %+v", p)
		}
		if !p.HasTime() {
			t.Errorf("point lost its time: %+v", p)
		}
	}
}

func TestRemoveMetadata(t *testing.T) {
	got := RemoveMetadata(stripFixture())
	if !got.Metadata.IsZero() {
		t.Errorf("metadata kept: %+v", got.Metadata)
	}
	if got.Tracks[0].Name != "" || got.Tracks[0].Type != "" {
		t.Errorf("track metadata kept: %+v", got.Tracks[0])
	}
	if got.Creator != "test" {
		t.Errorf("creator dropped")
	}
	if got.PointsN() != 2 {
		t.Errorf("points changed: %d", got.PointsN())
	}
}

func TestStrip_CommuteAndEmpty(t *testing.T) {
	a := RemoveElevation(RemoveTime(stripFixture()))
	b := RemoveTime(RemoveElevation(stripFixture()))
	for i := range a.Tracks[0].Segments[0] {
		if a.Tracks[0].Segments[0][i] != b.Tracks[0].Segments[0][i] {
			t.Errorf("point %d differs by order", i)
		}
	}
	empty := RemoveMetadata(RemoveElevation(RemoveTime(track.Document{})))
	if len(empty.Tracks) != 0 {
		t.Errorf("empty document grew tracks")
	}
}
