package domain

import (
	"reflect"
	"testing"
)

func TestCloneLessonsIndependence(t *testing.T) {
	orig := []Lesson{
		{LocalID: "l1", Title: "Intro", Video: &VideoRef{FilePath: "/tmp/a.mp4"}},
		{LocalID: "l2", Title: "Deep dive"},
	}

	clone := CloneLessons(orig)

	clone[0].Title = "changed"
	clone[0].Video.Uploaded = true
	clone[0].Video.RemoteID = "v1"

	if orig[0].Title != "Intro" {
		t.Errorf("clone mutation leaked into original title: %q", orig[0].Title)
	}
	if orig[0].Video.Uploaded || orig[0].Video.RemoteID != "" {
		t.Errorf("clone mutation leaked into original video: %+v", orig[0].Video)
	}
}

func TestCloneUnitsNilAndCopy(t *testing.T) {
	if CloneUnits(nil) != nil {
		t.Error("CloneUnits(nil) should be nil")
	}

	orig := []Unit{{LocalID: "u1", Order: 1}}
	clone := CloneUnits(orig)
	clone[0].Order = 9
	if orig[0].Order != 1 {
		t.Errorf("clone mutation leaked into original unit: %+v", orig[0])
	}
}

func TestRenumberUnits(t *testing.T) {
	units := []Unit{
		{LocalID: "a", Order: 1},
		{LocalID: "c", Order: 3}, // "b" was deleted
		{LocalID: "d", Order: 4},
	}

	out := RenumberUnits(units)

	for i, u := range out {
		if u.Order != i+1 {
			t.Errorf("unit %q order = %d, want %d", u.LocalID, u.Order, i+1)
		}
	}
	// input untouched
	if units[1].Order != 3 {
		t.Errorf("RenumberUnits mutated its input: %+v", units[1])
	}
}

func TestRenumberLessonsPerUnit(t *testing.T) {
	lessons := []Lesson{
		{LocalID: "l1", UnitLocalID: "u1", Order: 1},
		{LocalID: "l2", UnitLocalID: "u2", Order: 5},
		{LocalID: "l3", UnitLocalID: "u1", Order: 7},
	}

	out := RenumberLessons(lessons)

	want := []int{1, 1, 2}
	for i, l := range out {
		if l.Order != want[i] {
			t.Errorf("lesson %q order = %d, want %d", l.LocalID, l.Order, want[i])
		}
	}
}

func TestAttachedVideoInvariant(t *testing.T) {
	v := VideoRef{FilePath: "/tmp/a.mp4", FileName: "a.mp4"}

	got := AttachedVideo(v, "vid-1", "https://iframe.example.com/embed/9/vid-1")
	if !got.Uploaded {
		t.Error("expected Uploaded = true when both id and URL are set")
	}

	// missing either field must not mark the video uploaded
	if AttachedVideo(v, "", "https://x").Uploaded {
		t.Error("Uploaded must stay false without a remote id")
	}
	if AttachedVideo(v, "vid-1", "").Uploaded {
		t.Error("Uploaded must stay false without a playback URL")
	}
}

func TestClearUploadKeepsSelectedFile(t *testing.T) {
	v := VideoRef{FilePath: "/tmp/a.mp4", FileName: "a.mp4", Uploaded: true, RemoteID: "v1", PlaybackURL: "u"}

	got := ClearUpload(v)

	if got.Uploaded || got.RemoteID != "" || got.PlaybackURL != "" {
		t.Errorf("ClearUpload left upload state behind: %+v", got)
	}
	if got.FilePath != "/tmp/a.mp4" || got.FileName != "a.mp4" {
		t.Errorf("ClearUpload dropped the selected file: %+v", got)
	}
}

func TestSplitLines(t *testing.T) {
	testCases := []struct {
		input    string
		expected []string
	}{
		{"", nil},
		{"   \n \n", nil},
		{"one", []string{"one"}},
		{"one\ntwo\nthree", []string{"one", "two", "three"}},
		{"  one  \n\n two \n", []string{"one", "two"}},
	}

	for _, tc := range testCases {
		got := SplitLines(tc.input)
		if !reflect.DeepEqual(got, tc.expected) {
			t.Errorf("SplitLines(%q) = %v, want %v", tc.input, got, tc.expected)
		}
	}
}
