package domain

import (
	"strings"

	"github.com/google/uuid"
)

// DateLayout is the wire format for course dates.
const DateLayout = "2006-01-02"

// Variant selects which authoring rules apply to a draft.
type Variant string

const (
	// VariantPaid requires a price and at least one complete lesson
	// before the draft can be published.
	VariantPaid Variant = "paid"
	// VariantFree has no price step and allows lesson videos to be
	// uploaded after publishing.
	VariantFree Variant = "free"
)

// CourseDraft is the in-progress course as the author builds it.
// It lives in the draft store for the lifetime of the wizard session
// and is destroyed on successful publish or explicit abandon.
type CourseDraft struct {
	ID          string  `json:"id"`
	Variant     Variant `json:"variant"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	StartDate   string  `json:"startDate"` // DateLayout
	EndDate     string  `json:"endDate"`   // DateLayout
	Public      bool    `json:"public"`
	Price       float64 `json:"price,omitempty"`

	// Outcomes and Topics are free text, one entry per line.
	// They are split into arrays at submit time.
	Outcomes string `json:"outcomes"`
	Topics   string `json:"topics"`

	// RemoteID is set once the course itself has been persisted.
	RemoteID string `json:"remoteId,omitempty"`

	Units   []Unit   `json:"units"`
	Lessons []Lesson `json:"lessons"`
}

// Unit is a section of a course. Order is 1-based and dense within
// the unit list; RemoteID is empty until the unit is persisted.
type Unit struct {
	LocalID     string `json:"localId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Order       int    `json:"order"`
	RemoteID    string `json:"remoteId,omitempty"`
}

// Lesson belongs to the unit identified by UnitLocalID. Order is
// 1-based and dense among the lessons of the same unit.
type Lesson struct {
	LocalID     string    `json:"localId"`
	UnitLocalID string    `json:"unitLocalId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Outcomes    string    `json:"outcomes"`
	Order       int       `json:"order"`
	Video       *VideoRef `json:"video,omitempty"`
	RemoteID    string    `json:"remoteId,omitempty"`
}

// VideoRef tracks the lesson's selected video file and, once the
// upload pipeline has finished, the remote asset it became.
// Uploaded is true only when RemoteID and PlaybackURL are both set;
// AttachedVideo and ClearUpload are the only intended ways to flip it.
type VideoRef struct {
	FilePath    string `json:"filePath"`
	FileName    string `json:"fileName"`
	Uploaded    bool   `json:"uploaded"`
	RemoteID    string `json:"remoteId,omitempty"`
	PlaybackURL string `json:"playbackUrl,omitempty"`
}

// NewLocalID returns a client-generated identifier that stays stable
// for the authoring session.
func NewLocalID() string {
	return uuid.NewString()
}

// AttachedVideo returns a copy of v marked as uploaded. The remote id
// and playback URL are both required, which keeps the Uploaded flag
// honest.
func AttachedVideo(v VideoRef, remoteID, playbackURL string) VideoRef {
	v.RemoteID = remoteID
	v.PlaybackURL = playbackURL
	v.Uploaded = remoteID != "" && playbackURL != ""
	return v
}

// ClearUpload returns a copy of v with any upload result discarded.
// The selected file path stays so the author can retry without
// picking the file again.
func ClearUpload(v VideoRef) VideoRef {
	v.Uploaded = false
	v.RemoteID = ""
	v.PlaybackURL = ""
	return v
}

// Clone deep-copies the draft, including its unit and lesson lists.
func (d CourseDraft) Clone() CourseDraft {
	d.Units = CloneUnits(d.Units)
	d.Lessons = CloneLessons(d.Lessons)
	return d
}

// CloneUnits returns a new slice with copies of every unit.
func CloneUnits(units []Unit) []Unit {
	if units == nil {
		return nil
	}
	out := make([]Unit, len(units))
	copy(out, units)
	return out
}

// CloneLessons returns a new slice with copies of every lesson,
// including each lesson's VideoRef.
func CloneLessons(lessons []Lesson) []Lesson {
	if lessons == nil {
		return nil
	}
	out := make([]Lesson, len(lessons))
	for i, l := range lessons {
		if l.Video != nil {
			v := *l.Video
			l.Video = &v
		}
		out[i] = l
	}
	return out
}

// RenumberUnits returns a copy of units with Order rewritten to a
// contiguous 1..N sequence, preserving the current relative order.
// Callers use it after deleting a unit.
func RenumberUnits(units []Unit) []Unit {
	out := CloneUnits(units)
	for i := range out {
		out[i].Order = i + 1
	}
	return out
}

// RenumberLessons returns a copy of lessons with Order rewritten to a
// contiguous 1..N sequence per owning unit, preserving relative order.
func RenumberLessons(lessons []Lesson) []Lesson {
	out := CloneLessons(lessons)
	next := map[string]int{}
	for i := range out {
		next[out[i].UnitLocalID]++
		out[i].Order = next[out[i].UnitLocalID]
	}
	return out
}

// LessonsForUnit filters lessons owned by the given unit.
func LessonsForUnit(lessons []Lesson, unitLocalID string) []Lesson {
	var out []Lesson
	for _, l := range lessons {
		if l.UnitLocalID == unitLocalID {
			out = append(out, l)
		}
	}
	return out
}

// SplitLines turns free text into a line-delimited array, trimming
// whitespace and dropping blank lines. Used for outcomes and topics
// at submit time.
func SplitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}
