package draft

import (
	"fmt"
	"sync"

	"course-publisher/internal/domain"
)

// Field names a top-level CourseDraft field that Update can replace.
type Field string

const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldStartDate   Field = "startDate"
	FieldEndDate     Field = "endDate"
	FieldPublic      Field = "public"
	FieldPrice       Field = "price"
	FieldOutcomes    Field = "outcomes"
	FieldTopics      Field = "topics"
	FieldRemoteID    Field = "remoteId"
	FieldUnits       Field = "units"
	FieldLessons     Field = "lessons"
)

// Store owns the CourseDraft for the authoring session. All writes go
// through Update, which replaces exactly one top-level field; the unit
// and lesson collections are deep-copied on the way in and on the way
// out, so no caller-held alias can mutate stored state and nested
// changes are always observable as fresh values.
type Store struct {
	mu sync.RWMutex
	d  domain.CourseDraft
}

func NewStore(d domain.CourseDraft) *Store {
	return &Store{d: d.Clone()}
}

// Snapshot returns an independent deep copy of the current draft.
func (s *Store) Snapshot() domain.CourseDraft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.d.Clone()
}

// Update replaces one top-level field of the draft. Collection fields
// expect the full replacement slice; partial in-place element updates
// are not exposed.
func (s *Store) Update(field Field, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked(field, value)
}

func (s *Store) updateLocked(field Field, value any) error {
	switch field {
	case FieldTitle:
		return assign(&s.d.Title, field, value)
	case FieldDescription:
		return assign(&s.d.Description, field, value)
	case FieldStartDate:
		return assign(&s.d.StartDate, field, value)
	case FieldEndDate:
		return assign(&s.d.EndDate, field, value)
	case FieldPublic:
		return assign(&s.d.Public, field, value)
	case FieldPrice:
		return assign(&s.d.Price, field, value)
	case FieldOutcomes:
		return assign(&s.d.Outcomes, field, value)
	case FieldTopics:
		return assign(&s.d.Topics, field, value)
	case FieldRemoteID:
		return assign(&s.d.RemoteID, field, value)
	case FieldUnits:
		units, ok := value.([]domain.Unit)
		if !ok {
			return fmt.Errorf("draft: field %q wants []domain.Unit, got %T", field, value)
		}
		s.d.Units = domain.CloneUnits(units)
		return nil
	case FieldLessons:
		lessons, ok := value.([]domain.Lesson)
		if !ok {
			return fmt.Errorf("draft: field %q wants []domain.Lesson, got %T", field, value)
		}
		s.d.Lessons = domain.CloneLessons(lessons)
		return nil
	default:
		return fmt.Errorf("draft: unknown field %q", field)
	}
}

func assign[T any](dst *T, field Field, value any) error {
	v, ok := value.(T)
	if !ok {
		return fmt.Errorf("draft: field %q wants %T, got %T", field, *dst, value)
	}
	*dst = v
	return nil
}

// Typed wrappers. They exist so call sites stay readable; every one of
// them funnels through the same Update path.

func (s *Store) SetTitle(v string) error       { return s.Update(FieldTitle, v) }
func (s *Store) SetDescription(v string) error { return s.Update(FieldDescription, v) }
func (s *Store) SetStartDate(v string) error   { return s.Update(FieldStartDate, v) }
func (s *Store) SetEndDate(v string) error     { return s.Update(FieldEndDate, v) }
func (s *Store) SetPublic(v bool) error        { return s.Update(FieldPublic, v) }
func (s *Store) SetPrice(v float64) error      { return s.Update(FieldPrice, v) }
func (s *Store) SetOutcomes(v string) error    { return s.Update(FieldOutcomes, v) }
func (s *Store) SetTopics(v string) error      { return s.Update(FieldTopics, v) }

func (s *Store) SetUnits(units []domain.Unit) error       { return s.Update(FieldUnits, units) }
func (s *Store) SetLessons(lessons []domain.Lesson) error { return s.Update(FieldLessons, lessons) }

// SetCourseRemoteID records the persisted course id on the draft.
func (s *Store) SetCourseRemoteID(id string) error { return s.Update(FieldRemoteID, id) }

// ReplaceUnitRemoteID builds the full replacement unit list under the
// store lock, so concurrent writers cannot lose each other's updates,
// and applies it through the same Update path.
func (s *Store) ReplaceUnitRemoteID(localID, remoteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	units := domain.CloneUnits(s.d.Units)
	for i := range units {
		if units[i].LocalID == localID {
			units[i].RemoteID = remoteID
			return s.updateLocked(FieldUnits, units)
		}
	}
	return fmt.Errorf("draft: unknown unit %q", localID)
}

// ReplaceLessonRemoteID records the persisted lesson id, read-modify-
// write under the store lock.
func (s *Store) ReplaceLessonRemoteID(localID, remoteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lessons := domain.CloneLessons(s.d.Lessons)
	for i := range lessons {
		if lessons[i].LocalID == localID {
			lessons[i].RemoteID = remoteID
			return s.updateLocked(FieldLessons, lessons)
		}
	}
	return fmt.Errorf("draft: unknown lesson %q", localID)
}

// ReplaceLessonVideo writes one lesson's video fields in a single
// atomic replacement of the lesson collection. The upload pipeline
// uses it for its commit step; concurrent uploads of different
// lessons serialize here instead of clobbering each other.
func (s *Store) ReplaceLessonVideo(localID string, v domain.VideoRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lessons := domain.CloneLessons(s.d.Lessons)
	for i := range lessons {
		if lessons[i].LocalID == localID {
			vc := v
			lessons[i].Video = &vc
			return s.updateLocked(FieldLessons, lessons)
		}
	}
	return fmt.Errorf("draft: unknown lesson %q", localID)
}

// Reset destroys the draft. Called after a successful publish or when
// the author abandons the flow.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.d = domain.CourseDraft{}
}
