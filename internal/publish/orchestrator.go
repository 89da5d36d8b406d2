package publish

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"course-publisher/internal/apperr"
	"course-publisher/internal/domain"
	"course-publisher/internal/draft"
	"course-publisher/internal/logging"
	"course-publisher/internal/providers/lms"
	"course-publisher/internal/session"
)

// Backend is the slice of the course API the orchestrator needs.
// *lms.Client satisfies it; tests use a fake.
type Backend interface {
	CreateCourse(ctx context.Context, req lms.CreateCourseRequest) (string, error)
	ListCourses(ctx context.Context, limit int) ([]lms.CourseSummary, error)
	CreateUnit(ctx context.Context, req lms.CreateUnitRequest) (string, error)
	ListUnits(ctx context.Context, courseID string) ([]lms.UnitSummary, error)
	CreateLesson(ctx context.Context, req lms.CreateLessonRequest) (string, error)
	AttachVideo(ctx context.Context, lessonID, videoID string) error
}

// Warning is a per-entity, non-blocking publish problem.
type Warning struct {
	Entity  string
	Message string
}

// Report is what a publish run produced. CourseID is handed back here
// so every interested caller reads it from owned state instead of an
// ambient broadcast.
type Report struct {
	CourseID       string
	UnitsCreated   int
	LessonsCreated int
	VideosAttached int
	Warnings       []Warning
	Pending        []string // lessons whose video upload is still outstanding
}

func (r *Report) warn(entity, message string) {
	r.Warnings = append(r.Warnings, Warning{Entity: entity, Message: message})
}

// Clean reports whether the run finished with nothing left over: no
// warnings and no lessons waiting on a video.
func (r *Report) Clean() bool {
	return len(r.Warnings) == 0 && len(r.Pending) == 0
}

// Orchestrator turns a validated draft into persisted remote records:
// course, then units, then lessons with their videos attached. Phases
// run strictly in sequence and items within a phase one at a time, so
// the local-to-remote id map is complete before anything relies on it.
type Orchestrator struct {
	Store    *draft.Store
	Backend  Backend
	Sessions session.Repository
	Log      *zap.SugaredLogger
}

func (o *Orchestrator) log() *zap.SugaredLogger {
	if o.Log != nil {
		return o.Log
	}
	return logging.Nop()
}

func resumeKey(draftID string) string {
	return "course:" + draftID
}

// Publish runs the full sequence. A course-phase failure aborts with
// an error and leaves the resume pointer untouched; unit and lesson
// failures accumulate as warnings on the report instead. The resume
// pointer is cleared only when the run reaches the end.
func (o *Orchestrator) Publish(ctx context.Context) (*Report, error) {
	d := o.Store.Snapshot()
	report := &Report{}

	courseID, err := o.ensureCourse(ctx, d)
	if err != nil {
		return nil, err
	}
	report.CourseID = courseID

	unitIDs := o.publishUnits(ctx, courseID, d.Units, report)
	o.publishLessons(ctx, courseID, d.Lessons, unitIDs, report)

	if err := o.Sessions.Clear(resumeKey(d.ID)); err != nil {
		o.log().Warnw("could not clear resume pointer", "draft", d.ID, "err", err)
	}
	return report, nil
}

// ensureCourse resolves the remote course id: from the draft, from the
// resume pointer, or by creating the course. A create response without
// an id triggers a best-effort recovery against the course list; if
// that fails too, the publish is fatally aborted.
func (o *Orchestrator) ensureCourse(ctx context.Context, d domain.CourseDraft) (string, error) {
	if d.RemoteID != "" {
		return d.RemoteID, nil
	}

	key := resumeKey(d.ID)
	if id, err := o.Sessions.Get(key); err != nil {
		o.log().Warnw("resume pointer read failed", "draft", d.ID, "err", err)
	} else if id != "" {
		o.log().Infow("reusing course from resume pointer", "draft", d.ID, "course", id)
		return id, nil
	}

	id, err := o.Backend.CreateCourse(ctx, buildCourseRequest(d))
	if err != nil {
		o.log().Errorw("course creation failed", "draft", d.ID, "err", err)
		return "", apperr.New("the course could not be created", err)
	}
	if id == "" {
		// compatibility shim: some deployments omit the id in the
		// create response, so fish it out of the most recent listing
		id, err = o.recoverCourseID(ctx, d.Title)
		if err != nil {
			o.log().Errorw("course id recovery failed", "draft", d.ID, "err", err)
			return "", apperr.New("the course could not be created", err)
		}
	}

	if err := o.Sessions.Set(key, id); err != nil {
		o.log().Warnw("could not persist resume pointer", "draft", d.ID, "err", err)
	}
	if err := o.Store.SetCourseRemoteID(id); err != nil {
		o.log().Warnw("could not record course id on draft", "draft", d.ID, "err", err)
	}
	o.log().Infow("course created", "draft", d.ID, "course", id)
	return id, nil
}

func (o *Orchestrator) recoverCourseID(ctx context.Context, title string) (string, error) {
	courses, err := o.Backend.ListCourses(ctx, 10)
	if err != nil {
		return "", fmt.Errorf("recovery listing failed: %w", err)
	}
	want := strings.TrimSpace(title)
	for _, c := range courses {
		if strings.EqualFold(strings.TrimSpace(c.Title), want) && c.ID.String() != "" {
			return c.ID.String(), nil
		}
	}
	return "", fmt.Errorf("no course titled %q in the most recent listing", title)
}

// publishUnits creates the units that still need it and returns the
// complete local-to-remote id map, including units persisted earlier.
func (o *Orchestrator) publishUnits(ctx context.Context, courseID string, units []domain.Unit, report *Report) map[string]string {
	ids := make(map[string]string, len(units))

	for _, u := range units {
		if u.RemoteID != "" {
			ids[u.LocalID] = u.RemoteID
			continue
		}

		remoteID, err := o.Backend.CreateUnit(ctx, lms.CreateUnitRequest{
			Course:      courseID,
			Title:       u.Title,
			Description: u.Description,
			Order:       u.Order,
		})
		if err != nil {
			o.log().Errorw("unit creation failed", "unit", u.LocalID, "title", u.Title, "err", err)
			report.warn(u.Title, fmt.Sprintf("unit %q could not be saved", u.Title))
			continue
		}

		ids[u.LocalID] = remoteID
		report.UnitsCreated++
		if err := o.Store.ReplaceUnitRemoteID(u.LocalID, remoteID); err != nil {
			o.log().Warnw("could not record unit id on draft", "unit", u.LocalID, "err", err)
		}
	}
	return ids
}

// publishLessons submits every lesson whose video already passed the
// upload pipeline; the rest are reported as pending, not failed.
func (o *Orchestrator) publishLessons(ctx context.Context, courseID string, lessons []domain.Lesson, unitIDs map[string]string, report *Report) {
	for _, l := range lessons {
		if l.Video == nil || !l.Video.Uploaded {
			report.Pending = append(report.Pending, l.Title)
			continue
		}
		if l.RemoteID != "" {
			// persisted on an earlier run; never submit twice
			continue
		}

		unitID, ok := unitIDs[l.UnitLocalID]
		if !ok {
			unitID, ok = o.reloadUnitID(ctx, courseID, l, unitIDs)
		}
		if !ok {
			report.warn(l.Title, fmt.Sprintf("lesson %q has no saved unit yet", l.Title))
			continue
		}

		lessonID, err := o.Backend.CreateLesson(ctx, lms.CreateLessonRequest{
			Unit:        unitID,
			Title:       l.Title,
			Description: l.Description,
			Outcomes:    l.Outcomes,
			Order:       l.Order,
		})
		if err != nil {
			o.log().Errorw("lesson creation failed", "lesson", l.LocalID, "title", l.Title, "err", err)
			report.warn(l.Title, fmt.Sprintf("lesson %q could not be saved", l.Title))
			continue
		}
		report.LessonsCreated++
		if err := o.Store.ReplaceLessonRemoteID(l.LocalID, lessonID); err != nil {
			o.log().Warnw("could not record lesson id on draft", "lesson", l.LocalID, "err", err)
		}

		if err := o.Backend.AttachVideo(ctx, lessonID, l.Video.RemoteID); err != nil {
			o.log().Errorw("video attach failed", "lesson", l.LocalID, "video", l.Video.RemoteID, "err", err)
			report.warn(l.Title, fmt.Sprintf("the video for lesson %q could not be attached", l.Title))
			continue
		}
		report.VideosAttached++
	}
}

// reloadUnitID rebuilds a missing mapping from the backend, matching
// on the unit order the draft assigned. The refreshed entries land in
// the shared map so later lessons skip the extra listing.
func (o *Orchestrator) reloadUnitID(ctx context.Context, courseID string, l domain.Lesson, unitIDs map[string]string) (string, bool) {
	d := o.Store.Snapshot()
	var owner *domain.Unit
	for i := range d.Units {
		if d.Units[i].LocalID == l.UnitLocalID {
			owner = &d.Units[i]
			break
		}
	}
	if owner == nil {
		return "", false
	}

	remote, err := o.Backend.ListUnits(ctx, courseID)
	if err != nil {
		o.log().Warnw("unit reload failed", "course", courseID, "err", err)
		return "", false
	}
	for _, ru := range remote {
		if ru.Order == owner.Order && strings.EqualFold(strings.TrimSpace(ru.Title), strings.TrimSpace(owner.Title)) {
			unitIDs[l.UnitLocalID] = ru.ID.String()
			return ru.ID.String(), true
		}
	}
	return "", false
}

func buildCourseRequest(d domain.CourseDraft) lms.CreateCourseRequest {
	req := lms.CreateCourseRequest{
		Title:       d.Title,
		Description: d.Description,
		Outcomes:    domain.SplitLines(d.Outcomes),
		Topics:      domain.SplitLines(d.Topics),
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
		Public:      d.Public,
	}
	if d.Variant == domain.VariantPaid {
		req.Price = d.Price
	}
	return req
}
