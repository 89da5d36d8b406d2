package upload

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"course-publisher/internal/apperr"
	"course-publisher/internal/concurrency"
	"course-publisher/internal/domain"
	"course-publisher/internal/draft"
	"course-publisher/internal/logging"
	"course-publisher/internal/providers/lms"
	"course-publisher/internal/providers/stream"
)

// MaxVideoBytes is the upload ceiling: 2 GiB.
const MaxVideoBytes = int64(2) << 30

// DefaultEmbedTemplate builds the playable URL from library and video
// identifiers.
const DefaultEmbedTemplate = "https://iframe.mediadelivery.net/embed/%s/%s"

// allowedMediaTypes is the fixed allow-list of video formats, keyed by
// file extension.
var allowedMediaTypes = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/mp4",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
}

// SlotCreator is the one backend call the pipeline makes.
type SlotCreator interface {
	CreateVideoSlot(ctx context.Context, title string) (lms.Slot, error)
}

// Pipeline runs the three-phase upload protocol for one lesson at a
// time: slot request, binary transfer, local commit. Different lessons
// may run concurrently; the StateMap entry is the only state they
// share.
type Pipeline struct {
	Slots         SlotCreator
	Transport     Transport
	Store         *draft.Store
	States        *StateMap
	EmbedTemplate string
	MaxBytes      int64 // 0 means MaxVideoBytes
	Log           *zap.SugaredLogger
}

func (p *Pipeline) maxBytes() int64 {
	if p.MaxBytes > 0 {
		return p.MaxBytes
	}
	return MaxVideoBytes
}

func (p *Pipeline) embedTemplate() string {
	if p.EmbedTemplate != "" {
		return p.EmbedTemplate
	}
	return DefaultEmbedTemplate
}

func (p *Pipeline) log() *zap.SugaredLogger {
	if p.Log != nil {
		return p.Log
	}
	return logging.Nop()
}

// ValidateSource checks the selected file against the media-type
// allow-list and the size ceiling. It runs before any network call.
func ValidateSource(name string, size, max int64) error {
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := allowedMediaTypes[ext]; !ok {
		return apperr.New("unsupported video format", fmt.Errorf("extension %q not in allow-list", ext))
	}
	if size > max {
		return apperr.New("video file exceeds the 2 GiB limit", fmt.Errorf("size=%d max=%d", size, max))
	}
	return nil
}

// UploadLesson moves the lesson's selected video to the streaming
// origin and commits the result into the draft store. On any failure
// the lesson keeps its selected file so the author can retry without
// reselecting it, and Uploaded stays (or is reset to) false.
func (p *Pipeline) UploadLesson(ctx context.Context, lesson domain.Lesson) error {
	v := lesson.Video
	if v == nil || v.FilePath == "" {
		return apperr.New("select a video file first", nil)
	}

	info, err := os.Stat(v.FilePath)
	if err != nil {
		return apperr.New("could not read the selected video file", err)
	}
	if err := ValidateSource(v.FilePath, info.Size(), p.maxBytes()); err != nil {
		return err
	}

	// phase 1: slot request
	slot, err := p.Slots.CreateVideoSlot(ctx, lesson.Title)
	if err != nil {
		p.log().Errorw("video slot creation failed", "lesson", lesson.LocalID, "err", err)
		return apperr.New("could not prepare the video upload", err)
	}
	if slot.UploadURL == "" {
		err := errors.New("slot response has no upload url")
		p.log().Errorw("video slot creation failed", "lesson", lesson.LocalID, "err", err)
		return apperr.New("could not prepare the video upload", err)
	}

	// phase 2: binary transfer
	f, err := os.Open(v.FilePath)
	if err != nil {
		return apperr.New("could not read the selected video file", err)
	}
	defer f.Close()

	tracker := NewTracker(info.Size())
	p.States.Set(lesson.LocalID, Progress{})
	defer p.States.Clear(lesson.LocalID)

	err = p.Transport.Send(ctx, slot, f, info.Size(), func(sent int64) {
		p.States.Set(lesson.LocalID, tracker.Sample(sent))
	})
	if err != nil {
		p.log().Errorw("video transfer failed", "lesson", lesson.LocalID, "video", slot.VideoID, "err", err)
		if serr := p.Store.ReplaceLessonVideo(lesson.LocalID, domain.ClearUpload(*v)); serr != nil {
			p.log().Errorw("could not reset lesson video", "lesson", lesson.LocalID, "err", serr)
		}
		return apperr.New("video upload failed, please try again", err)
	}

	// phase 3: local commit, one atomic write
	committed := *v
	if committed.FileName == "" {
		committed.FileName = filepath.Base(v.FilePath)
	}
	committed = domain.AttachedVideo(committed, slot.VideoID, stream.EmbedURL(p.embedTemplate(), slot.LibraryID.String(), slot.VideoID))
	if err := p.Store.ReplaceLessonVideo(lesson.LocalID, committed); err != nil {
		return apperr.New("could not record the uploaded video", err)
	}

	p.log().Infow("video uploaded", "lesson", lesson.LocalID, "video", slot.VideoID, "bytes", info.Size())
	return nil
}

// PendingLessons filters lessons that have a selected file but no
// completed upload.
func PendingLessons(lessons []domain.Lesson) []domain.Lesson {
	var out []domain.Lesson
	for _, l := range lessons {
		if l.Video != nil && l.Video.FilePath != "" && !l.Video.Uploaded {
			out = append(out, l)
		}
	}
	return out
}

// UploadAll runs the pipeline for every pending lesson with a bounded
// worker pool. One lesson failing does not stop the others.
func (p *Pipeline) UploadAll(ctx context.Context, lessons []domain.Lesson, maxWorkers int) []error {
	pending := PendingLessons(lessons)
	return concurrency.ForEach(ctx, pending, concurrency.Options{MaxWorkers: maxWorkers},
		func(ctx context.Context, _ int, l domain.Lesson) error {
			if err := p.UploadLesson(ctx, l); err != nil {
				return fmt.Errorf("lesson %q: %w", l.Title, err)
			}
			return nil
		})
}
