package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"course-publisher/internal/apperr"
	"course-publisher/internal/config"
	"course-publisher/internal/domain"
	"course-publisher/internal/draft"
	"course-publisher/internal/draftfile"
	"course-publisher/internal/logging"
	"course-publisher/internal/providers/lms"
	"course-publisher/internal/sftpclient"
	"course-publisher/internal/upload"
)

// uploadvideo runs the upload pipeline for one lesson of a draft and
// writes the result back into the draft file.

func main() {
	var (
		draftPath = flag.String("draft", "course.draft", "draft file to work on")
		lessonID  = flag.String("lesson", "", "local id of the lesson")
		file      = flag.String("file", "", "video file to select for the lesson (optional if already selected)")
	)
	flag.Parse()

	if *lessonID == "" {
		log.Fatal("missing -lesson")
	}

	cfg := config.Load()
	logger, err := logging.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	d, err := draftfile.Load(*draftPath)
	if err != nil {
		log.Fatalf("load draft: %v", err)
	}
	store := draft.NewStore(d)

	if *file != "" {
		v := domain.VideoRef{FilePath: *file, FileName: filepath.Base(*file)}
		if err := store.ReplaceLessonVideo(*lessonID, v); err != nil {
			log.Fatalf("select video: %v", err)
		}
	}

	var lesson *domain.Lesson
	for _, l := range store.Snapshot().Lessons {
		if l.LocalID == *lessonID {
			lesson = &l
			break
		}
	}
	if lesson == nil {
		log.Fatalf("no lesson %q in draft", *lessonID)
	}

	states := upload.NewStateMap()
	pipe := &upload.Pipeline{
		Slots:         lms.New(cfg.LMSBaseURL, cfg.LMSToken),
		Transport:     transportFor(cfg),
		Store:         store,
		States:        states,
		EmbedTemplate: cfg.EmbedURLTemplate,
		Log:           logger,
	}

	done := make(chan struct{})
	go printProgress(states, *lessonID, done)

	uploadErr := pipe.UploadLesson(ctx, *lesson)
	close(done)
	fmt.Println()

	if err := draftfile.Save(*draftPath, store.Snapshot()); err != nil {
		log.Fatalf("save draft: %v", err)
	}
	if uploadErr != nil {
		logger.Errorw("upload failed", "lesson", *lessonID, "err", uploadErr)
		fmt.Println("ERROR:", apperr.Message(uploadErr))
		os.Exit(1)
	}

	v := videoOf(store, *lessonID)
	fmt.Printf("OK: lesson %s video uploaded (id=%s)\n", *lessonID, v.RemoteID)
	fmt.Println("playback:", v.PlaybackURL)
}

func transportFor(cfg config.Config) upload.Transport {
	if cfg.VideoTransport == "sftp" {
		return &upload.SFTPTransport{Config: sftpclient.Config{
			Host:                  cfg.SFTPHost,
			Port:                  cfg.SFTPPort,
			User:                  cfg.SFTPUser,
			Pass:                  cfg.SFTPPass,
			RemoteDir:             cfg.SFTPRemoteDir,
			InsecureIgnoreHostKey: cfg.SFTPInsecureIgnoreHostKey,
		}}
	}
	return upload.NewHTTPTransport()
}

func printProgress(states *upload.StateMap, lessonID string, done <-chan struct{}) {
	t := time.NewTicker(500 * time.Millisecond)
	defer t.Stop()
	for {
		select {
		case <-done:
			return
		case <-t.C:
			p, ok := states.Get(lessonID)
			if !ok {
				continue
			}
			eta := p.ETA
			if eta == "" {
				eta = "--:--"
			}
			fmt.Printf("\r%3d%%  %8s  eta %s   ", p.Percent, humanRate(p.Throughput), eta)
		}
	}
}

func humanRate(bytesPerSec float64) string {
	switch {
	case bytesPerSec >= 1<<20:
		return fmt.Sprintf("%.1f MB/s", bytesPerSec/(1<<20))
	case bytesPerSec >= 1<<10:
		return fmt.Sprintf("%.1f KB/s", bytesPerSec/(1<<10))
	default:
		return fmt.Sprintf("%.0f B/s", bytesPerSec)
	}
}

func videoOf(store *draft.Store, lessonID string) domain.VideoRef {
	for _, l := range store.Snapshot().Lessons {
		if l.LocalID == lessonID && l.Video != nil {
			return *l.Video
		}
	}
	return domain.VideoRef{}
}
