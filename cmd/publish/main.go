package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"course-publisher/internal/apperr"
	"course-publisher/internal/config"
	"course-publisher/internal/draft"
	"course-publisher/internal/draftfile"
	"course-publisher/internal/logging"
	"course-publisher/internal/providers/lms"
	"course-publisher/internal/publish"
	"course-publisher/internal/session"
	"course-publisher/internal/sftpclient"
	"course-publisher/internal/upload"
	"course-publisher/internal/wizard"
)

// publish takes a complete draft through the full sequence: gate
// checks, pending video uploads, then course/unit/lesson creation.

func main() {
	var (
		draftPath = flag.String("draft", "course.draft", "draft file to publish")
		checkOnly = flag.Bool("check", false, "validate the draft and exit")
	)
	flag.Parse()

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

	steps := []wizard.Step{
		wizard.StepBasicInfo,
		wizard.StepLearningDetails,
		wizard.StepPricing,
		wizard.StepUnits,
		wizard.StepLessons,
	}
	for _, step := range steps {
		if err := wizard.CanAdvance(step, store.Snapshot()); err != nil {
			fmt.Println("BLOCKED:", err)
			os.Exit(1)
		}
	}
	if *checkOnly {
		fmt.Println("OK: draft is complete")
		return
	}

	client := lms.New(cfg.LMSBaseURL, cfg.LMSToken)

	pipe := &upload.Pipeline{
		Slots:         client,
		Transport:     transportFor(cfg),
		Store:         store,
		States:        upload.NewStateMap(),
		EmbedTemplate: cfg.EmbedURLTemplate,
		Log:           logger,
	}
	if errs := pipe.UploadAll(ctx, store.Snapshot().Lessons, cfg.MaxConcurrentUploads); len(errs) > 0 {
		// failed uploads leave their lessons pending; publish continues
		for _, err := range errs {
			fmt.Println("WARN:", err)
		}
	}

	orch := &publish.Orchestrator{
		Store:    store,
		Backend:  client,
		Sessions: session.NewFileRepository(cfg.SessionFile),
		Log:      logger,
	}

	report, err := orch.Publish(ctx)
	if err != nil {
		// keep the draft (and the resume pointer) so a retry is cheap
		if serr := draftfile.Save(*draftPath, store.Snapshot()); serr != nil {
			logger.Errorw("could not save draft after failure", "err", serr)
		}
		fmt.Println("ERROR:", apperr.Message(err))
		os.Exit(1)
	}

	printReport(report)

	if report.Clean() {
		if err := draftfile.Remove(*draftPath); err != nil {
			logger.Warnw("could not remove finished draft", "err", err)
		}
		fmt.Println("OK: publish complete, draft removed")
		return
	}
	if err := draftfile.Save(*draftPath, store.Snapshot()); err != nil {
		log.Fatalf("save draft: %v", err)
	}
	fmt.Println("OK: publish finished with leftovers, draft kept for retry")
}

func printReport(r *publish.Report) {
	fmt.Printf("course %s: %d units created, %d lessons created, %d videos attached\n",
		r.CourseID, r.UnitsCreated, r.LessonsCreated, r.VideosAttached)
	for _, w := range r.Warnings {
		fmt.Println("WARN:", w.Message)
	}
	for _, title := range r.Pending {
		fmt.Printf("PENDING: lesson %q has no uploaded video yet, it can be completed later\n", title)
	}
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
