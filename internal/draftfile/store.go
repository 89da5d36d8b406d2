package draftfile

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/andybalholm/brotli"

	"course-publisher/internal/domain"
)

// Drafts survive process restarts as brotli-compressed JSON files, so
// an abandoned-then-resumed session picks up exactly where it left
// off, remote ids included.

// Save writes the draft to path, replacing any previous version.
func Save(path string, d domain.CourseDraft) error {
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("draftfile: encode: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("draftfile: create %s: %w", path, err)
	}

	w := brotli.NewWriter(f)
	if _, err := w.Write(b); err != nil {
		f.Close()
		return fmt.Errorf("draftfile: write %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		f.Close()
		return fmt.Errorf("draftfile: flush %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("draftfile: close %s: %w", path, err)
	}
	return nil
}

// Load reads a draft previously written by Save.
func Load(path string) (domain.CourseDraft, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.CourseDraft{}, fmt.Errorf("draftfile: open %s: %w", path, err)
	}
	defer f.Close()

	var d domain.CourseDraft
	if err := json.NewDecoder(brotli.NewReader(f)).Decode(&d); err != nil {
		return domain.CourseDraft{}, fmt.Errorf("draftfile: decode %s: %w", path, err)
	}
	return d, nil
}

// Remove deletes the draft file; missing files are fine.
func Remove(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("draftfile: remove %s: %w", path, err)
	}
	return nil
}
