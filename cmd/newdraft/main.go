package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"course-publisher/internal/domain"
	"course-publisher/internal/draftfile"
)

// newdraft scaffolds a draft file, or imports a plain-JSON draft and
// normalizes it (local ids, dense ordering) into the compressed format
// the other tools read.

func main() {
	var (
		out     = flag.String("out", "course.draft", "path of the draft file to write")
		from    = flag.String("from", "", "optional plain-JSON draft to import")
		title   = flag.String("title", "", "course title for a fresh draft")
		variant = flag.String("variant", string(domain.VariantFree), "course variant: free or paid")
	)
	flag.Parse()

	d := domain.CourseDraft{
		Variant: domain.Variant(*variant),
		Title:   *title,
	}

	if *from != "" {
		b, err := os.ReadFile(*from)
		if err != nil {
			log.Fatalf("read %s: %v", *from, err)
		}
		if err := json.Unmarshal(b, &d); err != nil {
			log.Fatalf("parse %s: %v", *from, err)
		}
	}

	if d.Variant != domain.VariantFree && d.Variant != domain.VariantPaid {
		log.Fatalf("unknown variant %q (want free or paid)", d.Variant)
	}

	if d.ID == "" {
		d.ID = domain.NewLocalID()
	}
	for i := range d.Units {
		if d.Units[i].LocalID == "" {
			d.Units[i].LocalID = domain.NewLocalID()
		}
	}
	for i := range d.Lessons {
		if d.Lessons[i].LocalID == "" {
			d.Lessons[i].LocalID = domain.NewLocalID()
		}
	}
	d.Units = domain.RenumberUnits(d.Units)
	d.Lessons = domain.RenumberLessons(d.Lessons)

	if err := draftfile.Save(*out, d); err != nil {
		log.Fatalf("save draft: %v", err)
	}

	fmt.Printf("OK: draft %s written to %s (%d units, %d lessons)\n", d.ID, *out, len(d.Units), len(d.Lessons))
}
