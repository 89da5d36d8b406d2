package wizard

import (
	"strings"
	"testing"

	"course-publisher/internal/domain"
)

func completeDraft() domain.CourseDraft {
	return domain.CourseDraft{
		Variant:     domain.VariantPaid,
		Title:       "Intro to Go",
		Description: "A course",
		StartDate:   "2024-01-01",
		EndDate:     "2024-02-01",
		Price:       49.99,
		Outcomes:    "write Go\nread Go",
		Topics:      "go\nbasics",
		Units: []domain.Unit{
			{LocalID: "u1", Title: "Unit 1", Description: "Basics", Order: 1},
		},
		Lessons: []domain.Lesson{
			{LocalID: "l1", UnitLocalID: "u1", Title: "Lesson 1", Description: "Hello", Order: 1},
		},
	}
}

func TestCanAdvanceCompleteDraft(t *testing.T) {
	d := completeDraft()
	for _, step := range []Step{StepBasicInfo, StepLearningDetails, StepPricing, StepUnits, StepLessons} {
		if err := CanAdvance(step, d); err != nil {
			t.Errorf("step %d blocked on complete draft: %v", step, err)
		}
	}
}

func TestBasicInfoRules(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*domain.CourseDraft)
		wantMsg string
	}{
		{"missing title", func(d *domain.CourseDraft) { d.Title = "" }, "title is required"},
		{"missing description", func(d *domain.CourseDraft) { d.Description = "" }, "description is required"},
		{"missing start date", func(d *domain.CourseDraft) { d.StartDate = "" }, "start date is required"},
		{"missing end date", func(d *domain.CourseDraft) { d.EndDate = "" }, "end date is required"},
		{"bad date format", func(d *domain.CourseDraft) { d.StartDate = "01/02/2024" }, "format"},
		{
			// end date 2024-01-01 before start date 2024-02-01
			"end before start",
			func(d *domain.CourseDraft) { d.StartDate = "2024-02-01"; d.EndDate = "2024-01-01" },
			"end date must not be before the start date",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := completeDraft()
			tc.mutate(&d)
			err := CanAdvance(StepBasicInfo, d)
			if err == nil {
				t.Fatal("expected gate to block")
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Errorf("message = %q, want it to contain %q", err.Error(), tc.wantMsg)
			}
		})
	}
}

func TestLearningDetailsRules(t *testing.T) {
	d := completeDraft()
	d.Outcomes = ""
	if err := CanAdvance(StepLearningDetails, d); err == nil {
		t.Error("expected block on empty outcomes")
	}

	d = completeDraft()
	d.Topics = ""
	if err := CanAdvance(StepLearningDetails, d); err == nil {
		t.Error("expected block on empty topics")
	}
}

func TestPricingOnlyAppliesToPaidVariant(t *testing.T) {
	d := completeDraft()
	d.Price = 0
	if err := CanAdvance(StepPricing, d); err == nil {
		t.Error("paid variant with zero price should block")
	}

	d.Variant = domain.VariantFree
	if err := CanAdvance(StepPricing, d); err != nil {
		t.Errorf("free variant should skip the pricing gate, got %v", err)
	}
}

func TestUnitsRules(t *testing.T) {
	d := completeDraft()
	d.Units = nil
	if err := CanAdvance(StepUnits, d); err == nil {
		t.Error("expected block when there are no units")
	}

	d = completeDraft()
	d.Units[0].Description = ""
	err := CanAdvance(StepUnits, d)
	if err == nil || !strings.Contains(err.Error(), "unit 1") {
		t.Errorf("expected message naming the unit, got %v", err)
	}
}

func TestLessonsRulesByVariant(t *testing.T) {
	// paid variant requires at least one lesson
	d := completeDraft()
	d.Lessons = nil
	if err := CanAdvance(StepLessons, d); err == nil {
		t.Error("paid variant without lessons should block")
	}

	// free variant allows zero lessons
	d.Variant = domain.VariantFree
	if err := CanAdvance(StepLessons, d); err != nil {
		t.Errorf("free variant without lessons should pass, got %v", err)
	}

	// but a present lesson still needs its fields
	d.Lessons = []domain.Lesson{{LocalID: "l1", UnitLocalID: "u1", Title: "", Description: "x", Order: 1}}
	if err := CanAdvance(StepLessons, d); err == nil {
		t.Error("incomplete lesson should block even for the free variant")
	}
}

func TestGateNeverMutatesDraft(t *testing.T) {
	d := completeDraft()
	d.Title = ""
	_ = CanAdvance(StepBasicInfo, d)
	if d.Description != "A course" || len(d.Units) != 1 {
		t.Errorf("gate mutated the draft: %+v", d)
	}
}
