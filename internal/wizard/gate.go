package wizard

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"course-publisher/internal/domain"
)

// Step identifies a wizard step whose gate must pass before the
// author can advance.
type Step int

const (
	StepBasicInfo Step = iota + 1
	StepLearningDetails
	StepPricing
	StepUnits
	StepLessons
)

var validate = validator.New()

// per-step rule structs; field names feed the user-facing messages
type basicInfoRules struct {
	Title       string `validate:"required"`
	Description string `validate:"required"`
	StartDate   string `validate:"required"`
	EndDate     string `validate:"required"`
}

type learningDetailsRules struct {
	Outcomes string `validate:"required"`
	Topics   string `validate:"required"`
}

type unitRules struct {
	Title       string `validate:"required"`
	Description string `validate:"required"`
}

type lessonRules struct {
	Title       string `validate:"required"`
	Description string `validate:"required"`
}

// messages maps a rule struct field to what the author sees.
var messages = map[string]string{
	"Title":       "title is required",
	"Description": "description is required",
	"StartDate":   "start date is required",
	"EndDate":     "end date is required",
	"Outcomes":    "learning outcomes are required",
	"Topics":      "topics are required",
}

// CanAdvance checks the gate for one wizard step. A nil return means
// the step is complete and the wizard may advance; otherwise the error
// carries a user-facing message. The draft is never mutated.
func CanAdvance(step Step, d domain.CourseDraft) error {
	switch step {
	case StepBasicInfo:
		return checkBasicInfo(d)
	case StepLearningDetails:
		return checkStruct(learningDetailsRules{Outcomes: d.Outcomes, Topics: d.Topics}, "")
	case StepPricing:
		return checkPricing(d)
	case StepUnits:
		return checkUnits(d)
	case StepLessons:
		return checkLessons(d)
	default:
		return fmt.Errorf("unknown wizard step %d", step)
	}
}

func checkBasicInfo(d domain.CourseDraft) error {
	rules := basicInfoRules{
		Title:       d.Title,
		Description: d.Description,
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
	}
	if err := checkStruct(rules, ""); err != nil {
		return err
	}

	start, err := time.Parse(domain.DateLayout, d.StartDate)
	if err != nil {
		return fmt.Errorf("start date must use the %s format", domain.DateLayout)
	}
	end, err := time.Parse(domain.DateLayout, d.EndDate)
	if err != nil {
		return fmt.Errorf("end date must use the %s format", domain.DateLayout)
	}
	if end.Before(start) {
		return fmt.Errorf("end date must not be before the start date")
	}
	return nil
}

func checkPricing(d domain.CourseDraft) error {
	// only the paid variant carries a price step
	if d.Variant != domain.VariantPaid {
		return nil
	}
	if d.Price <= 0 {
		return fmt.Errorf("a price greater than zero is required")
	}
	return nil
}

func checkUnits(d domain.CourseDraft) error {
	if len(d.Units) == 0 {
		return fmt.Errorf("add at least one unit")
	}
	for _, u := range d.Units {
		rules := unitRules{Title: u.Title, Description: u.Description}
		if err := checkStruct(rules, fmt.Sprintf("unit %d: ", u.Order)); err != nil {
			return err
		}
	}
	return nil
}

func checkLessons(d domain.CourseDraft) error {
	if d.Variant == domain.VariantPaid && len(d.Lessons) == 0 {
		return fmt.Errorf("add at least one lesson")
	}
	// the free variant allows zero lessons, but any lesson present
	// still needs its basic fields
	for _, l := range d.Lessons {
		rules := lessonRules{Title: l.Title, Description: l.Description}
		if err := checkStruct(rules, fmt.Sprintf("lesson %d: ", l.Order)); err != nil {
			return err
		}
	}
	return nil
}

func checkStruct(rules any, prefix string) error {
	err := validate.Struct(rules)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err
	}
	msg, ok := messages[verrs[0].Field()]
	if !ok {
		msg = fmt.Sprintf("%s is invalid", verrs[0].Field())
	}
	return fmt.Errorf("%s%s", prefix, msg)
}
