package author

import (
	"errors"
	"fmt"
	"strings"

	"gitdeck.app/cli/internal/model"
)

var (
	ErrResidualMarkers    = errors.New("content contains bare alias-style markers")
	ErrMalformedNesting   = errors.New("block elements run together without blank lines")
	ErrBlankTitle         = errors.New("title is blank")
	ErrBlankContent       = errors.New("content is blank")
	ErrPlaceholderContent = errors.New("content is only placeholder text")
	ErrMissingRightColumn = errors.New("two-cols layout has no right column content")
	ErrUnknownLayout      = errors.New("unknown layout")
)

// Validator decides whether a formatted slide can enter the deck.
type Validator interface {
	Validate(record model.SlideRecord) model.ValidationResult
}

type slideValidator struct{}

// NewValidator returns the deck's slide validator.
func NewValidator() Validator { return slideValidator{} }

// Validate runs every check and reports all failures at once; the
// pipeline regenerates on any failure, so a complete issue list makes
// the retry log actually useful. Recommendations never fail a slide.
func (v slideValidator) Validate(record model.SlideRecord) model.ValidationResult {
	var issues []string
	collect := func(err error) {
		if err != nil {
			issues = append(issues, err.Error())
		}
	}

	collect(v.validateMarkers(record))
	collect(v.validateNesting(record))
	for _, err := range v.validateSubstance(record) {
		collect(err)
	}
	collect(v.validateLayout(record))

	return model.ValidationResult{
		IsValid:         len(issues) == 0,
		Issues:          issues,
		Recommendations: v.recommend(record),
	}
}

func (slideValidator) validateMarkers(r model.SlideRecord) error {
	if hasBreakingMarkers(r.Content) || hasBreakingMarkers(r.RightContent) {
		return ErrResidualMarkers
	}
	return nil
}

func (slideValidator) validateNesting(r model.SlideRecord) error {
	if hasNestedBlocks(r.Content) || hasNestedBlocks(r.RightContent) {
		return ErrMalformedNesting
	}
	return nil
}

func (slideValidator) validateSubstance(r model.SlideRecord) []error {
	var errs []error
	if strings.TrimSpace(r.Title) == "" {
		errs = append(errs, ErrBlankTitle)
	}
	switch {
	case strings.TrimSpace(r.Content) == "":
		errs = append(errs, ErrBlankContent)
	case isPlaceholder(r.Content):
		errs = append(errs, ErrPlaceholderContent)
	}
	return errs
}

func (slideValidator) validateLayout(r model.SlideRecord) error {
	switch r.Layout {
	case model.LayoutDefault, model.LayoutCenter, model.LayoutCover:
		return nil
	case model.LayoutTwoCols:
		if strings.TrimSpace(r.RightContent) == "" {
			return ErrMissingRightColumn
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownLayout, r.Layout)
	}
}

// maxComfortableContent is roughly where a slide body stops fitting a
// projected slide without shrinking the font.
const maxComfortableContent = 900

func (slideValidator) recommend(r model.SlideRecord) []string {
	var recs []string
	if len(r.Content) > maxComfortableContent {
		recs = append(recs, "content is long for a single slide; consider trimming")
	}
	if n := countListItems(r.Content); n > 8 {
		recs = append(recs, fmt.Sprintf("%d bullets on one slide; consider splitting", n))
	}
	return recs
}

func countListItems(content string) int {
	n := 0
	for _, line := range strings.Split(content, "\n") {
		if listItemPattern.MatchString(line) {
			n++
		}
	}
	return n
}

// placeholderTokens are whole-content stand-ins a model emits when it has
// nothing to say. Matched against the trimmed, lowercased content.
var placeholderTokens = map[string]struct{}{
	"tbd":               {},
	"todo":              {},
	"n/a":               {},
	"...":               {},
	"placeholder":       {},
	"content goes here": {},
}

func isPlaceholder(content string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(content))
	if _, ok := placeholderTokens[trimmed]; ok {
		return true
	}
	return strings.Contains(trimmed, "lorem ipsum")
}
