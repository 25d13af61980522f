package model

type SlideLayout string

const (
	LayoutDefault SlideLayout = "default"
	LayoutCenter  SlideLayout = "center"
	LayoutTwoCols SlideLayout = "two-cols"
	LayoutCover   SlideLayout = "cover"
)

// SlideRecord is the unit the generation capability must produce and the
// unit the deck serializer consumes. The jsonschema tags drive the strict
// response schema, so every field is required on the wire; unused optional
// fields come back as empty strings.
type SlideRecord struct {
	Title        string      `json:"title" jsonschema_description:"Slide headline, short and concrete"`
	Subtitle     string      `json:"subtitle" jsonschema_description:"One-line subheading, empty when unused"`
	Layout       SlideLayout `json:"layout" jsonschema:"enum=default,enum=center,enum=two-cols,enum=cover" jsonschema_description:"Slide layout name"`
	Content      string      `json:"content" jsonschema_description:"Markdown body of the slide"`
	RightContent string      `json:"right_content" jsonschema_description:"Right column markdown, required when layout is two-cols and empty otherwise"`
	Notes        string      `json:"notes" jsonschema_description:"Speaker notes, empty when unused"`
}

// ValidationResult reports the outcome of slide validation. Transient,
// never persisted.
type ValidationResult struct {
	IsValid         bool     `json:"is_valid"`
	Issues          []string `json:"issues,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// SlideDeck is the terminal artifact: serialized once, then discarded.
type SlideDeck struct {
	Title  string
	Theme  string
	Slides []SlideRecord
}
