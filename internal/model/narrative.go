package model

type SegmentRole string

type FocusLabel string

const (
	RoleTitle      SegmentRole = "title"
	RoleContent    SegmentRole = "content"
	RoleConclusion SegmentRole = "conclusion"
)

const (
	FocusOpening             FocusLabel = "opening"
	FocusEarlyDevelopment    FocusLabel = "early-development"
	FocusDevelopmentProgress FocusLabel = "development-progress"
	FocusRecentChanges       FocusLabel = "recent-changes"
	FocusSummary             FocusLabel = "summary"
)

// NarrativeSegment is one planned unit of the deck and maps to exactly one
// final slide. Content segments carry a contiguous slice of the commit
// range; title and conclusion segments carry no commits.
type NarrativeSegment struct {
	Role       SegmentRole `json:"role"`
	FocusLabel FocusLabel  `json:"focus_label"`
	Commits    []Commit    `json:"commits,omitempty"`
}

// SegmentSummary is a bounded digest of an accepted segment, fed into
// subsequent generation calls for narrative continuity.
type SegmentSummary struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// NarrativeContext is the state the orchestrator threads through one deck's
// generation. Previous holds at most the two most recent accepted segment
// summaries. The orchestrator owns it exclusively and discards it once the
// deck completes.
type NarrativeContext struct {
	OverallTheme  string
	Previous      []SegmentSummary
	SegmentIndex  int
	TotalSegments int
	IsFirst       bool
	IsLast        bool
}
