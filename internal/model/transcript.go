package model

import "time"

type GenerationStage string

const (
	StageGenerate GenerationStage = "generate"
	StageFormat   GenerationStage = "format"
	StageValidate GenerationStage = "validate"
	StageFallback GenerationStage = "fallback"
)

// GenerationRecord is one capability attempt captured for offline review.
// Recording is observability, not critical path: the pipeline works the
// same with no transcript store configured.
type GenerationRecord struct {
	ID               int64
	RunID            int64
	SegmentIndex     int
	Role             SegmentRole
	Stage            GenerationStage
	Attempt          int
	Model            string
	InputText        string
	OutputJSON       []byte
	Valid            bool
	Issues           []string
	LatencyMs        *int
	PromptTokens     *int
	CompletionTokens *int
	CreatedAt        time.Time
}
