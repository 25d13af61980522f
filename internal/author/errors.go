package author

import (
	"fmt"

	"gitdeck.app/cli/internal/model"
)

// CapabilityUnavailableError means the generation capability cannot be
// used at all for this run (no credential, disabled). The CLI reports it
// with both remedies: configure a credential, or request the deterministic
// deck explicitly with --skip-ai.
type CapabilityUnavailableError struct {
	Reason string
}

func (e *CapabilityUnavailableError) Error() string {
	return fmt.Sprintf("generation capability unavailable: %s", e.Reason)
}

// SchemaError reports a capability response that did not conform to the
// slide schema. Contained to one segment; the orchestrator retries it.
type SchemaError struct {
	Stage model.GenerationStage
	Err   error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: response does not match slide schema: %v", e.Stage, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// CapabilityCallError reports a failed capability round-trip. Contained to
// one segment; Retryable only shapes logging, the orchestrator's attempt
// bound applies either way.
type CapabilityCallError struct {
	Stage     model.GenerationStage
	Err       error
	Retryable bool
}

func (e *CapabilityCallError) Error() string {
	return fmt.Sprintf("%s: capability call failed: %v", e.Stage, e.Err)
}

func (e *CapabilityCallError) Unwrap() error { return e.Err }

func newRetryableCallError(stage model.GenerationStage, err error) *CapabilityCallError {
	return &CapabilityCallError{Stage: stage, Err: err, Retryable: true}
}

func newFatalCallError(stage model.GenerationStage, err error) *CapabilityCallError {
	return &CapabilityCallError{Stage: stage, Err: err, Retryable: false}
}
