// Package narrative partitions an ordered commit range into deck segments.
// The plan is deterministic: one title segment, a clamped number of content
// segments holding contiguous commit slices, and one conclusion segment.
package narrative

import "gitdeck.app/cli/internal/model"

const (
	minSlides       = 5
	maxSlides       = 8
	commitsPerSlide = 3
)

// Plan lays out the segments for a non-empty commit range, oldest commit
// first. Total segment count is clamp(ceil(n/3), 5, 8); the content
// segments split the range into contiguous slices of ceil(n/contentCount)
// commits, so trailing segments may run short or empty for small ranges.
func Plan(commits []model.Commit) []model.NarrativeSegment {
	n := len(commits)
	if n == 0 {
		return nil
	}

	total := clamp(ceilDiv(n, commitsPerSlide), minSlides, maxSlides)
	contentCount := total - 2
	if contentCount < 1 {
		contentCount = 1
	}
	sliceSize := ceilDiv(n, contentCount)

	segments := make([]model.NarrativeSegment, 0, contentCount+2)
	segments = append(segments, model.NarrativeSegment{
		Role:       model.RoleTitle,
		FocusLabel: model.FocusOpening,
	})
	for i := 0; i < contentCount; i++ {
		start := min(i*sliceSize, n)
		end := min(start+sliceSize, n)
		segments = append(segments, model.NarrativeSegment{
			Role:       model.RoleContent,
			FocusLabel: contentFocus(i, contentCount),
			Commits:    commits[start:end],
		})
	}
	segments = append(segments, model.NarrativeSegment{
		Role:       model.RoleConclusion,
		FocusLabel: model.FocusSummary,
	})
	return segments
}

func contentFocus(i, count int) model.FocusLabel {
	switch {
	case i == 0:
		return model.FocusEarlyDevelopment
	case i == count-1:
		return model.FocusRecentChanges
	default:
		return model.FocusDevelopmentProgress
	}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
