// Package fallback renders a complete deck from commit history alone, no
// capability calls. It is the whole-deck path when generation is disabled
// or unavailable, and must succeed for any non-empty range.
package fallback

import (
	"fmt"
	"strings"
	"time"

	"gitdeck.app/cli/internal/classify"
	"gitdeck.app/cli/internal/model"
)

// journeyChunk caps how many commit paragraphs share one journey slide.
const journeyChunk = 6

// Render builds the deterministic deck for a commit range, oldest first.
// It needs nothing beyond the commits themselves; the caller stamps the
// visual theme onto the returned deck.
func Render(commits []model.Commit) model.SlideDeck {
	commits = withCategories(commits)
	work := tallyWork(commits)

	deck := model.SlideDeck{Title: "Development Update"}
	deck.Slides = append(deck.Slides, titleSlide(commits))
	deck.Slides = append(deck.Slides, missionSlide(commits))
	deck.Slides = append(deck.Slides, journeySlides(commits)...)
	if work[model.CategoryBugfix] > 0 {
		deck.Slides = append(deck.Slides, challengesSlide(commits))
	}
	deck.Slides = append(deck.Slides, outcomeSlide(commits, work))
	deck.Slides = append(deck.Slides, nextSlide(work))

	return deck
}

// withCategories fills in any unclassified commits so the renderer stays
// total regardless of what the caller did upstream.
func withCategories(commits []model.Commit) []model.Commit {
	out := make([]model.Commit, len(commits))
	copy(out, commits)
	for i := range out {
		if out[i].Category == "" {
			out[i].Category = classify.Categorize(out[i].Message, out[i].FileChanges)
		}
	}
	return out
}

func tallyWork(commits []model.Commit) map[model.CommitCategory]int {
	work := make(map[model.CommitCategory]int, len(commits))
	for _, c := range commits {
		work[c.Category]++
	}
	return work
}

func titleSlide(commits []model.Commit) model.SlideRecord {
	n := len(commits)
	subtitle := fmt.Sprintf("%s of work in %d %s", dateRange(commits), n, plural(n, "commit", "commits"))
	if n == 1 {
		subtitle = fmt.Sprintf("A focused update: 1 commit on %s", dateRange(commits))
	}

	return model.SlideRecord{
		Title:    "Development Update",
		Subtitle: subtitle,
		Layout:   model.LayoutCover,
		Content:  fmt.Sprintf("A walk through %d %s of development history.", n, plural(n, "commit", "commits")),
		Notes:    "Deck rendered directly from git history.",
	}
}

func missionSlide(commits []model.Commit) model.SlideRecord {
	var files, insertions, deletions int
	authors := map[string]struct{}{}
	for _, c := range commits {
		files += c.Stats.FilesChanged
		insertions += c.Stats.Insertions
		deletions += c.Stats.Deletions
		if c.Author != "" {
			authors[c.Author] = struct{}{}
		}
	}

	var sb strings.Builder
	sb.WriteString("The scope of this stretch of work:\n\n")
	fmt.Fprintf(&sb, "- %d %s landed\n", len(commits), plural(len(commits), "commit", "commits"))
	fmt.Fprintf(&sb, "- %d %s touched\n", files, plural(files, "file", "files"))
	fmt.Fprintf(&sb, "- %d lines added, %d removed\n", insertions, deletions)
	if len(authors) > 0 {
		fmt.Fprintf(&sb, "- %d %s contributing\n", len(authors), plural(len(authors), "author", "authors"))
	}

	return model.SlideRecord{
		Title:   "The Mission",
		Layout:  model.LayoutDefault,
		Content: strings.TrimRight(sb.String(), "\n"),
	}
}

func journeySlides(commits []model.Commit) []model.SlideRecord {
	n := len(commits)
	var slides []model.SlideRecord

	for start := 0; start < n; start += journeyChunk {
		end := min(start+journeyChunk, n)

		var sb strings.Builder
		for i := start; i < end; i++ {
			c := commits[i]
			fmt.Fprintf(&sb, "%s %q (%d %s, +%d/-%d).\n\n",
				connective(i, n), c.Message,
				c.Stats.FilesChanged, plural(c.Stats.FilesChanged, "file", "files"),
				c.Stats.Insertions, c.Stats.Deletions)
		}

		title := "The Journey"
		if start > 0 {
			title = "The Journey, Continued"
		}
		slides = append(slides, model.SlideRecord{
			Title:   title,
			Layout:  model.LayoutDefault,
			Content: strings.TrimRight(sb.String(), "\n"),
		})
	}

	return slides
}

var middleConnectives = []string{
	"From there,",
	"Building on that,",
	"Along the way,",
}

// connective keys the paragraph opener to the commit's position in the
// range: first, second, and last get fixed phrases, everything between
// cycles deterministically.
func connective(i, n int) string {
	switch {
	case i == 0:
		return "The journey began with"
	case i == n-1:
		return "Most recently,"
	case i == 1:
		return "Next came"
	default:
		return middleConnectives[(i-2)%len(middleConnectives)]
	}
}

func challengesSlide(commits []model.Commit) model.SlideRecord {
	var sb strings.Builder
	sb.WriteString("Not everything went smoothly. Bugs surfaced and were run down:\n\n")
	for _, c := range commits {
		if c.Category == model.CategoryBugfix {
			fmt.Fprintf(&sb, "- %s\n", c.Message)
		}
	}
	sb.WriteString("\nEach fix left the codebase steadier than before.")

	return model.SlideRecord{
		Title:   "Challenges",
		Layout:  model.LayoutDefault,
		Content: sb.String(),
	}
}

// outcomeOrder fixes the category listing so decks are reproducible.
var outcomeOrder = []struct {
	category model.CommitCategory
	singular string
	plural   string
}{
	{model.CategoryFeature, "feature", "features"},
	{model.CategoryBugfix, "bugfix", "bugfixes"},
	{model.CategoryRefactor, "refactor", "refactors"},
	{model.CategoryDocs, "documentation change", "documentation changes"},
	{model.CategoryTest, "test improvement", "test improvements"},
	{model.CategoryConfig, "configuration change", "configuration changes"},
	{model.CategoryGeneral, "general change", "general changes"},
}

func outcomeSlide(commits []model.Commit, work map[model.CommitCategory]int) model.SlideRecord {
	var files, insertions, deletions int
	for _, c := range commits {
		files += c.Stats.FilesChanged
		insertions += c.Stats.Insertions
		deletions += c.Stats.Deletions
	}

	var sb strings.Builder
	sb.WriteString("What this range delivered:\n\n")
	for _, entry := range outcomeOrder {
		if count := work[entry.category]; count > 0 {
			fmt.Fprintf(&sb, "- %d %s\n", count, plural(count, entry.singular, entry.plural))
		}
	}
	fmt.Fprintf(&sb, "\nOverall impact: %d %s changed, +%d/-%d lines.",
		files, plural(files, "file", "files"), insertions, deletions)

	return model.SlideRecord{
		Title:   "The Outcome",
		Layout:  model.LayoutDefault,
		Content: sb.String(),
	}
}

func nextSlide(work map[model.CommitCategory]int) model.SlideRecord {
	hasFeatures := work[model.CategoryFeature] > 0
	hasChallenges := work[model.CategoryBugfix] > 0

	var content string
	switch {
	case hasFeatures && hasChallenges:
		content = "New capabilities landed and the rough edges found along the way are already smoothed out. The next step is building on both."
	case hasFeatures:
		content = "The new capabilities open the next round of work. Momentum is on our side."
	case hasChallenges:
		content = "With the known issues run down, the path is clear for the next features."
	default:
		content = "Steady groundwork continues. The next milestone is in sight."
	}

	return model.SlideRecord{
		Title:   "What's Next",
		Layout:  model.LayoutCenter,
		Content: content,
	}
}

func dateRange(commits []model.Commit) string {
	if len(commits) == 0 {
		return ""
	}

	earliest, latest := commits[0].Timestamp, commits[0].Timestamp
	for _, c := range commits[1:] {
		if c.Timestamp.Before(earliest) {
			earliest = c.Timestamp
		}
		if c.Timestamp.After(latest) {
			latest = c.Timestamp
		}
	}

	const layout = "Jan 2, 2006"
	if sameDay(earliest, latest) {
		return earliest.Format(layout)
	}
	return earliest.Format(layout) + " to " + latest.Format(layout)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func plural(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
