package author

import (
	"fmt"
	"strings"

	"gitdeck.app/cli/internal/model"
	"gitdeck.app/cli/internal/styles"
)

// DigestCommits renders a commit range one line per commit for prompt
// embedding: short hash, subject, net line movement.
func DigestCommits(commits []model.Commit) string {
	var sb strings.Builder
	for _, c := range commits {
		fmt.Fprintf(&sb, "- %s %s (+%d/-%d)\n", c.ShortID(), c.Message, c.Stats.Insertions, c.Stats.Deletions)
	}
	return sb.String()
}

// CategorizeWork tallies commits per category.
func CategorizeWork(commits []model.Commit) map[model.CommitCategory]int {
	work := make(map[model.CommitCategory]int, len(commits))
	for _, c := range commits {
		work[c.Category]++
	}
	return work
}

func (w *slideWriter) buildPrompt(seg model.NarrativeSegment, nctx model.NarrativeContext) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Write slide %d of %d.\n", nctx.SegmentIndex+1, nctx.TotalSegments)
	fmt.Fprintf(&sb, "Role: %s. Focus: %s.\n", seg.Role, seg.FocusLabel)

	switch seg.Role {
	case model.RoleTitle:
		sb.WriteString("This is the opening slide: name the deck, set the scene in one subtitle line, use the cover layout.\n")
	case model.RoleConclusion:
		sb.WriteString("This is the closing slide: land the story and point at what comes next, use the center layout.\n")
	default:
		sb.WriteString("This is a content slide: cover the commits below as one beat of the story.\n")
	}
	sb.WriteString("\n")

	if nctx.OverallTheme != "" {
		fmt.Fprintf(&sb, "Deck theme: %s\n\n", nctx.OverallTheme)
	}

	if len(nctx.Previous) > 0 {
		sb.WriteString("Slides already written, for continuity:\n")
		for _, prev := range nctx.Previous {
			fmt.Fprintf(&sb, "- %q: %s\n", prev.Title, prev.Content)
		}
		sb.WriteString("\n")
	}

	sb.WriteString(w.style.BuildPrompt(styles.Request{
		Theme:           w.theme,
		CommitDigest:    DigestCommits(seg.Commits),
		CategorizedWork: CategorizeWork(seg.Commits),
		Commits:         seg.Commits,
		Options:         w.opts,
	}))

	return sb.String()
}

const slideSystemPrompt = `You write one slide of a slide deck that presents a range of git commits as a narrative.

Each request describes a single slide: its position in the deck, its role (title, content, or conclusion), and the commits it covers. Earlier slides may be quoted for continuity; do not repeat them, build on them.

## Slide fields

- title: short headline, no trailing punctuation
- subtitle: one supporting line, or empty string
- layout: "cover" for the opening slide, "center" for the conclusion, "default" for content, "two-cols" only when genuinely contrasting two things
- content: the markdown body; prefer short bullet lists over paragraphs
- right_content: the right column when layout is two-cols, empty string otherwise
- notes: optional speaker notes, empty string when none

## Markdown rules

- Emphasis markers come in pairs: **bold**, *italic*. Never open one without closing it.
- Never start a line with a single asterisk followed by a word; that is not a list item.
- List items start with "- ".
- Put a blank line between a heading, a list, and a paragraph.
- No code fences around the whole body.

## Voice

- Concrete over generic: name the things that changed.
- One idea per bullet.
- No filler ("in this slide we will see").`
