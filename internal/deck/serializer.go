// Package deck turns a finished SlideDeck into Slidev markup and
// persists it to disk.
package deck

import (
	"fmt"
	"strconv"
	"strings"

	"gitdeck.app/cli/internal/model"
)

// Serialize renders the deck as one Slidev markdown document. The
// opening frontmatter block doubles as deck headmatter: theme and title
// live there alongside the first slide's layout.
func Serialize(d model.SlideDeck) string {
	var sb strings.Builder

	sb.WriteString("---\n")
	if d.Theme != "" {
		fmt.Fprintf(&sb, "theme: %s\n", d.Theme)
	}
	if d.Title != "" {
		fmt.Fprintf(&sb, "title: %s\n", strconv.Quote(d.Title))
	}
	if len(d.Slides) > 0 && hasExplicitLayout(d.Slides[0]) {
		fmt.Fprintf(&sb, "layout: %s\n", d.Slides[0].Layout)
	}
	sb.WriteString("---\n")

	for i, slide := range d.Slides {
		if i > 0 {
			sb.WriteString("\n---\n")
			if hasExplicitLayout(slide) {
				fmt.Fprintf(&sb, "layout: %s\n---\n", slide.Layout)
			}
		}
		writeSlideBody(&sb, slide)
	}

	return sb.String()
}

func hasExplicitLayout(s model.SlideRecord) bool {
	return s.Layout != "" && s.Layout != model.LayoutDefault
}

func writeSlideBody(sb *strings.Builder, s model.SlideRecord) {
	var blocks []string
	if t := strings.TrimSpace(s.Title); t != "" {
		blocks = append(blocks, "# "+t)
	}
	if sub := strings.TrimSpace(s.Subtitle); sub != "" {
		blocks = append(blocks, "## "+sub)
	}
	if c := strings.TrimSpace(s.Content); c != "" {
		blocks = append(blocks, c)
	}
	if s.Layout == model.LayoutTwoCols {
		blocks = append(blocks, "::right::")
		if right := strings.TrimSpace(s.RightContent); right != "" {
			blocks = append(blocks, right)
		}
	}
	if n := strings.TrimSpace(s.Notes); n != "" {
		blocks = append(blocks, "<!--\n"+escapeNotes(n)+"\n-->")
	}

	sb.WriteString("\n")
	sb.WriteString(strings.Join(blocks, "\n\n"))
	sb.WriteString("\n")
}

// escapeNotes keeps a literal "-->" inside speaker notes from closing
// the comment block early.
func escapeNotes(s string) string {
	return strings.ReplaceAll(s, "-->", "-- >")
}
