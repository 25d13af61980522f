// Package styles holds the prompt templates that shape generated decks.
// A style turns commit material into the style-specific part of the
// generation prompt; the registry is an immutable name-to-style mapping
// injected where needed, never ambient state.
package styles

import (
	"fmt"
	"sort"
	"strings"

	"gitdeck.app/cli/internal/model"
)

// DefaultName is used whenever no style is named or the name is unknown.
const DefaultName = "professional"

// Options are the inline presentation modifiers the CLI accepts.
type Options struct {
	Focus      string
	Audience   string
	DeepDive   bool
	Metrics    bool
	Challenges bool
	TeamSize   int
}

// Request carries everything a style template may draw on.
type Request struct {
	Theme           string
	CommitDigest    string
	CategorizedWork map[model.CommitCategory]int
	Commits         []model.Commit
	Options         Options
}

// Style renders the style-specific portion of a generation prompt.
type Style interface {
	Name() string
	BuildPrompt(req Request) string
}

// Registry maps style names to templates. Built once, read-only after.
type Registry struct {
	styles map[string]Style
}

// NewRegistry builds a registry over the given styles. Defaults()
// provides the built-in set.
func NewRegistry(list ...Style) *Registry {
	m := make(map[string]Style, len(list))
	for _, s := range list {
		m[s.Name()] = s
	}
	return &Registry{styles: m}
}

// Defaults returns the built-in styles.
func Defaults() []Style {
	return []Style{professionalStyle{}, storytellingStyle{}, technicalStyle{}}
}

// Lookup resolves a style by name, falling back to the default style for
// an empty or unknown name.
func (r *Registry) Lookup(name string) Style {
	if s, ok := r.styles[name]; ok {
		return s
	}
	return r.styles[DefaultName]
}

// Names lists the registered style names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.styles))
	for n := range r.styles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

type professionalStyle struct{}

func (professionalStyle) Name() string { return "professional" }

func (professionalStyle) BuildPrompt(req Request) string {
	var sb strings.Builder
	sb.WriteString("Voice: professional and outcome-focused, suitable for a sprint review.\n")
	sb.WriteString("Favor concrete achievements over process detail. Keep bullets short.\n\n")
	writeWorkSummary(&sb, req.CategorizedWork)
	writeDigest(&sb, req.CommitDigest)
	writeOptions(&sb, req.Options)
	return sb.String()
}

type storytellingStyle struct{}

func (storytellingStyle) Name() string { return "storytelling" }

func (storytellingStyle) BuildPrompt(req Request) string {
	var sb strings.Builder
	sb.WriteString("Voice: narrative and warm. Tell the story of the work as a journey\n")
	sb.WriteString("with momentum: what sparked it, what changed, where it landed.\n\n")
	writeWorkSummary(&sb, req.CategorizedWork)
	writeDigest(&sb, req.CommitDigest)
	writeOptions(&sb, req.Options)
	return sb.String()
}

type technicalStyle struct{}

func (technicalStyle) Name() string { return "technical" }

func (technicalStyle) BuildPrompt(req Request) string {
	var sb strings.Builder
	sb.WriteString("Voice: precise and technical, written for engineers.\n")
	sb.WriteString("Name the components touched and the shape of each change; skip hype.\n\n")
	writeWorkSummary(&sb, req.CategorizedWork)
	writeDigest(&sb, req.CommitDigest)
	if req.Options.Metrics {
		sb.WriteString("Include line and file counts where the commit stats support them.\n")
	}
	writeOptions(&sb, req.Options)
	return sb.String()
}

// categoryOrder fixes the rendering order of categorized work so prompts
// are reproducible.
var categoryOrder = []model.CommitCategory{
	model.CategoryFeature,
	model.CategoryBugfix,
	model.CategoryRefactor,
	model.CategoryDocs,
	model.CategoryTest,
	model.CategoryConfig,
	model.CategoryGeneral,
}

func writeWorkSummary(sb *strings.Builder, work map[model.CommitCategory]int) {
	if len(work) == 0 {
		return
	}
	sb.WriteString("Work in this segment:\n")
	for _, cat := range categoryOrder {
		if n := work[cat]; n > 0 {
			fmt.Fprintf(sb, "- %s: %d commit(s)\n", cat, n)
		}
	}
	sb.WriteString("\n")
}

func writeDigest(sb *strings.Builder, digest string) {
	if digest == "" {
		return
	}
	sb.WriteString("Commits:\n")
	sb.WriteString(digest)
	sb.WriteString("\n")
}

func writeOptions(sb *strings.Builder, opts Options) {
	if opts.Focus != "" {
		fmt.Fprintf(sb, "Put extra weight on %s.\n", opts.Focus)
	}
	if opts.Audience != "" {
		fmt.Fprintf(sb, "The audience is %s; pitch the language for them.\n", opts.Audience)
	}
	if opts.DeepDive {
		sb.WriteString("Go one level deeper than a summary; include implementation specifics.\n")
	}
	if opts.Metrics {
		sb.WriteString("Quote the aggregate stats (files, insertions, deletions) where relevant.\n")
	}
	if opts.Challenges {
		sb.WriteString("Call out difficulties that were overcome, not just outcomes.\n")
	}
	if opts.TeamSize > 0 {
		fmt.Fprintf(sb, "This work was carried by a team of %d.\n", opts.TeamSize)
	}
}
