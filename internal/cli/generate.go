package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"gitdeck.app/cli/common/llm"
	"gitdeck.app/cli/common/logger"
	"gitdeck.app/cli/core/config"
	"gitdeck.app/cli/internal/author"
	"gitdeck.app/cli/internal/deck"
	"gitdeck.app/cli/internal/fallback"
	"gitdeck.app/cli/internal/gitrepo"
	"gitdeck.app/cli/internal/model"
	"gitdeck.app/cli/internal/narrative"
	"gitdeck.app/cli/internal/pipeline"
	"gitdeck.app/cli/internal/preview"
	"gitdeck.app/cli/internal/store"
	"gitdeck.app/cli/internal/styles"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a slide deck from commit history",
	Long: `Reads commits from the repository (the last N, or everything from
--from up to HEAD), plans a narrative over them, and writes slides.md
into the output directory.`,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.String("out", "slides", "Output directory for the deck")
	f.String("theme", "default", "Slidev theme written into the deck frontmatter")
	f.Bool("skip-ai", false, "Skip the language model and render deterministically")
	f.String("style", styles.DefaultName, "Style preset: professional, storytelling, or technical")
	f.String("style-file", "", "YAML file defining a custom style (overrides --style)")
	f.String("config", "", "Project config file (default <repo>/"+config.ProjectFileName+")")
	f.String("from", "", "Starting commit (inclusive); the deck covers it up to HEAD")
	f.Int("last", 10, "Number of recent commits to cover when --from is absent")
	f.String("focus", "", "Aspect of the work the deck should emphasize")
	f.String("audience", "", "Who the deck is for (e.g. stakeholders, engineers)")
	f.Bool("deep-dive", false, "Go deeper into technical detail")
	f.Bool("metrics", false, "Call out change statistics on slides")
	f.Bool("challenges", false, "Give problems and fixes their own space")
	f.Int("team-size", 0, "Team size to mention, 0 leaves it out")
	f.Bool("open", false, "Launch the Slidev preview after writing the deck")
	f.Int("port", 3030, "Preview port used with --open")
}

// generateOptions is the merged flag/project-config view runGenerate
// works from.
type generateOptions struct {
	Repo      string
	Out       string
	Theme     string
	SkipAI    bool
	Style     string
	StyleFile string
	From      string
	Last      int
	Open      bool
	Port      int
	Modifiers styles.Options
}

// generateDeps carries everything generateDeck calls out to, so tests
// can substitute a canned repository reader.
type generateDeps struct {
	reader   *gitrepo.Reader
	llmCfg   config.LLMConfig
	storeCfg config.StoreConfig
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Setup(cfg)

	opts, err := collectGenerateOptions(cmd)
	if err != nil {
		return err
	}

	// Interrupts stop the pipeline between segments; no partial deck
	// is ever written.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := generateDeps{
		reader:   gitrepo.NewReader(opts.Repo, gitrepo.ExecCommandRunner{}),
		llmCfg:   cfg.LLM,
		storeCfg: cfg.Store,
	}

	path, err := generateDeck(ctx, deps, opts)
	if err != nil {
		return err
	}
	fmt.Println("Deck written to", path)

	if opts.Open {
		endpoint, err := preview.Launch(ctx, filepath.Dir(path), opts.Port)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Warning: preview not started:", err)
			return nil
		}
		fmt.Println("Preview at", endpoint)
	}
	return nil
}

// collectGenerateOptions merges flags over the project config file.
// Flags the user set explicitly always win; the project file only fills
// in what was left at its default.
func collectGenerateOptions(cmd *cobra.Command) (generateOptions, error) {
	f := cmd.Flags()

	configPath, _ := f.GetString("config")
	project, err := loadProject(configPath)
	if err != nil {
		return generateOptions{}, err
	}

	opts := generateOptions{Repo: repoPath}
	opts.Out, _ = f.GetString("out")
	opts.Theme, _ = f.GetString("theme")
	opts.SkipAI, _ = f.GetBool("skip-ai")
	opts.Style, _ = f.GetString("style")
	opts.StyleFile, _ = f.GetString("style-file")
	opts.From, _ = f.GetString("from")
	opts.Last, _ = f.GetInt("last")
	opts.Open, _ = f.GetBool("open")
	opts.Port, _ = f.GetInt("port")
	opts.Modifiers.Focus, _ = f.GetString("focus")
	opts.Modifiers.Audience, _ = f.GetString("audience")
	opts.Modifiers.DeepDive, _ = f.GetBool("deep-dive")
	opts.Modifiers.Metrics, _ = f.GetBool("metrics")
	opts.Modifiers.Challenges, _ = f.GetBool("challenges")
	opts.Modifiers.TeamSize, _ = f.GetInt("team-size")

	if !f.Changed("out") && project.Out != "" {
		opts.Out = project.Out
	}
	if !f.Changed("theme") && project.Theme != "" {
		opts.Theme = project.Theme
	}
	if !f.Changed("style") && project.Style != "" {
		opts.Style = project.Style
	}
	if !f.Changed("focus") && project.Focus != "" {
		opts.Modifiers.Focus = project.Focus
	}
	if !f.Changed("audience") && project.Audience != "" {
		opts.Modifiers.Audience = project.Audience
	}
	if !f.Changed("team-size") && project.TeamSize > 0 {
		opts.Modifiers.TeamSize = project.TeamSize
	}

	return opts, nil
}

// loadProject resolves the project config: an explicit --config path must
// exist, the conventional file in the repo root may be absent.
func loadProject(explicit string) (config.Project, error) {
	if explicit != "" {
		return config.LoadProject(explicit, true)
	}
	return config.LoadProject(filepath.Join(repoPath, config.ProjectFileName), false)
}

// generateDeck reads the commit range, builds the deck, and writes it.
// Reading happens before the writer touches the output directory, so a
// bad starting commit leaves no file behind.
func generateDeck(ctx context.Context, deps generateDeps, opts generateOptions) (string, error) {
	var commits []model.Commit
	var err error
	if opts.From != "" {
		commits, err = deps.reader.ListRange(ctx, opts.From)
	} else {
		commits, err = deps.reader.ListLast(ctx, opts.Last)
	}
	if err != nil {
		return "", err
	}

	d, err := buildDeck(ctx, deps, opts, commits)
	if err != nil {
		return "", err
	}

	writer, err := deck.NewWriter(opts.Out)
	if err != nil {
		return "", err
	}
	return writer.Write(*d)
}

// buildDeck picks the generation path. --skip-ai renders deterministically;
// a configured capability runs the full pipeline; a missing credential
// without --skip-ai is the user's call to make, so it errors rather than
// silently downgrading the deck.
func buildDeck(ctx context.Context, deps generateDeps, opts generateOptions, commits []model.Commit) (*model.SlideDeck, error) {
	if opts.SkipAI {
		slog.InfoContext(ctx, "AI generation skipped, rendering deterministic deck", "commits", len(commits))
		d := fallback.Render(commits)
		d.Theme = opts.Theme
		return &d, nil
	}

	if !deps.llmCfg.Enabled() {
		return nil, &author.CapabilityUnavailableError{
			Reason: "no API key configured; set OPENAI_API_KEY (or ANTHROPIC_API_KEY with GITDECK_LLM_PROVIDER=anthropic), or pass --skip-ai",
		}
	}

	client, err := llm.NewClient(llm.Config{
		Provider:  deps.llmCfg.Provider,
		APIKey:    deps.llmCfg.APIKey,
		BaseURL:   deps.llmCfg.BaseURL,
		Model:     deps.llmCfg.Model,
		MaxTokens: deps.llmCfg.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("configuring LLM client: %w", err)
	}

	style, err := resolveStyle(opts)
	if err != nil {
		return nil, err
	}

	var transcripts store.TranscriptStore
	if deps.storeCfg.Enabled() {
		ts, err := store.NewSQLiteTranscriptStore(deps.storeCfg.Path)
		if err != nil {
			slog.WarnContext(ctx, "transcript store unavailable, continuing without recording", "error", err)
		} else {
			defer ts.Close()
			transcripts = ts
		}
	}

	generator := author.NewSlideWriter(client, style, opts.Modifiers, opts.Theme)
	orch := pipeline.NewOrchestrator(pipeline.Config{
		Theme:        opts.Theme,
		OverallTheme: opts.Modifiers.Focus,
		Model:        client.Model(),
	}, generator, author.NewFormatter(), author.NewValidator(), transcripts)

	segments := narrative.Plan(commits)
	return orch.Run(ctx, segments)
}

// resolveStyle picks the prompt template: an explicit file wins, then the
// named preset, then the default. Unknown preset names fall back rather
// than fail; a bad file path is an error because the user typed it.
func resolveStyle(opts generateOptions) (styles.Style, error) {
	if opts.StyleFile != "" {
		return styles.LoadFile(opts.StyleFile)
	}
	registry := styles.NewRegistry(styles.Defaults()...)
	return registry.Lookup(opts.Style), nil
}
