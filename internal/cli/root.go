// Package cli wires the gitdeck command tree. Commands stay thin:
// flag handling and dependency wiring live here, behavior lives in the
// packages the commands call.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	repoPath string
	rootCmd  *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "gitdeck",
		Short: "Turn git commit history into a narrative slide deck",
		Long: `gitdeck reads a range of commit history and writes a Slidev deck that
tells its story.

Slides are written by a language model with schema-constrained output,
bounded retries, and validation; with --skip-ai a deterministic renderer
builds the deck from the commits alone. Generating without an API key
configured is an error unless --skip-ai is passed, so you always know
which kind of deck you are getting.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&repoPath, "repo", ".", "Path to the git repository to read")
}

// Execute runs the root command.
func Execute(version string) error {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(previewCmd)

	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
