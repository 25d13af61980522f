package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"gitdeck.app/cli/internal/gitrepo"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent commits to pick a starting point from",
	Long: `Prints the most recent commits, newest first. Pass one of the hashes
to "gitdeck generate --from" to cover everything from that commit up to
HEAD.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().Int("count", 20, "Number of commits to show")
}

func runList(cmd *cobra.Command, args []string) error {
	count, _ := cmd.Flags().GetInt("count")

	reader := gitrepo.NewReader(repoPath, gitrepo.ExecCommandRunner{})
	summaries, err := reader.ListRecentCommits(cmd.Context(), count)
	if err != nil {
		return err
	}

	for _, s := range summaries {
		fmt.Printf("%s  %s  %-20s %s\n",
			s.ShortID,
			s.Timestamp.Format("2006-01-02 15:04"),
			s.Author,
			s.Subject)
	}
	return nil
}
