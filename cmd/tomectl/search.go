package main

import (
	"io"

	"github.com/MMMikeM/DND-Campaign-sub000/pkg/common"

	"github.com/spf13/cobra"
)

var (
	searchType  string
	searchLimit int
)

var searchCmd = &cobra.Command{
	Use:   "search <name>",
	Short: "Resolve a name to campaign entities",
	Long: `Resolve a free-text name to npcs, factions or quests.

Fuzzy matching (trigram, edit distance, soundex) runs first. When it finds
nothing and AI_ADAPTER is set, embedding similarity is tried next.

Examples:
  tomectl search "Elea" --type npcs
  tomectl search "iron gild" --type factions --limit 3`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchType, "type", common.TableNPCs, "Entity type (npcs, factions, quests)")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "Maximum number of results (default 5)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	res, err := s.svc.Search(cmd.Context(), args[0], searchType, searchLimit)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), outputFormat, res, func(w io.Writer) { writeSearch(w, res) })
}
