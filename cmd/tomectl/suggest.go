package main

import (
	"io"

	"github.com/MMMikeM/DND-Campaign-sub000/pkg/suggest"

	"github.com/spf13/cobra"
)

var suggestHints suggest.Hints

var suggestCmd = &cobra.Command{
	Use:   "suggest <name>",
	Short: "Suggest allies, rivals, territory and hooks for a new faction",
	Long: `Derive relationship suggestions for a faction that is about to be created.
Every hint is optional. Existing factions with a similar name are listed so
duplicates can be caught before creation.

Examples:
  tomectl suggest "Gilded Scale" --type trade --alignment "lawful neutral"
  tomectl suggest "Ash Wardens" --location "anvil ward" --role enemy`,
	Args: cobra.ExactArgs(1),
	RunE: runSuggest,
}

func init() {
	suggestCmd.Flags().StringVar(&suggestHints.TypeHint, "type", "", "Faction type (military, religious, trade, criminal, ...)")
	suggestCmd.Flags().StringVar(&suggestHints.LocationHint, "location", "", "Where the faction is based or operates")
	suggestCmd.Flags().StringVar(&suggestHints.AlignmentHint, "alignment", "", "Alignment preference")
	suggestCmd.Flags().StringVar(&suggestHints.RoleHint, "role", "", "Role in the campaign (ally, enemy, neutral, ...)")
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	hints := suggestHints
	hints.Name = args[0]
	fc, err := s.svc.SuggestFaction(cmd.Context(), hints)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), outputFormat, fc, func(w io.Writer) { writeFactionContext(w, fc) })
}
