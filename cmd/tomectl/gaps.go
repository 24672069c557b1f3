package main

import (
	"io"

	"github.com/MMMikeM/DND-Campaign-sub000/pkg/gaps"

	"github.com/spf13/cobra"
)

var gapsCmd = &cobra.Command{
	Use:   "gaps [domain]",
	Short: "Report underdeveloped areas of the campaign",
	Long: `Analyse the world for missing categories, thin relationship networks and
entities not tied into any storyline.

Domains: factions, npcs, quests, conflicts. Without a domain every report is
printed, computed over one snapshot of the world.

Examples:
  tomectl gaps
  tomectl gaps factions --format json`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"factions", "npcs", "quests", "conflicts"},
	RunE:      runGaps,
}

func init() {
	rootCmd.AddCommand(gapsCmd)
}

func runGaps(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	var reports []gaps.Report
	if len(args) == 1 {
		r, err := s.svc.Gaps(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		reports = []gaps.Report{r}
	} else {
		reports, err = s.svc.AllGaps(cmd.Context())
		if err != nil {
			return err
		}
	}

	var v any = reports
	if len(reports) == 1 {
		v = reports[0]
	}
	return render(cmd.OutOrStdout(), outputFormat, v, func(w io.Writer) {
		for _, r := range reports {
			writeReport(w, r)
		}
	})
}
