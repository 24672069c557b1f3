package main

import (
	"errors"
	"fmt"

	"github.com/MMMikeM/DND-Campaign-sub000/pkg/leaselock"

	"github.com/spf13/cobra"
)

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Compute embeddings for every npc, faction and quest",
	Long: `Embed the text of every searchable entity and store it in the vector index
used by the semantic search tier. Requires AI_ADAPTER and, for Postgres, the
entity_embeddings migration.

Examples:
  AI_ADAPTER=openai AI_EMBED_MODEL=text-embedding-3-large tomectl --database-url $DATABASE_URL embed`,
	Args: cobra.NoArgs,
	RunE: runEmbed,
}

func init() {
	rootCmd.AddCommand(embedCmd)
}

func runEmbed(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	n, err := s.backend.Index(cmd.Context(), s.cfg, s.embedder, s.log)
	if errors.Is(err, leaselock.ErrBusy) {
		return errors.New("another embed run is in progress")
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d documents into the %s store.\n", n, s.backend.Kind)
	return nil
}
