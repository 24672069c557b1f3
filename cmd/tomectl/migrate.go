package main

import (
	"errors"

	"github.com/MMMikeM/DND-Campaign-sub000/internal/storage"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

var migrateOpts storage.MigrateOptions

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the Postgres schema",
	Long: `Create or update the campaign tables, the search_fuzzy_combined function and
the embedding table. Migrations are embedded in the binary unless --dir is
given.

Examples:
  tomectl --database-url $DATABASE_URL migrate
  tomectl --database-url $DATABASE_URL migrate --steps -1`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().StringVar(&migrateOpts.Dir, "dir", "", "Read migrations from this directory")
	migrateCmd.Flags().IntVar(&migrateOpts.Steps, "steps", 0, "Migrate n steps, negative to roll back")
	migrateCmd.Flags().BoolVar(&migrateOpts.Down, "down", false, "Roll back every migration")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return errors.New("migrate needs --database-url or DATABASE_URL")
	}
	return storage.Migrate(log, cfg.DatabaseURL, migrateOpts)
}
