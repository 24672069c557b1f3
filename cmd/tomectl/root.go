package main

import (
	"github.com/MMMikeM/DND-Campaign-sub000/internal/config"
	"github.com/MMMikeM/DND-Campaign-sub000/internal/storage"
	"github.com/MMMikeM/DND-Campaign-sub000/internal/util"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/ai"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/campaign"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/logger"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/logger/console"

	"github.com/spf13/cobra"
)

var (
	dataFile     string
	databaseURL  string
	debug        bool
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "tomectl",
	Short: "Inspect a campaign world: entity search, gap analysis and faction suggestions",
	Long: `tomectl runs the campaign engine against a JSON world file or a Postgres
database.

Examples:
  tomectl --data world.json search "Elena" --type npcs
  tomectl --data world.json gaps factions
  tomectl --database-url postgres://localhost/campaign suggest "Gilded Scale" --type trade
  tomectl --database-url postgres://localhost/campaign migrate`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataFile, "data", "", "JSON world file (overrides DATA_FILE)")
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "Postgres connection string (overrides DATABASE_URL)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "human", "Output format (human, json)")
}

// session is the state shared by the commands of one invocation.
type session struct {
	cfg      config.Config
	log      *logger.Logger
	backend  *storage.Backend
	embedder ai.Embedder
	svc      *campaign.Service
}

func (s *session) Close() {
	s.backend.Close()
}

func newLogger(cmd *cobra.Command, cfg config.Config) *logger.Logger {
	return logger.New(console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug:  debug || cfg.Debug,
		Output: cmd.ErrOrStderr(),
	}))
}

// loadConfig reads .env and the environment, then applies the flags.
func loadConfig(cmd *cobra.Command) (config.Config, *logger.Logger, error) {
	util.LoadEnv(newLogger(cmd, config.Default()))
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	if dataFile != "" {
		cfg.DataFile = dataFile
	}
	if databaseURL != "" {
		cfg.DatabaseURL = databaseURL
		if dataFile == "" {
			cfg.DataFile = ""
		}
	}
	return cfg, newLogger(cmd, cfg), nil
}

func openSession(cmd *cobra.Command) (*session, error) {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	backend, err := storage.Open(cmd.Context(), cfg, log)
	if err != nil {
		return nil, err
	}
	embedder, err := cfg.Embedder(log)
	if err != nil {
		backend.Close()
		return nil, err
	}
	return &session{
		cfg:      cfg,
		log:      log,
		backend:  backend,
		embedder: embedder,
		svc:      backend.Service(cfg, embedder, log),
	}, nil
}
