package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/MMMikeM/DND-Campaign-sub000/internal/config"
	"github.com/MMMikeM/DND-Campaign-sub000/internal/server"
	"github.com/MMMikeM/DND-Campaign-sub000/internal/util"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/logger"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/logger/console"

	_ "github.com/lib/pq"
)

func main() {
	bootLog := logger.New(console.NewConsoleLogger(console.ConsoleLoggerParams{}))
	util.LoadEnv(bootLog)

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("Failed to load configuration", "err", err)
	}

	log := logger.New(console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: cfg.Debug,
		JSON:  cfg.LogJSON,
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, cfg, log); err != nil {
		log.Fatal("Server stopped", "err", err)
	}
}
