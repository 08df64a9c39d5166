package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/alifhakimiazwan/RateMyCitra/pkg/config"
	"github.com/alifhakimiazwan/RateMyCitra/pkg/logger"
)

func main() {
	cfg, err := config.LoadWithoutDatabase()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &appContext{cfg: cfg, logger: logr}
	root := newRootCommand(
		newImportCommand(app),
		newMigrateCommand(app),
		newIssueTokenCommand(app),
	)
	if err := root.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
