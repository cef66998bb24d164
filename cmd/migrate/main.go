// Command migrate copies a local JSON snapshot into the configured store,
// creating credentials for every user row that carries a password.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"communityhub/internal/adapter/repository"
	"communityhub/internal/app"
	"communityhub/internal/usecase"
	"communityhub/pkg/config"
	"communityhub/pkg/logger"
)

func main() {
	file := pflag.StringP("file", "f", "db.json", "snapshot to import")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration: %v", err)
		os.Exit(1)
	}
	logger.Init(os.Stderr, cfg.LogLevel, cfg.Environment)

	in, err := os.Open(*file)
	if err != nil {
		logger.Error("Failed to open snapshot: %v", err)
		os.Exit(1)
	}
	defer in.Close()

	snap, err := usecase.ParseSnapshot(in)
	if err != nil {
		logger.Error("Failed to parse %s: %v", *file, err)
		os.Exit(1)
	}

	ctx := context.Background()
	backends, err := app.Open(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize backends: %v", err)
		os.Exit(1)
	}
	defer backends.Store.Close()

	importer := usecase.NewImportUseCase(
		repository.NewUserRepository(backends.Store),
		repository.NewPostRepository(backends.Store),
		repository.NewRequestRepository(backends.Store),
		repository.NewChatRepository(backends.Store),
		repository.NewFeedbackRepository(backends.Store),
		backends.Credentials,
	)

	summary := importer.Import(ctx, snap)
	fmt.Printf("users     %d/%d\n", summary.Users.Migrated, summary.Users.Total)
	fmt.Printf("posts     %d/%d\n", summary.Posts.Migrated, summary.Posts.Total)
	fmt.Printf("requests  %d/%d\n", summary.Requests.Migrated, summary.Requests.Total)
	fmt.Printf("chat      %d/%d\n", summary.Chat.Migrated, summary.Chat.Total)
	fmt.Printf("feedback  %d/%d\n", summary.Feedback.Migrated, summary.Feedback.Total)

	if failed := summary.Failed(); failed > 0 {
		logger.Error("%d records failed to import", failed)
		backends.Store.Close()
		os.Exit(1)
	}
	logger.Info("Migration complete")
}
