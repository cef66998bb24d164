package firebase

import (
	"context"
	"fmt"
	"os"

	fbapp "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"communityhub/pkg/config"
	"communityhub/pkg/logger"
)

// ClientOption picks the service account source: inline JSON first, then a
// file path. With neither set, application default credentials apply.
func ClientOption(cfg *config.Config) ([]option.ClientOption, error) {
	if cfg.FirebaseServiceAccountJSON != "" {
		logger.Info("Using Firebase service account from environment variable")
		return []option.ClientOption{option.WithCredentialsJSON([]byte(cfg.FirebaseServiceAccountJSON))}, nil
	}

	if cfg.FirebaseServiceAccountPath != "" {
		if _, err := os.Stat(cfg.FirebaseServiceAccountPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("service account file does not exist: %s", cfg.FirebaseServiceAccountPath)
		}
		logger.Info("Using Firebase service account from file: %s", cfg.FirebaseServiceAccountPath)
		return []option.ClientOption{option.WithCredentialsFile(cfg.FirebaseServiceAccountPath)}, nil
	}

	logger.Warn("No Firebase service account configured, using application default credentials")
	return nil, nil
}

func NewApp(ctx context.Context, cfg *config.Config) (*fbapp.App, []option.ClientOption, error) {
	opts, err := ClientOption(cfg)
	if err != nil {
		return nil, nil, err
	}

	app, err := fbapp.NewApp(ctx, &fbapp.Config{
		ProjectID:   cfg.FirebaseProject,
		DatabaseURL: cfg.FirebaseDatabaseURL,
	}, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("initialize firebase: %w", err)
	}

	return app, opts, nil
}
