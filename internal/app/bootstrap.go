package app

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	apimiddleware "communityhub/internal/adapter/api/middleware"
	"communityhub/internal/infrastructure/credential"
	"communityhub/internal/infrastructure/firebase"
	"communityhub/internal/infrastructure/store"
	"communityhub/internal/usecase"
	"communityhub/pkg/config"
	"communityhub/pkg/logger"
)

// CredentialDriver creates credentials and checks passwords.
type CredentialDriver interface {
	usecase.CredentialStore
	usecase.PasswordVerifier
}

// Backends are the external systems selected by configuration.
type Backends struct {
	Store         store.Store
	Credentials   CredentialDriver
	TokenVerifier apimiddleware.TokenVerifier
}

// Open connects the configured store and credential drivers. The Firebase
// app is created only when some driver needs it.
func Open(ctx context.Context, cfg *config.Config) (*Backends, error) {
	var (
		fb   *fbapp.App
		opts []option.ClientOption
		err  error
	)
	if cfg.UsesFirebase() {
		fb, opts, err = firebase.NewApp(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}

	s, err := openStore(ctx, cfg, fb, opts)
	if err != nil {
		return nil, err
	}
	b := &Backends{Store: store.Instrument(s)}

	var fbAuth *firebase.FirebaseAuthClient
	if cfg.CredentialDriver == config.CredentialFirebase || cfg.AuthMode == config.AuthFirebase {
		authClient, err := fb.Auth(ctx)
		if err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("initialize firebase auth: %w", err)
		}
		fbAuth = firebase.NewFirebaseAuthClient(authClient, cfg.FirebaseAPIKey)
		b.TokenVerifier = fbAuth
	}

	switch cfg.CredentialDriver {
	case config.CredentialFirebase:
		b.Credentials = fbAuth
	default:
		logger.Warn("Using in-memory credential store; credentials are lost on restart")
		b.Credentials = credential.NewLocal()
	}

	return b, nil
}

func openStore(ctx context.Context, cfg *config.Config, fb *fbapp.App, opts []option.ClientOption) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreRTDB:
		client, err := fb.Database(ctx)
		if err != nil {
			return nil, fmt.Errorf("initialize realtime database: %w", err)
		}
		logger.Info("Using Realtime Database store at %s", cfg.FirebaseDatabaseURL)
		return store.NewRTDB(client), nil

	case config.StoreFirestore:
		client, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
		if err != nil {
			return nil, fmt.Errorf("create firestore client: %w", err)
		}
		logger.Info("Using Firestore store in project %s", cfg.FirebaseProject)
		return store.NewFirestore(client), nil

	case config.StoreRedis:
		client, err := store.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		logger.Info("Using Redis store")
		return store.NewRedis(client, ""), nil

	case config.StoreMemory:
		logger.Warn("Using in-memory store; data is lost on restart")
		return store.NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
