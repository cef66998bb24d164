package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreRTDB      = "rtdb"
	StoreFirestore = "firestore"
	StoreRedis     = "redis"
	StoreMemory    = "memory"

	CredentialFirebase = "firebase"
	CredentialLocal    = "local"

	AuthNone     = "none"
	AuthHeader   = "header"
	AuthFirebase = "firebase"
)

type Config struct {
	ServerPort  string
	Environment string
	LogLevel    string

	FirebaseProject            string
	FirebaseDatabaseURL        string
	FirebaseServiceAccountJSON string
	FirebaseServiceAccountPath string
	FirebaseAPIKey             string

	StoreDriver      string
	RedisURL         string
	CredentialDriver string

	AuthMode          string
	VerifyPasswords   bool
	AuthRatePerMinute int
	RealtimeEnabled   bool
}

// UsesFirebase reports whether any configured driver needs a Firebase app.
func (c *Config) UsesFirebase() bool {
	return c.StoreDriver == StoreRTDB ||
		c.StoreDriver == StoreFirestore ||
		c.CredentialDriver == CredentialFirebase ||
		c.AuthMode == AuthFirebase
}

func (c *Config) Address() string {
	if strings.HasPrefix(c.ServerPort, ":") {
		return c.ServerPort
	}
	return ":" + c.ServerPort
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "3001")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("STORE_DRIVER", StoreRTDB)
	v.SetDefault("CREDENTIAL_DRIVER", CredentialFirebase)
	v.SetDefault("AUTH_MODE", AuthNone)
	v.SetDefault("VERIFY_PASSWORDS", false)
	v.SetDefault("AUTH_RATE_PER_MINUTE", 20)
	v.SetDefault("REALTIME_ENABLED", true)

	config := &Config{
		ServerPort:                 v.GetString("SERVER_PORT"),
		Environment:                v.GetString("ENVIRONMENT"),
		LogLevel:                   v.GetString("LOG_LEVEL"),
		FirebaseProject:            v.GetString("FIREBASE_PROJECT_ID"),
		FirebaseDatabaseURL:        v.GetString("FIREBASE_DATABASE_URL"),
		FirebaseServiceAccountJSON: v.GetString("FIREBASE_SERVICE_ACCOUNT_JSON"),
		FirebaseServiceAccountPath: v.GetString("FIREBASE_SERVICE_ACCOUNT_PATH"),
		FirebaseAPIKey:             v.GetString("FIREBASE_API_KEY"),
		StoreDriver:                strings.ToLower(v.GetString("STORE_DRIVER")),
		RedisURL:                   v.GetString("REDIS_URL"),
		CredentialDriver:           strings.ToLower(v.GetString("CREDENTIAL_DRIVER")),
		AuthMode:                   strings.ToLower(v.GetString("AUTH_MODE")),
		VerifyPasswords:            v.GetBool("VERIFY_PASSWORDS"),
		AuthRatePerMinute:          v.GetInt("AUTH_RATE_PER_MINUTE"),
		RealtimeEnabled:            v.GetBool("REALTIME_ENABLED"),
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case StoreRTDB:
		if c.FirebaseDatabaseURL == "" {
			return fmt.Errorf("FIREBASE_DATABASE_URL is required for the %s store", StoreRTDB)
		}
	case StoreFirestore:
		if c.FirebaseProject == "" {
			return fmt.Errorf("FIREBASE_PROJECT_ID is required for the %s store", StoreFirestore)
		}
	case StoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for the %s store", StoreRedis)
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.CredentialDriver {
	case CredentialFirebase, CredentialLocal:
	default:
		return fmt.Errorf("unknown CREDENTIAL_DRIVER %q", c.CredentialDriver)
	}

	switch c.AuthMode {
	case AuthNone, AuthHeader, AuthFirebase:
	default:
		return fmt.Errorf("unknown AUTH_MODE %q", c.AuthMode)
	}

	if c.AuthRatePerMinute <= 0 {
		c.AuthRatePerMinute = 20
	}
	return nil
}
