package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu   sync.RWMutex
	base = zerolog.New(os.Stdout).With().Timestamp().Logger()
)

// Init replaces the process logger. level is a zerolog level name; an
// unknown or empty level falls back to info, or debug in development.
func Init(w io.Writer, level, environment string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
		if environment == "development" {
			lvl = zerolog.DebugLevel
		}
	}

	l := zerolog.New(w).Level(lvl).With().Timestamp().Logger()

	mu.Lock()
	base = l
	mu.Unlock()
	return l
}

// Get returns the base structured logger.
func Get() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// Component returns a logger tagged with the given component name.
func Component(name string) zerolog.Logger {
	return Get().With().Str("component", name).Logger()
}

func Info(format string, v ...interface{}) {
	l := Get()
	l.Info().Msgf(format, v...)
}

func Error(format string, v ...interface{}) {
	l := Get()
	l.Error().Msgf(format, v...)
}

func Debug(format string, v ...interface{}) {
	l := Get()
	l.Debug().Msgf(format, v...)
}

func Warn(format string, v ...interface{}) {
	l := Get()
	l.Warn().Msgf(format, v...)
}
