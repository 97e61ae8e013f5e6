package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"

	"github.com/trakli/webui/internal/fileutils"
	"github.com/trakli/webui/internal/logging"
)

var envOnce sync.Once

// LoadEnv loads environment variables from a .env file in the current or
// parent directory, if one exists. Variables already set are not
// overridden. Only the first call has an effect.
func LoadEnv(logger logging.Logger) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	envOnce.Do(func() {
		envFile := FindEnvFile()
		if envFile == "" {
			logger.Debug("No .env file found, using environment variables")
			return
		}

		if err := godotenv.Load(envFile); err != nil {
			logger.WithError(err).Warn("Error loading .env file")
			return
		}
		logger.Debug("Loaded environment variables", logging.F(logging.FieldFile, envFile))
	})
}

// FindEnvFile returns the path of the nearest .env file (current directory,
// then its parent), or "" when there is none.
func FindEnvFile() string {
	return fileutils.FirstExisting(".env", filepath.Join("..", ".env"))
}

// GetEnv retrieves an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}
