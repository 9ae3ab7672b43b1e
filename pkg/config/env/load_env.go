package env

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file. ENV_PATH
// overrides the default path; a missing file is not fatal and is left
// to the caller to log.
func LoadDotEnv(defaultPath string) error {
	envPath := defaultPath
	if os.Getenv("ENV_PATH") != "" {
		envPath = os.Getenv("ENV_PATH")
	} else {
		slog.Debug("ENV_PATH is not set, using default path", "defaultPath", defaultPath)
	}

	return godotenv.Load(envPath)
}
