package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
)

var (
	envOnce   sync.Once
	envLoaded string
	envErr    error
)

// LoadEnv loads environment variables from a .env file in the current or the
// parent directory, once per process. Variables already set are not
// overridden. It returns the file loaded, or "" when there is none.
func LoadEnv() (string, error) {
	envOnce.Do(func() {
		envLoaded, envErr = loadEnvFrom(".env", filepath.Join("..", ".env"))
	})
	return envLoaded, envErr
}

func loadEnvFrom(candidates ...string) (string, error) {
	for _, envFile := range candidates {
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			return "", fmt.Errorf("error loading %s: %w", envFile, err)
		}
		return envFile, nil
	}
	return "", nil
}
