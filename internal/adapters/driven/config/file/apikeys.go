package file

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// EnvFileName is loaded from the directory holding the config file.
const EnvFileName = ".env"

// LoadEnvFile loads KEY=value pairs from path into the process environment.
// Variables that are already set keep their value. A missing file is not an error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(path)
}

// EnvFileFor returns the .env path next to configPath.
func EnvFileFor(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), EnvFileName)
}
