package utils

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

// LoadEnv loads the .env file at the project root, falling back to the
// working directory for installed binaries. A missing file is not an error.
// Variables already set in the environment win.
func LoadEnv() error {
	dir, err := FindProjectRoot()
	if err != nil {
		if dir, err = os.Getwd(); err != nil {
			return err
		}
	}
	envPath := filepath.Join(dir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}
