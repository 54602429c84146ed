//go:build prod

package database

import (
	"log"
	"os"
	"path/filepath"
)

const dbFile = "chatdesk.db"

// GetDefaultDBPath places the store under the user config dir, falling back
// to the working directory when that dir is unusable.
func GetDefaultDBPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		log.Printf("database: no user config dir, using %s: %v", dbFile, err)
		return dbFile
	}
	appDir := filepath.Join(configDir, "chatdesk")
	if err := os.MkdirAll(appDir, 0o755); err != nil {
		log.Printf("database: create %s, using %s: %v", appDir, dbFile, err)
		return dbFile
	}
	return filepath.Join(appDir, dbFile)
}
