//go:build !prod

package database

// GetDefaultDBPath keeps dev builds' store in the working directory.
func GetDefaultDBPath() string {
	return "chatdesk.db"
}
