package models

import "time"

// UserSettings is the single persisted row (ID=1) holding the settings diff
// against the default tree, as JSON.
type UserSettings struct {
	ID        uint   `gorm:"primaryKey"`
	DiffJSON  string `gorm:"type:text;not null;default:'{}'"`
	UpdatedAt time.Time
}
