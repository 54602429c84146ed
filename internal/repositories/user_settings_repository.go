package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"chatdesk/internal/models"
	"chatdesk/internal/utils"
)

// UserSettingsRepository stores the settings diff against the defaults.
type UserSettingsRepository interface {
	Get(ctx context.Context) (utils.Tree, error)
	Update(ctx context.Context, diff utils.Tree) error
	Reset(ctx context.Context) error
}

type userSettingsRepository struct {
	db *gorm.DB
}

func NewUserSettingsRepository(db *gorm.DB) UserSettingsRepository {
	return &userSettingsRepository{db: db}
}

// Get returns the stored diff, or an empty tree if nothing was saved yet.
func (r *userSettingsRepository) Get(ctx context.Context) (utils.Tree, error) {
	var row models.UserSettings
	if err := r.db.WithContext(ctx).First(&row, 1).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Tree{}, nil
		}
		return nil, fmt.Errorf("getting user settings: %w", err)
	}
	diff := utils.Tree{}
	if row.DiffJSON == "" {
		return diff, nil
	}
	if err := json.Unmarshal([]byte(row.DiffJSON), &diff); err != nil {
		return nil, fmt.Errorf("decoding user settings: %w", err)
	}
	return diff, nil
}

func (r *userSettingsRepository) Update(ctx context.Context, diff utils.Tree) error {
	if diff == nil {
		diff = utils.Tree{}
	}
	data, err := json.Marshal(diff)
	if err != nil {
		return fmt.Errorf("encoding user settings: %w", err)
	}
	// Single-row table (ID=1)
	row := models.UserSettings{ID: 1, DiffJSON: string(data)}
	if err := r.db.WithContext(ctx).Save(&row).Error; err != nil {
		return fmt.Errorf("saving user settings: %w", err)
	}
	return nil
}

func (r *userSettingsRepository) Reset(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Delete(&models.UserSettings{}, 1).Error; err != nil {
		return fmt.Errorf("resetting user settings: %w", err)
	}
	return nil
}
