package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"chatdesk/internal/models"
)

// ErrMessageNotFound is returned when no message has the given ID.
var ErrMessageNotFound = errors.New("message not found")

type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	Get(ctx context.Context, id string) (*models.Message, error)
	ListByTopic(ctx context.Context, sessionID, topicID string) ([]models.Message, error)
	Update(ctx context.Context, id string, update models.MessageUpdate) error
	Delete(ctx context.Context, id string) error
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, msg *models.Message) error {
	if msg.ID == "" {
		return fmt.Errorf("creating message: id is required")
	}
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return fmt.Errorf("creating message: %w", err)
	}
	return nil
}

func (r *messageRepository) Get(ctx context.Context, id string) (*models.Message, error) {
	var msg models.Message
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&msg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("message %s: %w", id, ErrMessageNotFound)
		}
		return nil, fmt.Errorf("getting message %s: %w", id, err)
	}
	return &msg, nil
}

func (r *messageRepository) ListByTopic(ctx context.Context, sessionID, topicID string) ([]models.Message, error) {
	var list []models.Message
	if err := r.db.WithContext(ctx).
		Where("session_id = ? AND topic_id = ?", sessionID, topicID).
		Order("created_at, id").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	return list, nil
}

// Update writes only the columns named by update; Select forces nil extras
// to be written so a cleared translation really clears.
func (r *messageRepository) Update(ctx context.Context, id string, update models.MessageUpdate) error {
	if update.IsEmpty() {
		return nil
	}
	msg, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	columns := update.Apply(msg)
	columns = append(columns, "updated_at")
	if err := r.db.WithContext(ctx).Model(msg).Select(columns).Updates(msg).Error; err != nil {
		return fmt.Errorf("updating message %s: %w", id, err)
	}
	return nil
}

func (r *messageRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Message{})
	if res.Error != nil {
		return fmt.Errorf("deleting message %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("message %s: %w", id, ErrMessageNotFound)
	}
	return nil
}
