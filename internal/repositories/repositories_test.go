package repositories

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"chatdesk/internal/database"
	"chatdesk/internal/models"
	"chatdesk/internal/utils"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Init(database.Config{
		Path:     filepath.Join(t.TempDir(), "test.db"),
		LogLevel: logger.Silent,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestMessageRepository_TranslateRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewMessageRepository(openTestDB(t))

	require.NoError(t, repo.Create(ctx, &models.Message{ID: "m1", SessionID: "s1", Role: "user", Content: "Hello"}))

	got, err := repo.Get(ctx, "m1")
	require.NoError(t, err)
	assert.Nil(t, got.Translate)
	assert.Nil(t, got.TTS)

	tr := &models.ChatTranslate{Content: "Bonjour", From: "en-US", To: "fr-FR"}
	require.NoError(t, repo.Update(ctx, "m1", models.MessageUpdate{Translate: tr}))

	got, err = repo.Get(ctx, "m1")
	require.NoError(t, err)
	require.NotNil(t, got.Translate)
	assert.Equal(t, *tr, *got.Translate)
	assert.Equal(t, "Hello", got.Content)

	require.NoError(t, repo.Update(ctx, "m1", models.MessageUpdate{ClearTranslate: true}))
	got, err = repo.Get(ctx, "m1")
	require.NoError(t, err)
	assert.Nil(t, got.Translate)
}

func TestMessageRepository_TTSAndContent(t *testing.T) {
	ctx := context.Background()
	repo := NewMessageRepository(openTestDB(t))
	require.NoError(t, repo.Create(ctx, &models.Message{ID: "m1", SessionID: "s1", Role: "assistant", Content: "a"}))

	content := "b"
	require.NoError(t, repo.Update(ctx, "m1", models.MessageUpdate{
		Content: &content,
		TTS:     &models.ChatTTS{Voice: "alloy", File: "f1"},
	}))

	got, err := repo.Get(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "b", got.Content)
	require.NotNil(t, got.TTS)
	assert.Equal(t, "alloy", got.TTS.Voice)
}

func TestMessageRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewMessageRepository(openTestDB(t))

	_, err := repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrMessageNotFound)

	err = repo.Update(ctx, "missing", models.MessageUpdate{ClearTTS: true})
	assert.ErrorIs(t, err, ErrMessageNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, "missing"), ErrMessageNotFound)
}

func TestMessageRepository_ListByTopic(t *testing.T) {
	ctx := context.Background()
	repo := NewMessageRepository(openTestDB(t))
	for _, m := range []models.Message{
		{ID: "a", SessionID: "s1", TopicID: "t1", Role: "user"},
		{ID: "b", SessionID: "s1", TopicID: "t1", Role: "assistant"},
		{ID: "c", SessionID: "s1", TopicID: "t2", Role: "user"},
		{ID: "d", SessionID: "s2", Role: "user"},
	} {
		msg := m
		require.NoError(t, repo.Create(ctx, &msg))
	}

	list, err := repo.ListByTopic(ctx, "s1", "t1")
	require.NoError(t, err)
	require.Len(t, list, 2)

	list, err = repo.ListByTopic(ctx, "s2", "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "d", list[0].ID)
}

func TestUserSettingsRepository_RoundTripAndReset(t *testing.T) {
	ctx := context.Background()
	repo := NewUserSettingsRepository(openTestDB(t))

	empty, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	diff := utils.Tree{"themeMode": "dark", "systemAgent": utils.Tree{"translation": utils.Tree{"model": "gpt-4"}}}
	require.NoError(t, repo.Update(ctx, diff))
	require.NoError(t, repo.Update(ctx, diff))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, diff, got)

	require.NoError(t, repo.Reset(ctx))
	got, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}
