package unit_tests

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatdesk/internal/events"
	"chatdesk/internal/models"
	"chatdesk/internal/services"
	"chatdesk/internal/tests/mocks"
)

func TestMessageService_SetActive_LoadsTopic(t *testing.T) {
	repo := mocks.NewMessageRepositoryMock(
		models.Message{ID: "msg_a", SessionID: "s1", TopicID: "t1", Role: "user", Content: "one"},
		models.Message{ID: "msg_b", SessionID: "s1", TopicID: "t2", Role: "user", Content: "two"},
	)
	svc := services.NewMessageService(repo, noRetry)

	require.NoError(t, svc.SetActive(context.Background(), "s1", "t1"))

	list := svc.List()
	require.Len(t, list, 1)
	assert.Equal(t, "msg_a", list[0].ID)
	_, ok := svc.Get("msg_b")
	assert.False(t, ok)
}

func TestMessageService_Activate_SwitchesToMessageTopic(t *testing.T) {
	repo := mocks.NewMessageRepositoryMock(
		models.Message{ID: "msg_b", SessionID: "s2", TopicID: "t9", Role: "user", Content: "two"},
	)
	svc := services.NewMessageService(repo, noRetry)

	require.NoError(t, svc.Activate(context.Background(), "msg_b"))

	_, ok := svc.Get("msg_b")
	assert.True(t, ok)
	assert.Equal(t, models.TracePayload{SessionID: "s2", TopicID: "t9", TraceName: models.TraceTranslator},
		svc.CurrentTracePayload(models.TraceTranslator))
}

func TestMessageService_Create(t *testing.T) {
	repo := mocks.NewMessageRepositoryMock()
	svc := services.NewMessageService(repo, noRetry)
	ctx := context.Background()
	require.NoError(t, svc.SetActive(ctx, "s1", "t1"))

	msg, err := svc.Create(ctx, "user", "Hello")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(msg.ID, "msg_"))
	assert.Equal(t, "s1", msg.SessionID)
	stored, ok := repo.Stored(msg.ID)
	require.True(t, ok)
	assert.Equal(t, "Hello", stored.Content)
	got, ok := svc.Get(msg.ID)
	require.True(t, ok)
	assert.Equal(t, "Hello", got.Content)
}

func TestMessageService_Create_RequiresRole(t *testing.T) {
	svc := services.NewMessageService(mocks.NewMessageRepositoryMock(), noRetry)

	_, err := svc.Create(context.Background(), "", "Hello")

	assert.Error(t, err)
}

func TestMessageService_DispatchTranslate_DoesNotPersist(t *testing.T) {
	rec := recordEvents(t)
	repo := mocks.NewMessageRepositoryMock(helloMessage())
	svc := services.NewMessageService(repo, noRetry)
	require.NoError(t, svc.SetActive(context.Background(), "s1", "t1"))

	tr := &models.ChatTranslate{Content: "Bon", To: "fr-FR"}
	svc.DispatchTranslate(context.Background(), "msg_hello", tr)
	tr.Content = "mutated"

	got, _ := svc.Get("msg_hello")
	assert.Equal(t, "Bon", got.Translate.Content)
	stored, _ := repo.Stored("msg_hello")
	assert.Nil(t, stored.Translate)
	assert.Empty(t, repo.Updates())
	assert.Len(t, rec.named(events.ChatTranslate), 1)
}

func TestMessageService_GetReturnsCopy(t *testing.T) {
	msg := helloMessage()
	msg.Translate = &models.ChatTranslate{Content: "Bonjour"}
	svc := services.NewMessageService(mocks.NewMessageRepositoryMock(msg), noRetry)
	require.NoError(t, svc.SetActive(context.Background(), "s1", "t1"))

	got, _ := svc.Get("msg_hello")
	got.Translate.Content = "changed"

	again, _ := svc.Get("msg_hello")
	assert.Equal(t, "Bonjour", again.Translate.Content)
}

func TestMessageService_UpdateMessage_PropagatesError(t *testing.T) {
	repo := mocks.NewMessageRepositoryMock(helloMessage())
	repo.UpdateFunc = func(ctx context.Context, id string, update models.MessageUpdate) error {
		return errors.New("disk full")
	}
	svc := services.NewMessageService(repo, noRetry)
	require.NoError(t, svc.SetActive(context.Background(), "s1", "t1"))

	err := svc.UpdateMessage(context.Background(), "msg_hello", models.MessageUpdate{ClearTranslate: true})

	assert.EqualError(t, err, "disk full")
}

func TestMessageService_ToggleChatLoading(t *testing.T) {
	svc := services.NewMessageService(mocks.NewMessageRepositoryMock(), noRetry)
	ctx := context.Background()

	svc.ToggleChatLoading(ctx, true, "msg_b", "translate")
	svc.ToggleChatLoading(ctx, true, "msg_a", "tts")
	assert.Equal(t, []string{"msg_a", "msg_b"}, svc.LoadingIDs())

	svc.ToggleChatLoading(ctx, false, "msg_b", "")
	assert.Equal(t, []string{"msg_a"}, svc.LoadingIDs())
}

func TestMessageService_DeleteMessage(t *testing.T) {
	repo := mocks.NewMessageRepositoryMock(helloMessage())
	svc := services.NewMessageService(repo, noRetry)
	ctx := context.Background()
	require.NoError(t, svc.SetActive(ctx, "s1", "t1"))

	require.NoError(t, svc.DeleteMessage(ctx, "msg_hello"))

	assert.Empty(t, svc.List())
	assert.ErrorIs(t, svc.DeleteMessage(ctx, "msg_hello"), services.ErrMessageNotFound)
}
