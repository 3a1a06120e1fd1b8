package services

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/ahmetcoskunkizilkaya/nutrition-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nutrition-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type stubInference struct {
	reply string
	err   error
}

func (s *stubInference) Chat(_ context.Context, _ string) (string, error) {
	return s.reply, s.err
}

func (s *stubInference) AnalyzeImage(_ context.Context, _ string) (string, error) {
	return s.reply, s.err
}

func TestChatSend_FirstTurnCreatesConversation(t *testing.T) {
	db := newTestDB(t)
	svc := NewChatService(db, &stubInference{reply: "Eat more vegetables."})
	userID := uuid.New()

	resp, err := svc.Send(context.Background(), userID, &dto.ChatRequest{Message: "What should I eat?"})
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.Equal(t, "Eat more vegetables.", resp.Message)

	var conv models.Conversation
	require.NoError(t, db.First(&conv, "id = ?", resp.ConversationID).Error)
	require.Equal(t, userID, conv.UserID)
	require.Equal(t, "What should I eat?", conv.Title)

	var messages []models.Message
	require.NoError(t, json.Unmarshal(conv.Messages, &messages))
	require.Len(t, messages, 2)
	require.Equal(t, models.RoleUser, messages[0].Role)
	require.Equal(t, models.RoleAssistant, messages[1].Role)
	require.Equal(t, "Eat more vegetables.", messages[1].Content)
}

func TestChatSend_AppendsTwoMessagesPerTurn(t *testing.T) {
	db := newTestDB(t)
	svc := NewChatService(db, &stubInference{reply: "ok"})
	userID := uuid.New()

	first, err := svc.Send(context.Background(), userID, &dto.ChatRequest{Message: "turn one"})
	require.NoError(t, err)

	_, err = svc.Send(context.Background(), userID, &dto.ChatRequest{
		Message:        "turn two",
		ConversationID: &first.ConversationID,
	})
	require.NoError(t, err)

	var conv models.Conversation
	require.NoError(t, db.First(&conv, "id = ?", first.ConversationID).Error)

	var messages []models.Message
	require.NoError(t, json.Unmarshal(conv.Messages, &messages))
	require.Len(t, messages, 4)
	require.Equal(t, "turn two", messages[2].Content)
}

func TestChatSend_UpstreamFailureLeavesNoLog(t *testing.T) {
	db := newTestDB(t)
	svc := NewChatService(db, &stubInference{err: fmt.Errorf("%w: status 503", ErrUpstream)})
	userID := uuid.New()

	_, err := svc.Send(context.Background(), userID, &dto.ChatRequest{Message: "hello"})
	require.ErrorIs(t, err, ErrUpstream)

	var count int64
	require.NoError(t, db.Model(&models.Conversation{}).Where("user_id = ?", userID).Count(&count).Error)
	require.Zero(t, count)
}

func TestChatSend_EmptyMessage(t *testing.T) {
	svc := NewChatService(newTestDB(t), &stubInference{reply: "ok"})

	_, err := svc.Send(context.Background(), uuid.New(), &dto.ChatRequest{Message: "   "})
	require.ErrorIs(t, err, ErrMessageRequired)
}

func TestChatSend_ForeignConversationRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewChatService(db, &stubInference{reply: "ok"})

	owner := uuid.New()
	first, err := svc.Send(context.Background(), owner, &dto.ChatRequest{Message: "mine"})
	require.NoError(t, err)

	_, err = svc.Send(context.Background(), uuid.New(), &dto.ChatRequest{
		Message:        "theirs",
		ConversationID: &first.ConversationID,
	})
	require.ErrorIs(t, err, ErrConversationNotFound)
}

func TestChatList_NewestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := NewChatService(db, &stubInference{reply: "ok"})
	userID := uuid.New()

	for i := 0; i < 3; i++ {
		_, err := svc.Send(context.Background(), userID, &dto.ChatRequest{Message: fmt.Sprintf("msg %d", i)})
		require.NoError(t, err)
	}

	conversations, err := svc.List(userID)
	require.NoError(t, err)
	require.Len(t, conversations, 3)
}

func TestMakeTitle_Truncates(t *testing.T) {
	long := ""
	for i := 0; i < 20; i++ {
		long += "kalori"
	}
	title := makeTitle(long)
	require.Len(t, []rune(title), titleMaxLen)

	require.Equal(t, "short", makeTitle("short"))
}
