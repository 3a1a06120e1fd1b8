package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/nutrition-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nutrition-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrMessageRequired      = errors.New("message is required")
	ErrConversationNotFound = errors.New("conversation not found")
)

const titleMaxLen = 50

// ChatService relays chat turns to the inference service and keeps the
// append-only conversation log.
type ChatService struct {
	db *gorm.DB
	ai Inference
}

func NewChatService(db *gorm.DB, ai Inference) *ChatService {
	return &ChatService{db: db, ai: ai}
}

// Send relays one chat turn. A missing conversation id starts a new
// conversation titled from the first message. Exactly two messages are
// appended per turn: the user's, then the assistant's. The log is only
// persisted after the upstream call succeeds.
func (s *ChatService) Send(ctx context.Context, userID uuid.UUID, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, ErrMessageRequired
	}

	var conv models.Conversation
	isNew := req.ConversationID == nil
	if isNew {
		conv = models.Conversation{
			ID:     uuid.New(),
			UserID: userID,
			Title:  makeTitle(message),
		}
	} else {
		err := s.db.Where("id = ? AND user_id = ?", *req.ConversationID, userID).First(&conv).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		if err != nil {
			return nil, err
		}
	}

	reply, err := s.ai.Chat(ctx, message)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	messages, err := decodeMessages(conv.Messages)
	if err != nil {
		return nil, err
	}
	messages = append(messages,
		models.Message{Role: models.RoleUser, Content: message, Timestamp: now},
		models.Message{Role: models.RoleAssistant, Content: reply, Timestamp: now},
	)

	encoded, err := json.Marshal(messages)
	if err != nil {
		return nil, err
	}
	conv.Messages = datatypes.JSON(encoded)

	if isNew {
		err = s.db.Create(&conv).Error
	} else {
		err = s.db.Model(&conv).Update("messages", conv.Messages).Error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to persist conversation: %w", err)
	}

	return &dto.ChatResponse{
		Success:        true,
		Message:        reply,
		ConversationID: conv.ID,
	}, nil
}

// List returns the user's conversations, newest first.
func (s *ChatService) List(userID uuid.UUID) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&conversations).Error
	return conversations, err
}

func decodeMessages(raw datatypes.JSON) ([]models.Message, error) {
	if len(raw) == 0 {
		return []models.Message{}, nil
	}
	var messages []models.Message
	if err := json.Unmarshal(raw, &messages); err != nil {
		return nil, fmt.Errorf("corrupt conversation log: %w", err)
	}
	return messages, nil
}

func makeTitle(message string) string {
	runes := []rune(message)
	if len(runes) > titleMaxLen {
		return string(runes[:titleMaxLen])
	}
	return message
}
