package dto

import "github.com/google/uuid"

type ChatRequest struct {
	Message        string     `json:"message"`
	ConversationID *uuid.UUID `json:"conversation_id"`
}

type ChatResponse struct {
	Success        bool      `json:"success"`
	Message        string    `json:"message"`
	ConversationID uuid.UUID `json:"conversation_id"`
}

type AnalyzeRequest struct {
	ImageURL string `json:"image_url"`
}

type AnalyzeResponse struct {
	Message string `json:"message"`
	Data    string `json:"data"`
}
