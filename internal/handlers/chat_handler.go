package handlers

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/nutrition-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nutrition-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/nutrition-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ChatHandler struct {
	chatService *services.ChatService
}

func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func (h *ChatHandler) Send(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	resp, err := h.chatService.Send(c.Context(), user.ID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMessageRequired):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrConversationNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrUpstream):
			return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to process chat message",
			})
		}
	}

	return c.JSON(resp)
}

func (h *ChatHandler) ListConversations(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	conversations, err := h.chatService.List(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch conversations",
		})
	}
	return c.JSON(conversations)
}
