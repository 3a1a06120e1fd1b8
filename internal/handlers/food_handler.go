package handlers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ahmetcoskunkizilkaya/nutrition-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nutrition-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type FoodHandler struct {
	ai services.Inference
}

func NewFoodHandler(ai services.Inference) *FoodHandler {
	return &FoodHandler{ai: ai}
}

// Analyze relays a food photo to the inference service. The image arrives
// either as a multipart "image" upload (encoded to a data URL) or as an
// image_url field passed through verbatim.
func (h *FoodHandler) Analyze(c *fiber.Ctx) error {
	imageURL, err := h.imageURL(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	data, err := h.ai.AnalyzeImage(c.Context(), imageURL)
	if err != nil {
		if errors.Is(err, services.ErrUpstream) {
			return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to analyze food image",
		})
	}

	return c.JSON(dto.AnalyzeResponse{
		Message: "Food analysis completed successfully",
		Data:    data,
	})
}

func (h *FoodHandler) imageURL(c *fiber.Ctx) (string, error) {
	file, err := c.FormFile("image")
	if err == nil {
		contentType := file.Header.Get(fiber.HeaderContentType)
		if !strings.HasPrefix(contentType, "image/") {
			return "", errors.New("only image files are allowed")
		}

		f, err := file.Open()
		if err != nil {
			return "", errors.New("failed to read image file")
		}
		defer f.Close()

		raw, err := io.ReadAll(f)
		if err != nil {
			return "", errors.New("failed to read image file")
		}

		return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(raw)), nil
	}

	var req dto.AnalyzeRequest
	if err := c.BodyParser(&req); err == nil && req.ImageURL != "" {
		return req.ImageURL, nil
	}
	return "", errors.New("image file or image_url is required")
}
