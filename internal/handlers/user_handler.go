package handlers

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/nutrition-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nutrition-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/nutrition-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	authService      *services.AuthService
	nutritionService *services.NutritionService
}

func NewUserHandler(authService *services.AuthService, nutritionService *services.NutritionService) *UserHandler {
	return &UserHandler{authService: authService, nutritionService: nutritionService}
}

func (h *UserHandler) GetMe(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	return c.JSON(dto.ProfileResponse{
		ID:    user.ID.String(),
		Email: user.Email,
		Name:  user.Name,
	})
}

func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if req.Name != nil {
		updated, err := h.authService.UpdateName(user.ID, *req.Name)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to update profile",
			})
		}
		user = updated
	}

	return c.JSON(dto.ProfileResponse{
		ID:      user.ID.String(),
		Email:   user.Email,
		Name:    user.Name,
		Message: "Profile updated successfully",
	})
}

// GetNutrition serves three query shapes: ?date= for one day (zeroed default
// when absent), ?startDate=&endDate= for an inclusive range, nothing for the
// full history. Ranges and history come back newest first.
func (h *UserHandler) GetNutrition(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	date := c.Query("date")
	startDate := c.Query("startDate")
	endDate := c.Query("endDate")

	switch {
	case date != "":
		entry, err := h.nutritionService.Get(user.ID, date)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to fetch nutrition data",
			})
		}
		return c.JSON(entry)
	case startDate != "" && endDate != "":
		entries, err := h.nutritionService.GetRange(user.ID, startDate, endDate)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to fetch nutrition data",
			})
		}
		return c.JSON(entries)
	default:
		entries, err := h.nutritionService.GetAll(user.ID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to fetch nutrition data",
			})
		}
		return c.JSON(entries)
	}
}

// AddNutrition is the create-or-merge write: 201 on creation, 200 on merge.
func (h *UserHandler) AddNutrition(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req dto.NutritionUpsertRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	entry, created, err := h.nutritionService.Upsert(user.ID, req.Date, req.MacroPatch)
	if err != nil {
		return nutritionError(c, err)
	}

	if created {
		return c.Status(fiber.StatusCreated).JSON(dto.NutritionResponse{
			Message:   "Nutrition added successfully",
			Nutrition: entry,
		})
	}
	return c.JSON(dto.NutritionResponse{
		Message:   "Nutrition updated successfully",
		Nutrition: entry,
	})
}

// UpdateNutrition is the strict variant: 404 when no entry exists for the
// date path segment.
func (h *UserHandler) UpdateNutrition(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	date := c.Params("date")

	var req dto.MacroPatch
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	entry, err := h.nutritionService.Update(user.ID, date, req)
	if err != nil {
		return nutritionError(c, err)
	}

	return c.JSON(dto.NutritionResponse{
		Message:   "Nutrition updated successfully",
		Nutrition: entry,
	})
}

func nutritionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrDateRequired), errors.Is(err, services.ErrNegativeMacro):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrNutritionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrDuplicateEntry):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to save nutrition data",
		})
	}
}
