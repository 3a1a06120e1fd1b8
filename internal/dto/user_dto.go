package dto

import "github.com/ahmetcoskunkizilkaya/nutrition-backend/internal/models"

type UpdateProfileRequest struct {
	Name *string `json:"name"`
}

type ProfileResponse struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Message string `json:"message,omitempty"`
}

// MacroPatch carries only the macros the client supplied. Nil means "leave
// the stored value unchanged", which is what makes upsert a merge rather
// than a replace.
type MacroPatch struct {
	Calories *float64 `json:"calories"`
	Protein  *float64 `json:"protein"`
	Carbs    *float64 `json:"carbs"`
	Fat      *float64 `json:"fat"`
}

type NutritionUpsertRequest struct {
	Date string `json:"date"`
	MacroPatch
}

type NutritionResponse struct {
	Message   string                 `json:"message"`
	Nutrition *models.DailyNutrition `json:"nutrition"`
}
