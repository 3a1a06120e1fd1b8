package models

import (
	"time"

	"github.com/google/uuid"
)

// DailyNutrition holds the macro totals for one user on one calendar day.
// Dates are opaque YYYY-MM-DD strings stored verbatim; the compound unique
// index is the sole arbiter of the one-entry-per-day invariant.
type DailyNutrition struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_nutrition_user_date" json:"user_id"`
	Date      string    `gorm:"size:10;not null;uniqueIndex:idx_nutrition_user_date" json:"date"`
	Calories  float64   `gorm:"default:0" json:"calories"`
	Protein   float64   `gorm:"default:0" json:"protein"`
	Carbs     float64   `gorm:"default:0" json:"carbs"`
	Fat       float64   `gorm:"default:0" json:"fat"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
