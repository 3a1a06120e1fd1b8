package services

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/nutrition-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nutrition-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrDateRequired      = errors.New("date is required")
	ErrNegativeMacro     = errors.New("macro values must be non-negative")
	ErrNutritionNotFound = errors.New("nutrition data not found for this date")
	ErrDuplicateEntry    = errors.New("nutrition entry already exists for this date")
)

// NutritionService is the per-user, per-date macro ledger. Dates are opaque
// YYYY-MM-DD strings compared verbatim.
type NutritionService struct {
	db *gorm.DB
}

func NewNutritionService(db *gorm.DB) *NutritionService {
	return &NutritionService{db: db}
}

// Get returns the entry for one date, or a zero-valued record when none
// exists so callers can render "no data yet" without branching.
func (s *NutritionService) Get(userID uuid.UUID, date string) (*models.DailyNutrition, error) {
	if date == "" {
		return nil, ErrDateRequired
	}

	var entry models.DailyNutrition
	err := s.db.Where("user_id = ? AND date = ?", userID, date).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.DailyNutrition{UserID: userID, Date: date}, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetRange returns entries between start and end inclusive, newest first.
func (s *NutritionService) GetRange(userID uuid.UUID, start, end string) ([]models.DailyNutrition, error) {
	var entries []models.DailyNutrition
	err := s.db.Where("user_id = ? AND date >= ? AND date <= ?", userID, start, end).
		Order("date DESC").
		Find(&entries).Error
	return entries, err
}

// GetAll returns every entry for the user, newest first.
func (s *NutritionService) GetAll(userID uuid.UUID) ([]models.DailyNutrition, error) {
	var entries []models.DailyNutrition
	err := s.db.Where("user_id = ?", userID).
		Order("date DESC").
		Find(&entries).Error
	return entries, err
}

// Upsert creates the entry for (user, date) with omitted macros defaulted to
// zero, or merges the supplied macros into an existing one. The bool result
// reports creation. A create that loses the race to a concurrent writer
// returns ErrDuplicateEntry; the caller may retry as an update.
func (s *NutritionService) Upsert(userID uuid.UUID, date string, patch dto.MacroPatch) (*models.DailyNutrition, bool, error) {
	if date == "" {
		return nil, false, ErrDateRequired
	}
	if err := validatePatch(patch); err != nil {
		return nil, false, err
	}

	var entry models.DailyNutrition
	err := s.db.Where("user_id = ? AND date = ?", userID, date).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		created, err := s.create(userID, date, patch)
		if err != nil {
			return nil, false, err
		}
		return created, true, nil
	}
	if err != nil {
		return nil, false, err
	}

	if err := s.merge(&entry, patch); err != nil {
		return nil, false, err
	}
	return &entry, false, nil
}

// create inserts a fresh entry with omitted macros defaulted to zero. The
// unique index catches concurrent creations for the same (user, date).
func (s *NutritionService) create(userID uuid.UUID, date string, patch dto.MacroPatch) (*models.DailyNutrition, error) {
	entry := models.DailyNutrition{ID: uuid.New(), UserID: userID, Date: date}
	setMacros(&entry, patch)
	if err := s.db.Create(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEntry
		}
		return nil, err
	}
	return &entry, nil
}

// Update merges the supplied macros into the entry for (user, date) and fails
// with ErrNutritionNotFound when none exists. Deliberately stricter than
// Upsert.
func (s *NutritionService) Update(userID uuid.UUID, date string, patch dto.MacroPatch) (*models.DailyNutrition, error) {
	if date == "" {
		return nil, ErrDateRequired
	}
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	var entry models.DailyNutrition
	err := s.db.Where("user_id = ? AND date = ?", userID, date).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNutritionNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.merge(&entry, patch); err != nil {
		return nil, err
	}
	return &entry, nil
}

// merge writes only the supplied macros: one UPDATE restricted to those
// columns, so omitted fields are never zeroed.
func (s *NutritionService) merge(entry *models.DailyNutrition, patch dto.MacroPatch) error {
	changes := map[string]interface{}{}
	if patch.Calories != nil {
		entry.Calories = *patch.Calories
		changes["calories"] = *patch.Calories
	}
	if patch.Protein != nil {
		entry.Protein = *patch.Protein
		changes["protein"] = *patch.Protein
	}
	if patch.Carbs != nil {
		entry.Carbs = *patch.Carbs
		changes["carbs"] = *patch.Carbs
	}
	if patch.Fat != nil {
		entry.Fat = *patch.Fat
		changes["fat"] = *patch.Fat
	}
	if len(changes) == 0 {
		return nil
	}
	return s.db.Model(entry).Updates(changes).Error
}

func setMacros(entry *models.DailyNutrition, patch dto.MacroPatch) {
	if patch.Calories != nil {
		entry.Calories = *patch.Calories
	}
	if patch.Protein != nil {
		entry.Protein = *patch.Protein
	}
	if patch.Carbs != nil {
		entry.Carbs = *patch.Carbs
	}
	if patch.Fat != nil {
		entry.Fat = *patch.Fat
	}
}

func validatePatch(patch dto.MacroPatch) error {
	for _, v := range []*float64{patch.Calories, patch.Protein, patch.Carbs, patch.Fat} {
		if v != nil && *v < 0 {
			return ErrNegativeMacro
		}
	}
	return nil
}
