package services

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ahmetcoskunkizilkaya/nutrition-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/nutrition-backend/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.DailyNutrition{}, &models.Conversation{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func f(v float64) *float64 { return &v }

func TestGet_ReturnsZeroedDefault(t *testing.T) {
	svc := NewNutritionService(newTestDB(t))
	userID := uuid.New()

	entry, err := svc.Get(userID, "2024-01-01")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if entry.Date != "2024-01-01" || entry.UserID != userID {
		t.Fatalf("unexpected identity: %+v", entry)
	}
	if entry.Calories != 0 || entry.Protein != 0 || entry.Carbs != 0 || entry.Fat != 0 {
		t.Fatalf("expected zeroed macros, got %+v", entry)
	}
}

func TestUpsert_CreatesWithZeroDefaults(t *testing.T) {
	svc := NewNutritionService(newTestDB(t))
	userID := uuid.New()

	entry, created, err := svc.Upsert(userID, "2024-01-01", dto.MacroPatch{Calories: f(2000)})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if !created {
		t.Fatalf("expected created")
	}
	if entry.Calories != 2000 || entry.Protein != 0 || entry.Carbs != 0 || entry.Fat != 0 {
		t.Fatalf("expected omitted macros zeroed, got %+v", entry)
	}

	got, err := svc.Get(userID, "2024-01-01")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Calories != 2000 {
		t.Fatalf("expected stored calories 2000, got %v", got.Calories)
	}
}

func TestUpsert_MergeNeverZeroesUnspecifiedMacros(t *testing.T) {
	svc := NewNutritionService(newTestDB(t))
	userID := uuid.New()

	if _, _, err := svc.Upsert(userID, "2024-01-01", dto.MacroPatch{Calories: f(2000), Protein: f(150)}); err != nil {
		t.Fatalf("seed upsert: %v", err)
	}

	entry, created, err := svc.Upsert(userID, "2024-01-01", dto.MacroPatch{Protein: f(160)})
	if err != nil {
		t.Fatalf("merge upsert: %v", err)
	}
	if created {
		t.Fatalf("expected updated, not created")
	}
	if entry.Calories != 2000 || entry.Protein != 160 {
		t.Fatalf("expected {2000, 160}, got {%v, %v}", entry.Calories, entry.Protein)
	}

	got, _ := svc.Get(userID, "2024-01-01")
	if got.Calories != 2000 || got.Protein != 160 {
		t.Fatalf("stored values wrong after merge: %+v", got)
	}
}

func TestUpsert_IdempotentOnIdenticalInput(t *testing.T) {
	svc := NewNutritionService(newTestDB(t))
	userID := uuid.New()
	patch := dto.MacroPatch{Calories: f(1800), Protein: f(120), Carbs: f(200), Fat: f(60)}

	first, created, err := svc.Upsert(userID, "2024-02-01", patch)
	if err != nil || !created {
		t.Fatalf("first upsert: created=%v err=%v", created, err)
	}

	second, created, err := svc.Upsert(userID, "2024-02-01", patch)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if created {
		t.Fatalf("second identical upsert must report updated")
	}
	if second.Calories != first.Calories || second.Protein != first.Protein ||
		second.Carbs != first.Carbs || second.Fat != first.Fat {
		t.Fatalf("values changed on idempotent upsert: %+v vs %+v", first, second)
	}
}

func TestUpsert_UniquenessHeldAcrossSequence(t *testing.T) {
	db := newTestDB(t)
	svc := NewNutritionService(db)
	userID := uuid.New()

	for i := 0; i < 5; i++ {
		if _, _, err := svc.Upsert(userID, "2024-03-01", dto.MacroPatch{Calories: f(float64(1000 + i))}); err != nil {
			t.Fatalf("upsert %d: %v", i, err)
		}
	}

	var count int64
	if err := db.Model(&models.DailyNutrition{}).
		Where("user_id = ? AND date = ?", userID, "2024-03-01").
		Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly 1 entry, got %d", count)
	}
}

func TestCreate_DuplicateReportsDuplicateEntry(t *testing.T) {
	svc := NewNutritionService(newTestDB(t))
	userID := uuid.New()

	if _, err := svc.create(userID, "2024-04-01", dto.MacroPatch{}); err != nil {
		t.Fatalf("first create: %v", err)
	}

	// Simulates the loser of a concurrent creation race: the unique index,
	// not the existence check, is the arbiter.
	_, err := svc.create(userID, "2024-04-01", dto.MacroPatch{Calories: f(500)})
	if !errors.Is(err, ErrDuplicateEntry) {
		t.Fatalf("expected ErrDuplicateEntry, got %v", err)
	}
}

func TestUpdate_StrictFailsOnMissingDate(t *testing.T) {
	svc := NewNutritionService(newTestDB(t))
	userID := uuid.New()

	if _, err := svc.Update(userID, "2024-05-01", dto.MacroPatch{Calories: f(100)}); !errors.Is(err, ErrNutritionNotFound) {
		t.Fatalf("expected ErrNutritionNotFound, got %v", err)
	}

	// Upsert on the same input succeeds and creates.
	_, created, err := svc.Upsert(userID, "2024-05-01", dto.MacroPatch{Calories: f(100)})
	if err != nil || !created {
		t.Fatalf("upsert after strict failure: created=%v err=%v", created, err)
	}

	entry, err := svc.Update(userID, "2024-05-01", dto.MacroPatch{Fat: f(30)})
	if err != nil {
		t.Fatalf("strict update after create: %v", err)
	}
	if entry.Calories != 100 || entry.Fat != 30 {
		t.Fatalf("merge wrong on strict update: %+v", entry)
	}
}

func TestGetRange_InclusiveBoundsDescending(t *testing.T) {
	svc := NewNutritionService(newTestDB(t))
	userID := uuid.New()

	for _, date := range []string{"2024-06-01", "2024-06-02", "2024-06-03"} {
		if _, _, err := svc.Upsert(userID, date, dto.MacroPatch{Calories: f(1000)}); err != nil {
			t.Fatalf("seed %s: %v", date, err)
		}
	}

	entries, err := svc.GetRange(userID, "2024-06-01", "2024-06-02")
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Date != "2024-06-02" || entries[1].Date != "2024-06-01" {
		t.Fatalf("expected descending order, got %s then %s", entries[0].Date, entries[1].Date)
	}
}

func TestGetAll_DescendingByDate(t *testing.T) {
	svc := NewNutritionService(newTestDB(t))
	userID := uuid.New()

	for _, date := range []string{"2024-07-02", "2024-07-01", "2024-07-03"} {
		if _, _, err := svc.Upsert(userID, date, dto.MacroPatch{}); err != nil {
			t.Fatalf("seed %s: %v", date, err)
		}
	}

	entries, err := svc.GetAll(userID)
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	want := []string{"2024-07-03", "2024-07-02", "2024-07-01"}
	for i, date := range want {
		if entries[i].Date != date {
			t.Fatalf("position %d: got %s want %s", i, entries[i].Date, date)
		}
	}
}

func TestUpsert_RejectsNegativeMacros(t *testing.T) {
	svc := NewNutritionService(newTestDB(t))

	_, _, err := svc.Upsert(uuid.New(), "2024-08-01", dto.MacroPatch{Calories: f(-1)})
	if !errors.Is(err, ErrNegativeMacro) {
		t.Fatalf("expected ErrNegativeMacro, got %v", err)
	}
}

func TestUpsert_RequiresDate(t *testing.T) {
	svc := NewNutritionService(newTestDB(t))

	if _, _, err := svc.Upsert(uuid.New(), "", dto.MacroPatch{}); !errors.Is(err, ErrDateRequired) {
		t.Fatalf("expected ErrDateRequired, got %v", err)
	}
}
