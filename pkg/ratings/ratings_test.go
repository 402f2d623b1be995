package ratings

import (
	"context"
	"path/filepath"
	"testing"

	"contactsapp/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestAccumulator(t *testing.T) *Accumulator {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "ratings.db")), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Thumb{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewAccumulator(db)
}

func TestGetUnratedPairIsZero(t *testing.T) {
	a := newTestAccumulator(t)
	got, err := a.Get(context.Background(), 7, 42)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != 0 {
		t.Fatalf("expected 0 for never-rated pair, got %d", got)
	}
}

func TestSetThenGetRoundTrip(t *testing.T) {
	a := newTestAccumulator(t)
	ctx := context.Background()
	for _, v := range []int{-1, 0, 1} {
		if err := a.Set(ctx, 7, 42, v); err != nil {
			t.Fatalf("set %d: %v", v, err)
		}
		got, err := a.Get(ctx, 7, 42)
		if err != nil {
			t.Fatalf("get after set %d: %v", v, err)
		}
		if got != v {
			t.Fatalf("expected %d got %d", v, got)
		}
	}
}

func TestSetOverwritesInsteadOfDuplicating(t *testing.T) {
	a := newTestAccumulator(t)
	ctx := context.Background()
	if err := a.Set(ctx, 7, 42, 1); err != nil {
		t.Fatalf("first set: %v", err)
	}
	if err := a.Set(ctx, 7, 42, -1); err != nil {
		t.Fatalf("second set: %v", err)
	}
	var n int64
	if err := a.db.Model(&models.Thumb{}).Where("contact_id = ? AND rater_id = ?", 7, 42).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected exactly 1 row for the pair, got %d", n)
	}
	got, _ := a.Get(ctx, 7, 42)
	if got != -1 {
		t.Fatalf("expected overwrite to -1, got %d", got)
	}
}

func TestVotesAreScopedPerRater(t *testing.T) {
	a := newTestAccumulator(t)
	ctx := context.Background()
	if err := a.Set(ctx, 7, 42, 1); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := a.Get(ctx, 7, 43)
	if err != nil {
		t.Fatalf("get other rater: %v", err)
	}
	if got != 0 {
		t.Fatalf("other rater should read 0, got %d", got)
	}
}

func TestSetRejectsOutOfRange(t *testing.T) {
	a := newTestAccumulator(t)
	for _, v := range []int{-2, 2, 100} {
		if err := a.Set(context.Background(), 7, 42, v); err != ErrInvalidRating {
			t.Fatalf("expected ErrInvalidRating for %d, got %v", v, err)
		}
	}
}
