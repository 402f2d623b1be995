package contacts

import (
	"context"
	"path/filepath"
	"testing"

	"contactsapp/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "contacts.db")), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Contact{}, &models.Thumb{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewRepository(db)
}

func seedAuthor(id uint, first string) *models.User {
	return &models.User{ID: id, Username: "u", FirstName: first, LastName: "Poster", Email: first + "@example.com"}
}

func TestCreateStampsAuthorNameAndEmail(t *testing.T) {
	r := newTestRepo(t)
	id, err := r.Create(context.Background(), seedAuthor(1, "Ada"), "first post")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	var row models.Contact
	if err := r.db.First(&row, id).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if row.Name != "Ada Poster" || row.Email != "Ada@example.com" {
		t.Fatalf("author not stamped: %+v", row)
	}
	if row.ImageURL != nil {
		t.Fatalf("new post should have no image URL")
	}
}

func TestListOrderIsCallerSpecified(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	first, _ := r.Create(ctx, seedAuthor(1, "Ada"), "one")
	second, _ := r.Create(ctx, seedAuthor(1, "Ada"), "two")

	rows, err := r.List(ctx, true)
	if err != nil {
		t.Fatalf("list desc: %v", err)
	}
	if len(rows) != 2 || rows[0].ID != second {
		t.Fatalf("expected newest first, got %+v", rows)
	}
	rows, err = r.List(ctx, false)
	if err != nil {
		t.Fatalf("list asc: %v", err)
	}
	if rows[0].ID != first {
		t.Fatalf("expected insertion order, got %+v", rows)
	}
}

func TestDeleteRequiresOwnershipOrAdmin(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	id, _ := r.Create(ctx, seedAuthor(1, "Ada"), "mine")

	if err := r.Delete(ctx, id, 2, false); err != ErrForbidden {
		t.Fatalf("expected ErrForbidden for non-author, got %v", err)
	}
	if err := r.Delete(ctx, id, 2, true); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
	var n int64
	r.db.Model(&models.Contact{}).Count(&n)
	if n != 0 {
		t.Fatalf("post not deleted")
	}
}

func TestDeleteCascadesVotesAndToleratesAbsence(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	id, _ := r.Create(ctx, seedAuthor(1, "Ada"), "rated")
	if err := r.db.Create(&models.Thumb{ContactID: id, RaterID: 9, Rating: 1}).Error; err != nil {
		t.Fatalf("seed vote: %v", err)
	}
	if err := r.Delete(ctx, id, 1, false); err != nil {
		t.Fatalf("author delete: %v", err)
	}
	var n int64
	r.db.Model(&models.Thumb{}).Where("contact_id = ?", id).Count(&n)
	if n != 0 {
		t.Fatalf("votes survived post deletion")
	}
	// deleting an absent post is a no-op
	if err := r.Delete(ctx, id, 1, false); err != nil {
		t.Fatalf("delete absent: %v", err)
	}
}
