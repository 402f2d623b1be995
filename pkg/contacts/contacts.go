// Package contacts is the thin CRUD layer over posts.
package contacts

import (
	"context"
	"fmt"

	"contactsapp/models"

	"gorm.io/gorm"
)

// ErrForbidden means the caller may not delete the post (not the author,
// not an administrator).
var ErrForbidden = fmt.Errorf("not the post author")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns all posts. Order is caller-specified: newestFirst reverses
// the insertion order.
func (r *Repository) List(ctx context.Context, newestFirst bool) ([]models.Contact, error) {
	order := "id asc"
	if newestFirst {
		order = "id desc"
	}
	var rows []models.Contact
	if err := r.db.WithContext(ctx).Order(order).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Create inserts a post authored by the given user and returns its id.
func (r *Repository) Create(ctx context.Context, author *models.User, content string) (uint, error) {
	row := models.Contact{
		UserID:      author.ID,
		PostContent: content,
		Name:        author.DisplayName(),
		Email:       author.Email,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, err
	}
	return row.ID, nil
}

// Delete removes a post. Only the author or an administrator may delete.
// Deleting an absent post is a no-op.
func (r *Repository) Delete(ctx context.Context, id, caller uint, admin bool) error {
	var row models.Contact
	err := r.db.WithContext(ctx).First(&row, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	if !admin && row.UserID != caller {
		return ErrForbidden
	}
	// drop the post's votes with it
	if err := r.db.WithContext(ctx).Where("contact_id = ?", id).Delete(&models.Thumb{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&models.Contact{}, id).Error
}
