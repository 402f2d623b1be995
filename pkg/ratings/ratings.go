// Package ratings keeps at most one thumbs vote per (post, rater) pair.
package ratings

import (
	"context"
	"fmt"

	"contactsapp/models"

	"gorm.io/gorm"
)

// ErrInvalidRating rejects votes outside {-1, 0, 1}.
var ErrInvalidRating = fmt.Errorf("rating must be -1, 0 or 1")

type Accumulator struct {
	db *gorm.DB
}

func NewAccumulator(db *gorm.DB) *Accumulator {
	return &Accumulator{db: db}
}

// Get returns the stored vote for (postID, rater), or 0 when the pair was
// never rated. Absence is not an error.
func (a *Accumulator) Get(ctx context.Context, postID, rater uint) (int, error) {
	var row models.Thumb
	err := a.db.WithContext(ctx).
		Where("contact_id = ? AND rater_id = ?", postID, rater).
		First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return row.Rating, nil
}

// Set upserts the (postID, rater) vote: a new vote overwrites, never
// duplicates.
func (a *Accumulator) Set(ctx context.Context, postID, rater uint, rating int) error {
	if rating < -1 || rating > 1 {
		return ErrInvalidRating
	}
	var row models.Thumb
	err := a.db.WithContext(ctx).
		Where("contact_id = ? AND rater_id = ?", postID, rater).
		First(&row).Error
	switch {
	case err == nil:
		return a.db.WithContext(ctx).Model(&row).Update("rating", rating).Error
	case err == gorm.ErrRecordNotFound:
		row = models.Thumb{ContactID: postID, RaterID: rater, Rating: rating}
		return a.db.WithContext(ctx).Create(&row).Error
	default:
		return err
	}
}
