package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/kart-io/support-desk/internal/model"
)

type userDetails struct {
	db *gorm.DB
}

func newUserDetails(db *gorm.DB) *userDetails {
	return &userDetails{db}
}

// Create appends a new user detail row.
func (u *userDetails) Create(ctx context.Context, detail *model.UserDetail) error {
	return u.db.WithContext(ctx).Create(detail).Error
}

// Latest returns the most recent detail row for the user, or (nil, nil)
// when the user has no rows yet.
func (u *userDetails) Latest(ctx context.Context, userID string) (*model.UserDetail, error) {
	var detail model.UserDetail
	err := u.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&detail).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &detail, nil
}
