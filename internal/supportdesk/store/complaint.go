package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/kart-io/support-desk/internal/model"
)

type complaints struct {
	db *gorm.DB
}

func newComplaints(db *gorm.DB) *complaints {
	return &complaints{db}
}

// Create stores a new complaint ticket.
func (c *complaints) Create(ctx context.Context, complaint *model.Complaint) error {
	return c.db.WithContext(ctx).Create(complaint).Error
}

// Get returns the complaint with the given public ID, or (nil, nil)
// when no such complaint exists.
func (c *complaints) Get(ctx context.Context, complaintID string) (*model.Complaint, error) {
	var complaint model.Complaint
	err := c.db.WithContext(ctx).
		Where("complaint_id = ?", complaintID).
		First(&complaint).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &complaint, nil
}
