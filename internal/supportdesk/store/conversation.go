package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/kart-io/support-desk/internal/model"
)

type conversations struct {
	db *gorm.DB
}

func newConversations(db *gorm.DB) *conversations {
	return &conversations{db}
}

// Create stores a new conversation turn.
func (c *conversations) Create(ctx context.Context, record *model.ConversationRecord) error {
	return c.db.WithContext(ctx).Create(record).Error
}

// Recent returns up to limit most recent turns for the user, ordered
// oldest first so the transcript reads chronologically.
func (c *conversations) Recent(ctx context.Context, userID string, limit int) ([]*model.ConversationRecord, error) {
	var records []*model.ConversationRecord
	err := c.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	// Reverse into chronological order.
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}
