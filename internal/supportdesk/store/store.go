// Package store provides persistence for conversations, user details
// and complaints.
package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/kart-io/support-desk/internal/model"
)

// Factory defines the factory interface for creating stores.
type Factory interface {
	Conversations() ConversationStore
	UserDetails() UserDetailStore
	Complaints() ComplaintStore
	Close() error
}

// ConversationStore defines conversation turn storage.
type ConversationStore interface {
	Create(ctx context.Context, record *model.ConversationRecord) error
	// Recent returns up to limit most recent turns for the user,
	// ordered oldest first.
	Recent(ctx context.Context, userID string, limit int) ([]*model.ConversationRecord, error)
}

// UserDetailStore defines collected user contact detail storage.
type UserDetailStore interface {
	Create(ctx context.Context, detail *model.UserDetail) error
	// Latest returns the most recent detail row for the user, or
	// (nil, nil) when none exists.
	Latest(ctx context.Context, userID string) (*model.UserDetail, error)
}

// ComplaintStore defines complaint ticket storage.
type ComplaintStore interface {
	Create(ctx context.Context, complaint *model.Complaint) error
	// Get returns the complaint with the given public ID, or
	// (nil, nil) when it does not exist.
	Get(ctx context.Context, complaintID string) (*model.Complaint, error)
}

// datastore implements the Factory interface.
type datastore struct {
	db *gorm.DB
}

// NewFactory creates a storage factory backed by the given gorm DB and
// migrates the schema.
func NewFactory(db *gorm.DB) (Factory, error) {
	ds := &datastore{db: db}
	if err := ds.AutoMigrate(); err != nil {
		return nil, err
	}
	return ds, nil
}

// Conversations returns the conversation store.
func (ds *datastore) Conversations() ConversationStore {
	return newConversations(ds.db)
}

// UserDetails returns the user detail store.
func (ds *datastore) UserDetails() UserDetailStore {
	return newUserDetails(ds.db)
}

// Complaints returns the complaint store.
func (ds *datastore) Complaints() ComplaintStore {
	return newComplaints(ds.db)
}

// AutoMigrate migrates the database schema.
func (ds *datastore) AutoMigrate() error {
	return ds.db.AutoMigrate(
		&model.ConversationRecord{},
		&model.UserDetail{},
		&model.Complaint{},
	)
}

// Close closes the factory and underlying connections.
func (ds *datastore) Close() error {
	return nil
}
