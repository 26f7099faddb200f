package store

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kart-io/support-desk/internal/model"
)

func setupTestFactory(t *testing.T) Factory {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	factory, err := NewFactory(db)
	require.NoError(t, err)
	return factory
}

func TestConversationStore_RecentOrdering(t *testing.T) {
	factory := setupTestFactory(t)
	ctx := context.Background()
	convStore := factory.Conversations()

	texts := []string{"first", "second", "third", "fourth"}
	for _, text := range texts {
		err := convStore.Create(ctx, &model.ConversationRecord{
			UserID:   "user-1",
			UserText: text,
			Response: "reply to " + text,
		})
		require.NoError(t, err)
	}
	// Another user's records must never leak into the window.
	require.NoError(t, convStore.Create(ctx, &model.ConversationRecord{
		UserID:   "user-2",
		UserText: "other",
		Response: "other reply",
	}))

	records, err := convStore.Recent(ctx, "user-1", 2)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// The two most recent rows, oldest first.
	assert.Equal(t, "third", records[0].UserText)
	assert.Equal(t, "fourth", records[1].UserText)
}

func TestConversationStore_RecentEmpty(t *testing.T) {
	factory := setupTestFactory(t)

	records, err := factory.Conversations().Recent(context.Background(), "nobody", 2)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestUserDetailStore_Latest(t *testing.T) {
	factory := setupTestFactory(t)
	ctx := context.Background()
	detailStore := factory.UserDetails()

	detail, err := detailStore.Latest(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, detail)

	require.NoError(t, detailStore.Create(ctx, &model.UserDetail{
		UserID: "user-1",
		Name:   "Alice",
	}))
	require.NoError(t, detailStore.Create(ctx, &model.UserDetail{
		UserID:      "user-1",
		Name:        "Alice",
		PhoneNumber: "1234567890",
	}))

	detail, err = detailStore.Latest(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, "1234567890", detail.PhoneNumber)
}

func TestComplaintStore_CreateAndGet(t *testing.T) {
	factory := setupTestFactory(t)
	ctx := context.Background()
	complaintStore := factory.Complaints()

	complaint := &model.Complaint{
		ComplaintID:      "abc-123",
		Name:             "Bob",
		PhoneNumber:      "9876543210",
		Email:            "bob@example.com",
		ComplaintDetails: "Router keeps rebooting",
		Status:           model.ComplaintStatusPending,
	}
	require.NoError(t, complaintStore.Create(ctx, complaint))

	got, err := complaintStore.Get(ctx, "abc-123")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Bob", got.Name)
	assert.Equal(t, model.ComplaintStatusPending, got.Status)
}

func TestComplaintStore_GetMissing(t *testing.T) {
	factory := setupTestFactory(t)

	got, err := factory.Complaints().Get(context.Background(), "missing-id")
	require.NoError(t, err)
	assert.Nil(t, got)
}
