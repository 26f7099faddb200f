package biz

import (
	"context"

	"github.com/google/uuid"
	"github.com/kart-io/logger"

	"github.com/kart-io/support-desk/internal/model"
	"github.com/kart-io/support-desk/internal/supportdesk/store"
	apierrors "github.com/kart-io/support-desk/pkg/errors"
)

// ComplaintService manages complaint tickets.
type ComplaintService struct {
	complaints store.ComplaintStore
}

// NewComplaintService creates a complaint service.
func NewComplaintService(complaints store.ComplaintStore) *ComplaintService {
	return &ComplaintService{complaints: complaints}
}

// Create registers a new complaint and returns its generated ID.
func (s *ComplaintService) Create(ctx context.Context, req *model.NewComplaintRequest) (string, error) {
	complaint := &model.Complaint{
		ComplaintID:      uuid.NewString(),
		Name:             req.Name,
		PhoneNumber:      req.PhoneNumber,
		Email:            req.Email,
		ComplaintDetails: req.ComplaintDetails,
		Status:           model.ComplaintStatusPending,
	}

	if err := s.complaints.Create(ctx, complaint); err != nil {
		logger.Errorw("Failed to create complaint", "error", err)
		return "", apierrors.ErrUpstreamDatabase.WithCause(err)
	}

	logger.Infow("Complaint created", "complaint_id", complaint.ComplaintID)
	return complaint.ComplaintID, nil
}

// Get looks up a complaint by ID. Unknown IDs resolve to a placeholder
// record rather than an error so the bot can answer about them directly.
func (s *ComplaintService) Get(ctx context.Context, complaintID string) (*model.Complaint, error) {
	complaint, err := s.complaints.Get(ctx, complaintID)
	if err != nil {
		logger.Errorw("Failed to fetch complaint", "complaint_id", complaintID, "error", err)
		return nil, apierrors.ErrUpstreamDatabase.WithCause(err)
	}
	if complaint == nil {
		return &model.Complaint{
			ComplaintID:      complaintID,
			Name:             "Unknown",
			PhoneNumber:      "Unknown",
			Email:            "Unknown",
			ComplaintDetails: "No details available for this complaint ID.",
			Status:           model.ComplaintStatusNotFound,
		}, nil
	}
	return complaint, nil
}
