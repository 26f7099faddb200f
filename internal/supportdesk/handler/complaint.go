package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kart-io/support-desk/internal/model"
	"github.com/kart-io/support-desk/internal/supportdesk/biz"
	apierrors "github.com/kart-io/support-desk/pkg/errors"
)

// ComplaintHandler handles complaint CRUD requests.
type ComplaintHandler struct {
	svc *biz.ComplaintService
}

// NewComplaintHandler creates a ComplaintHandler.
func NewComplaintHandler(svc *biz.ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{svc: svc}
}

// Create registers a new complaint.
func (h *ComplaintHandler) Create(c *gin.Context) {
	var req model.NewComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apierrors.ErrDeskInvalidRequest.WithCause(err))
		return
	}

	complaintID, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"complaint_id": complaintID,
		"message":      "Complaint created successfully",
	})
}

// Get returns a complaint by ID. Unknown IDs resolve to a placeholder
// record rather than a 404.
func (h *ComplaintHandler) Get(c *gin.Context) {
	complaintID := c.Param("complaint_id")
	if complaintID == "" {
		writeError(c, apierrors.ErrMissingParam.WithMessage("complaint_id is required"))
		return
	}

	complaint, err := h.svc.Get(c.Request.Context(), complaintID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, complaint)
}
