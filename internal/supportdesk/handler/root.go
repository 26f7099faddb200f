package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kart-io/support-desk/pkg/app"
)

// RootHandler serves the welcome and liveness endpoints.
type RootHandler struct {
	company string
}

// NewRootHandler creates a RootHandler.
func NewRootHandler(company string) *RootHandler {
	return &RootHandler{company: company}
}

// Welcome greets API explorers.
func (h *RootHandler) Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"Response": fmt.Sprintf("Welcome to the %s AI Bot!", h.company),
	})
}

// Healthz reports liveness.
func (h *RootHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": app.GetVersion(),
	})
}
