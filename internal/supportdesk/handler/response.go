// Package handler provides HTTP handlers for the support desk service.
package handler

import (
	"github.com/gin-gonic/gin"

	apierrors "github.com/kart-io/support-desk/pkg/errors"
)

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeError(c *gin.Context, err error) {
	errno := apierrors.FromError(err)
	c.JSON(errno.HTTPStatus(), ErrorResponse{
		Code:    errno.Code,
		Message: errno.Message("en"),
	})
}
