// Package router wires the support desk routes.
package router

import (
	"github.com/kart-io/logger"

	"github.com/kart-io/support-desk/internal/supportdesk/handler"
	"github.com/kart-io/support-desk/pkg/server"
)

// Register registers the support desk routes.
func Register(
	mgr *server.Manager,
	root *handler.RootHandler,
	chatbot *handler.ChatbotHandler,
	complaints *handler.ComplaintHandler,
	docs *handler.DocsHandler,
) {
	logger.Info("Registering support desk routes...")

	engine := mgr.Engine()

	engine.GET("/", root.Welcome)
	engine.GET("/healthz", root.Healthz)

	engine.POST("/chatbot", chatbot.Chat)

	engine.POST("/complaints", complaints.Create)
	engine.GET("/complaints/:complaint_id", complaints.Get)

	engine.POST("/documents/index", docs.Index)

	logger.Info("HTTP routes registered")
}
