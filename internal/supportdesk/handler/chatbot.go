package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kart-io/support-desk/internal/model"
	"github.com/kart-io/support-desk/internal/supportdesk/biz"
	apierrors "github.com/kart-io/support-desk/pkg/errors"
)

// defaultTurnTimeout bounds a full chatbot turn, which may involve up to
// three model calls plus retrieval.
const defaultTurnTimeout = 60 * time.Second

// ChatbotHandler handles conversational requests.
type ChatbotHandler struct {
	bot     *biz.BotService
	timeout time.Duration
}

// NewChatbotHandler creates a ChatbotHandler.
func NewChatbotHandler(bot *biz.BotService) *ChatbotHandler {
	return &ChatbotHandler{
		bot:     bot,
		timeout: defaultTurnTimeout,
	}
}

// Chat processes one user message and returns the bot's reply.
func (h *ChatbotHandler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apierrors.ErrDeskInvalidRequest.WithCause(err))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	reply, err := h.bot.HandleTurn(ctx, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bot_response": reply})
}
