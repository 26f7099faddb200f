package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kart-io/support-desk/internal/supportdesk/biz"
)

// DocsHandler rebuilds the knowledge base index.
type DocsHandler struct {
	indexer *biz.Indexer
}

// NewDocsHandler creates a DocsHandler.
func NewDocsHandler(indexer *biz.Indexer) *DocsHandler {
	return &DocsHandler{indexer: indexer}
}

// Index re-chunks and re-embeds every document in the configured data
// directory. The collection is rebuilt from scratch.
func (h *DocsHandler) Index(c *gin.Context) {
	count, err := h.indexer.Reindex(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Successfully inserted %d records into Milvus.", count),
	})
}
