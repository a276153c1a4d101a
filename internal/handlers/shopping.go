package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"foodgram/internal/logger"
	"foodgram/internal/metrics"
	"foodgram/internal/shopping"
)

// ShoppingListDownloader builds the user's shopping list document.
type ShoppingListDownloader interface {
	Download(ctx context.Context, userID int, format shopping.Format) (*shopping.File, error)
}

type ShoppingHandler struct {
	downloads     ShoppingListDownloader
	defaultFormat string
	log           *logger.Logger
}

func NewShoppingHandler(downloads ShoppingListDownloader, defaultFormat string, log *logger.Logger) *ShoppingHandler {
	return &ShoppingHandler{downloads: downloads, defaultFormat: defaultFormat, log: log}
}

// DownloadShoppingCart sends the merged ingredient list of every recipe in the
// user's cart as an attachment. "format" picks txt, pdf or png.
func (h *ShoppingHandler) DownloadShoppingCart(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	format, err := shopping.ParseFormat(c.DefaultQuery("format", h.defaultFormat))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	file, err := h.downloads.Download(c.Request.Context(), userID, format)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			h.log.Debug("shopping list download cancelled", "user_id", userID)
			c.Abort()
			return
		}
		h.log.Error("failed to build shopping list", "user_id", userID, "format", format, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build shopping list"})
		return
	}

	metrics.RecordExport(string(format), file.Rows)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Name))
	c.Data(http.StatusOK, file.ContentType, file.Body)
}
