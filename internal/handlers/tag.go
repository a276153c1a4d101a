package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foodgram/internal/logger"
	"foodgram/internal/store"
)

type TagHandler struct {
	store *store.Store
	log   *logger.Logger
}

func NewTagHandler(st *store.Store, log *logger.Logger) *TagHandler {
	return &TagHandler{store: st, log: log}
}

func (h *TagHandler) GetTags(c *gin.Context) {
	tags, err := h.store.ListTags(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (h *TagHandler) GetTag(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	tag, err := h.store.GetTag(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}
