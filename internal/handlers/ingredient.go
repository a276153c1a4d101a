package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foodgram/internal/logger"
	"foodgram/internal/store"
)

type IngredientHandler struct {
	store *store.Store
	log   *logger.Logger
}

func NewIngredientHandler(st *store.Store, log *logger.Logger) *IngredientHandler {
	return &IngredientHandler{store: st, log: log}
}

// GetIngredients is unpaginated; "name" narrows it to names containing the
// query, with prefix matches first.
func (h *IngredientHandler) GetIngredients(c *gin.Context) {
	ingredients, err := h.store.ListIngredients(c.Request.Context(), c.Query("name"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, ingredients)
}

func (h *IngredientHandler) GetIngredient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ingredient, err := h.store.GetIngredient(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, ingredient)
}
