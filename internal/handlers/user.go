package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"foodgram/internal/auth"
	"foodgram/internal/config"
	"foodgram/internal/logger"
	"foodgram/internal/media"
	"foodgram/internal/models"
	"foodgram/internal/store"
)

type UserHandler struct {
	store      *store.Store
	media      *media.Storage
	validator  *validator.Validate
	pagination config.PaginationConfig
	log        *logger.Logger
}

func NewUserHandler(st *store.Store, storage *media.Storage, pagination config.PaginationConfig, log *logger.Logger) *UserHandler {
	return &UserHandler{
		store:      st,
		media:      storage,
		validator:  newValidator(),
		pagination: pagination,
		log:        log,
	}
}

func (h *UserHandler) GetUsers(c *gin.Context) {
	p, ok := parsePage(c, h.pagination)
	if !ok {
		return
	}
	users, count, err := h.store.ListUsers(c.Request.Context(), viewerID(c), p.Limit, p.Offset())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	writePage(c, p, count, users)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	user, err := h.store.GetUser(c.Request.Context(), id, viewerID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	user, err := h.store.GetUser(c.Request.Context(), userID, userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) SetPassword(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req models.SetPasswordRequest
	if !bindAndValidate(c, h.validator, &req) {
		return
	}

	hash, err := h.store.GetPasswordHash(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if !auth.CheckPasswordHash(req.CurrentPassword, hash) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Current password is incorrect"})
		return
	}

	newHash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}
	if err := h.store.UpdatePassword(c.Request.Context(), userID, newHash); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// recipesLimit reads "recipes_limit"; 0 means every recipe of the author.
func recipesLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("recipes_limit"))
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}

func (h *UserHandler) presentSubscription(sub *models.Subscription) {
	for i := range sub.Recipes {
		sub.Recipes[i].Image = h.media.URL(sub.Recipes[i].Image)
	}
}

func (h *UserHandler) GetSubscriptions(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	p, ok := parsePage(c, h.pagination)
	if !ok {
		return
	}
	subs, count, err := h.store.ListSubscriptions(c.Request.Context(), userID, p.Limit, p.Offset(), recipesLimit(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	for i := range subs {
		h.presentSubscription(&subs[i])
	}
	writePage(c, p, count, subs)
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	authorID, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if _, err := h.store.GetUser(ctx, authorID, userID); err != nil {
		respondError(c, h.log, err)
		return
	}
	if err := h.store.Follow(ctx, userID, authorID); err != nil {
		switch {
		case errors.Is(err, store.ErrInvalidArgument):
			c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot subscribe to yourself"})
		case errors.Is(err, store.ErrConflict):
			c.JSON(http.StatusBadRequest, gin.H{"error": "You are already subscribed to this author"})
		default:
			respondError(c, h.log, err)
		}
		return
	}

	sub, err := h.store.GetSubscription(ctx, userID, authorID, recipesLimit(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.presentSubscription(sub)
	c.JSON(http.StatusCreated, sub)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	authorID, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if _, err := h.store.GetUser(ctx, authorID, userID); err != nil {
		respondError(c, h.log, err)
		return
	}
	removed, err := h.store.Unfollow(ctx, userID, authorID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if !removed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You are not subscribed to this author"})
		return
	}
	c.Status(http.StatusNoContent)
}
