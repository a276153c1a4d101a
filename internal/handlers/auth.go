package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"foodgram/internal/auth"
	"foodgram/internal/logger"
	"foodgram/internal/models"
	"foodgram/internal/store"
)

type AuthHandler struct {
	store      *store.Store
	jwtManager *auth.JWTManager
	validator  *validator.Validate
	log        *logger.Logger
}

func NewAuthHandler(st *store.Store, jwtManager *auth.JWTManager, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		store:      st,
		jwtManager: jwtManager,
		validator:  newValidator(),
		log:        log,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.CreateUserRequest
	if !bindAndValidate(c, h.validator, &req) {
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		Email:        req.Email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hashedPassword,
	}
	if err := h.store.CreateUser(c.Request.Context(), &user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User with this email or username already exists"})
			return
		}
		respondError(c, h.log, err)
		return
	}

	h.log.Info("user registered", "user_id", user.ID, "username", user.Username)
	c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindAndValidate(c, h.validator, &req) {
		return
	}

	user, err := h.store.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		respondError(c, h.log, err)
		return
	}
	if user == nil || !user.IsActive || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := h.jwtManager.GenerateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	if err := h.store.TouchLastLogin(c.Request.Context(), user.ID); err != nil {
		h.log.Warn("failed to record last login", "user_id", user.ID, "error", err)
	}

	c.JSON(http.StatusOK, models.LoginResponse{Token: token})
}

// Logout acknowledges the request. Tokens are stateless and expire on their own.
func (h *AuthHandler) Logout(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	c.Status(http.StatusNoContent)
}
