package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"foodgram/internal/config"
	"foodgram/internal/logger"
	"foodgram/internal/media"
	"foodgram/internal/models"
	"foodgram/internal/store"
)

type RecipeHandler struct {
	store      *store.Store
	media      *media.Storage
	validator  *validator.Validate
	pagination config.PaginationConfig
	log        *logger.Logger
}

func NewRecipeHandler(st *store.Store, storage *media.Storage, pagination config.PaginationConfig, log *logger.Logger) *RecipeHandler {
	return &RecipeHandler{
		store:      st,
		media:      storage,
		validator:  newValidator(),
		pagination: pagination,
		log:        log,
	}
}

func (h *RecipeHandler) present(recipe *models.Recipe) {
	recipe.Image = h.media.URL(recipe.Image)
}

func (h *RecipeHandler) presentShort(recipe *models.ShortRecipe) {
	recipe.Image = h.media.URL(recipe.Image)
}

// parseRecipeFilter reads the list query. Filters combine with AND; repeated
// "tags" values match recipes carrying any of them.
func parseRecipeFilter(c *gin.Context) (models.RecipeFilter, bool) {
	filter := models.RecipeFilter{
		TagSlugs:         c.QueryArray("tags"),
		IsFavorited:      c.Query("is_favorited") == "1",
		IsInShoppingCart: c.Query("is_in_shopping_cart") == "1",
	}
	if raw := c.Query("author"); raw != "" {
		authorID, err := strconv.Atoi(raw)
		if err != nil || authorID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid author"})
			return filter, false
		}
		filter.AuthorID = authorID
	}
	return filter, true
}

func (h *RecipeHandler) GetRecipes(c *gin.Context) {
	p, ok := parsePage(c, h.pagination)
	if !ok {
		return
	}
	filter, ok := parseRecipeFilter(c)
	if !ok {
		return
	}
	filter.Limit = p.Limit
	filter.Offset = p.Offset()

	recipes, count, err := h.store.ListRecipes(c.Request.Context(), filter, viewerID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	for i := range recipes {
		h.present(&recipes[i])
	}
	writePage(c, p, count, recipes)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	recipe, err := h.store.GetRecipe(c.Request.Context(), id, viewerID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.present(recipe)
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req models.CreateRecipeRequest
	if !bindAndValidate(c, h.validator, &req) {
		return
	}

	image, err := h.media.SaveDataURI(req.Image)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	ctx := c.Request.Context()
	id, err := h.store.CreateRecipe(ctx, models.RecipeInput{
		AuthorID:    userID,
		Name:        req.Name,
		Text:        req.Text,
		Image:       image,
		CookingTime: req.CookingTime,
		TagIDs:      req.Tags,
		Ingredients: req.Ingredients,
	})
	if err != nil {
		h.discardImage(image)
		respondRecipeWriteError(c, h.log, err)
		return
	}

	recipe, err := h.store.GetRecipe(ctx, id, userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.log.Info("recipe created", "recipe_id", id, "author_id", userID)
	h.present(recipe)
	c.JSON(http.StatusCreated, recipe)
}

// respondRecipeWriteError reports a duplicate name for the author apart from
// other write failures.
func respondRecipeWriteError(c *gin.Context, log *logger.Logger, err error) {
	if errors.Is(err, store.ErrConflict) && store.ConstraintName(err) == store.RecipeNameConstraint {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You already have a recipe with this name"})
		return
	}
	respondError(c, log, err)
}

// authorize answers 404 for a missing recipe and 403 when userID is not its author.
func (h *RecipeHandler) authorize(c *gin.Context, recipeID, userID int) bool {
	authorID, err := h.store.GetRecipeAuthorID(c.Request.Context(), recipeID)
	if err != nil {
		respondError(c, h.log, err)
		return false
	}
	if authorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to perform this action"})
		return false
	}
	return true
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if !h.authorize(c, id, userID) {
		return
	}
	var req models.UpdateRecipeRequest
	if !bindAndValidate(c, h.validator, &req) {
		return
	}

	ctx := c.Request.Context()
	current, err := h.store.GetShortRecipe(ctx, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	var image string
	if req.Image != "" {
		if image, err = h.media.SaveDataURI(req.Image); err != nil {
			respondError(c, h.log, err)
			return
		}
	}

	err = h.store.UpdateRecipe(ctx, id, models.RecipeInput{
		AuthorID:    userID,
		Name:        req.Name,
		Text:        req.Text,
		Image:       image,
		CookingTime: req.CookingTime,
		TagIDs:      req.Tags,
		Ingredients: req.Ingredients,
	})
	if err != nil {
		h.discardImage(image)
		respondRecipeWriteError(c, h.log, err)
		return
	}
	if image != "" {
		h.discardImage(current.Image)
	}

	recipe, err := h.store.GetRecipe(ctx, id, userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.present(recipe)
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if !h.authorize(c, id, userID) {
		return
	}

	ctx := c.Request.Context()
	current, err := h.store.GetShortRecipe(ctx, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if err := h.store.DeleteRecipe(ctx, id); err != nil {
		respondError(c, h.log, err)
		return
	}
	h.discardImage(current.Image)
	h.log.Info("recipe deleted", "recipe_id", id, "author_id", userID)
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) discardImage(stored string) {
	if err := h.media.Remove(stored); err != nil {
		h.log.Warn("failed to remove recipe image", "image", stored, "error", err)
	}
}

// recipeAction is a user-to-recipe relation toggled through POST and DELETE.
type recipeAction struct {
	add       func(*store.Store, context.Context, int, int) error
	remove    func(*store.Store, context.Context, int, int) (bool, error)
	duplicate string
	missing   string
}

var (
	favoriteAction = recipeAction{
		add:       (*store.Store).AddFavorite,
		remove:    (*store.Store).RemoveFavorite,
		duplicate: "Recipe is already in favorites",
		missing:   "Recipe is not in favorites",
	}
	shoppingCartAction = recipeAction{
		add:       (*store.Store).AddToShoppingList,
		remove:    (*store.Store).RemoveFromShoppingList,
		duplicate: "Recipe is already in the shopping cart",
		missing:   "Recipe is not in the shopping cart",
	}
)

func (h *RecipeHandler) addRelation(c *gin.Context, action recipeAction) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	recipe, err := h.store.GetShortRecipe(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if err := action.add(h.store, c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, store.ErrConflict) {
			c.JSON(http.StatusBadRequest, gin.H{"error": action.duplicate})
			return
		}
		respondError(c, h.log, err)
		return
	}
	h.presentShort(recipe)
	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) removeRelation(c *gin.Context, action recipeAction) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if _, err := h.store.GetShortRecipe(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	removed, err := action.remove(h.store, c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if !removed {
		c.JSON(http.StatusBadRequest, gin.H{"error": action.missing})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) AddFavorite(c *gin.Context)    { h.addRelation(c, favoriteAction) }
func (h *RecipeHandler) RemoveFavorite(c *gin.Context) { h.removeRelation(c, favoriteAction) }

func (h *RecipeHandler) AddToShoppingCart(c *gin.Context)      { h.addRelation(c, shoppingCartAction) }
func (h *RecipeHandler) RemoveFromShoppingCart(c *gin.Context) { h.removeRelation(c, shoppingCartAction) }
