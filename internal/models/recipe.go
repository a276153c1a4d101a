package models

import "time"

type Tag struct {
	ID    int    `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Color string `json:"color" db:"color"`
	Slug  string `json:"slug" db:"slug"`
}

// Ingredient is reference data identified by the (Name, MeasurementUnit) pair.
type Ingredient struct {
	ID              int    `json:"id" db:"id"`
	Name            string `json:"name" db:"name"`
	MeasurementUnit string `json:"measurement_unit" db:"measurement_unit"`
}

// RecipeIngredient is one ingredient line of a recipe: the referenced ingredient and its amount.
type RecipeIngredient struct {
	ID              int    `json:"id" db:"ingredient_id"`
	Name            string `json:"name" db:"name"`
	MeasurementUnit string `json:"measurement_unit" db:"measurement_unit"`
	Amount          int    `json:"amount" db:"amount"`
}

type Recipe struct {
	ID          int                `json:"id" db:"id"`
	Tags        []Tag              `json:"tags"`
	Author      User               `json:"author"`
	Ingredients []RecipeIngredient `json:"ingredients"`
	Name        string             `json:"name" db:"name"`
	Image       string             `json:"image" db:"image"`
	Text        string             `json:"text" db:"text"`
	CookingTime int                `json:"cooking_time" db:"cooking_time"`
	PubDate     time.Time          `json:"-" db:"pub_date"`

	// Computed for the requesting user
	IsFavorited      bool `json:"is_favorited"`
	IsInShoppingCart bool `json:"is_in_shopping_cart"`
}

// ShortRecipe is the compact form returned by favorite, shopping cart and subscription endpoints.
type ShortRecipe struct {
	ID          int    `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Image       string `json:"image" db:"image"`
	CookingTime int    `json:"cooking_time" db:"cooking_time"`
}

type IngredientAmountRequest struct {
	ID     int `json:"id" validate:"required,gt=0"`
	Amount int `json:"amount" validate:"required,min=1,max=100000"`
}

type CreateRecipeRequest struct {
	Ingredients []IngredientAmountRequest `json:"ingredients" validate:"required,min=1,unique=ID,dive"`
	Tags        []int                     `json:"tags" validate:"required,min=1,unique,dive,gt=0"`
	Image       string                    `json:"image" validate:"required"`
	Name        string                    `json:"name" validate:"required,max=200"`
	Text        string                    `json:"text" validate:"required"`
	CookingTime int                       `json:"cooking_time" validate:"required,min=1,max=32000"`
}

// UpdateRecipeRequest replaces tags and ingredient lines; an empty Image keeps the stored one.
type UpdateRecipeRequest struct {
	Ingredients []IngredientAmountRequest `json:"ingredients" validate:"required,min=1,unique=ID,dive"`
	Tags        []int                     `json:"tags" validate:"required,min=1,unique,dive,gt=0"`
	Image       string                    `json:"image"`
	Name        string                    `json:"name" validate:"required,max=200"`
	Text        string                    `json:"text" validate:"required"`
	CookingTime int                       `json:"cooking_time" validate:"required,min=1,max=32000"`
}

// RecipeFilter carries the list query parameters.
type RecipeFilter struct {
	TagSlugs         []string
	AuthorID         int
	IsFavorited      bool
	IsInShoppingCart bool
	Limit            int
	Offset           int
}

// RecipeInput is the validated write model handed to the store.
type RecipeInput struct {
	AuthorID    int
	Name        string
	Text        string
	Image       string
	CookingTime int
	TagIDs      []int
	Ingredients []IngredientAmountRequest
}
