// Package shopping builds a user's shopping list from the recipes they planned
// and renders it as a downloadable document.
package shopping

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"foodgram/internal/models"
)

// ErrRetrieval wraps any failure of the underlying store while a list is being built.
var ErrRetrieval = errors.New("failed to retrieve shopping list")

// Source is the read side of the entity store the aggregation needs.
type Source interface {
	ListShoppingListRecipeIDs(ctx context.Context, userID int) ([]int, error)
	ListIngredientLines(ctx context.Context, recipeID int) ([]models.RecipeIngredient, error)
}

// Row is one merged line of the shopping list.
type Row struct {
	Name            string `json:"name"`
	Amount          int    `json:"amount"`
	MeasurementUnit string `json:"measurement_unit"`
}

type groupKey struct {
	name string
	unit string
}

// Aggregate merges the ingredient lines of every recipe in the user's shopping list.
// Lines with the same ingredient name and measurement unit are summed; the same name
// with a different unit stays a separate row. Rows are ordered by name, then unit.
// An empty shopping list yields an empty slice and no error.
func Aggregate(ctx context.Context, src Source, userID int) ([]Row, error) {
	recipeIDs, err := src.ListShoppingListRecipeIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list recipes: %w", ErrRetrieval, err)
	}

	totals := make(map[groupKey]int)
	for _, recipeID := range recipeIDs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lines, err := src.ListIngredientLines(ctx, recipeID)
		if err != nil {
			return nil, fmt.Errorf("%w: ingredients of recipe %d: %w", ErrRetrieval, recipeID, err)
		}
		for _, line := range lines {
			totals[groupKey{name: line.Name, unit: line.MeasurementUnit}] += line.Amount
		}
	}

	rows := make([]Row, 0, len(totals))
	for key, amount := range totals {
		rows = append(rows, Row{Name: key.name, Amount: amount, MeasurementUnit: key.unit})
	}
	slices.SortFunc(rows, func(a, b Row) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.MeasurementUnit, b.MeasurementUnit))
	})
	return rows, nil
}
