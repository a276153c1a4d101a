package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"foodgram/internal/models"
	"foodgram/internal/shopping"
)

func (s *Store) ListShoppingListRecipeIDs(ctx context.Context, userID int) ([]int, error) {
	rows, err := s.q.Query(ctx,
		"SELECT recipe_id FROM shopping_list_entries WHERE user_id = $1 ORDER BY recipe_id", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shopping list recipes: %w", err)
	}
	ids, err := collectInts(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan shopping list recipes: %w", err)
	}
	return ids, nil
}

func (s *Store) ListIngredientLines(ctx context.Context, recipeID int) ([]models.RecipeIngredient, error) {
	rows, err := s.q.Query(ctx,
		`SELECT i.id, i.name, i.measurement_unit, ri.amount
		 FROM recipe_ingredients ri JOIN ingredients i ON i.id = ri.ingredient_id
		 WHERE ri.recipe_id = $1 ORDER BY ri.id`, recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredient lines: %w", err)
	}
	defer rows.Close()

	lines := []models.RecipeIngredient{}
	for rows.Next() {
		var line models.RecipeIngredient
		if err := rows.Scan(&line.ID, &line.Name, &line.MeasurementUnit, &line.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient line: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// ReadSnapshot runs fn inside a read-only repeatable-read transaction so every
// read it makes sees the same state of the shopping list and recipes.
func (s *Store) ReadSnapshot(ctx context.Context, fn func(shopping.Source) error) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return fmt.Errorf("failed to begin snapshot: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&Store{db: s.db, q: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

var _ shopping.Snapshotter = (*Store)(nil)
