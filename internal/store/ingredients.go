package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"foodgram/internal/models"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ListIngredients matches name case-insensitively anywhere in the ingredient name,
// listing prefix matches first. An empty name returns everything.
func (s *Store) ListIngredients(ctx context.Context, name string) ([]models.Ingredient, error) {
	pattern := likeEscaper.Replace(strings.ToLower(strings.TrimSpace(name)))
	rows, err := s.q.Query(ctx,
		`SELECT id, name, measurement_unit FROM ingredients
		 WHERE LOWER(name) LIKE '%' || $1 || '%'
		 ORDER BY LOWER(name) LIKE $1 || '%' DESC, name, measurement_unit`,
		pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	defer rows.Close()

	ingredients := []models.Ingredient{}
	for rows.Next() {
		var ing models.Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.MeasurementUnit); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		ingredients = append(ingredients, ing)
	}
	return ingredients, rows.Err()
}

func (s *Store) GetIngredient(ctx context.Context, id int) (*models.Ingredient, error) {
	var ing models.Ingredient
	err := s.q.QueryRow(ctx, "SELECT id, name, measurement_unit FROM ingredients WHERE id = $1", id).Scan(
		&ing.ID, &ing.Name, &ing.MeasurementUnit)
	if err != nil {
		return nil, fmt.Errorf("failed to get ingredient: %w", mapError(err))
	}
	return &ing, nil
}

// ImportIngredients inserts ingredients in one batch and skips pairs that already exist.
// It returns how many rows were actually inserted.
func (s *Store) ImportIngredients(ctx context.Context, ingredients []models.Ingredient) (int, error) {
	if len(ingredients) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, ing := range ingredients {
		batch.Queue(
			`INSERT INTO ingredients (name, measurement_unit) VALUES ($1, $2)
			 ON CONFLICT (name, measurement_unit) DO NOTHING`,
			ing.Name, ing.MeasurementUnit)
	}

	var inserted int
	err := s.inTx(ctx, func(tx *Store) error {
		results := tx.q.SendBatch(ctx, batch)
		defer results.Close()
		for range ingredients {
			tag, err := results.Exec()
			if err != nil {
				return fmt.Errorf("failed to import ingredient: %w", err)
			}
			inserted += int(tag.RowsAffected())
		}
		return results.Close()
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}
