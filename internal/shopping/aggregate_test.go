package shopping

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram/internal/models"
)

type fakeSource struct {
	cart    map[int][]int
	lines   map[int][]models.RecipeIngredient
	listErr error
	lineErr error
	reads   int
}

func (f *fakeSource) ListShoppingListRecipeIDs(_ context.Context, userID int) ([]int, error) {
	f.reads++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.cart[userID], nil
}

func (f *fakeSource) ListIngredientLines(_ context.Context, recipeID int) ([]models.RecipeIngredient, error) {
	f.reads++
	if f.lineErr != nil {
		return nil, f.lineErr
	}
	return f.lines[recipeID], nil
}

func line(name, unit string, amount int) models.RecipeIngredient {
	return models.RecipeIngredient{Name: name, MeasurementUnit: unit, Amount: amount}
}

func scenarioSource() *fakeSource {
	return &fakeSource{
		cart: map[int][]int{1: {10, 20}},
		lines: map[int][]models.RecipeIngredient{
			10: {line("Salt", "g", 10), line("Sugar", "g", 5)},
			20: {line("Salt", "g", 15), line("Flour", "g", 200)},
		},
	}
}

func TestAggregate(t *testing.T) {
	ctx := context.Background()

	t.Run("Scenario", func(t *testing.T) {
		rows, err := Aggregate(ctx, scenarioSource(), 1)
		require.NoError(t, err)
		assert.Equal(t, []Row{
			{Name: "Flour", Amount: 200, MeasurementUnit: "g"},
			{Name: "Salt", Amount: 25, MeasurementUnit: "g"},
			{Name: "Sugar", Amount: 5, MeasurementUnit: "g"},
		}, rows)
	})

	t.Run("EmptyShoppingList", func(t *testing.T) {
		rows, err := Aggregate(ctx, scenarioSource(), 2)
		require.NoError(t, err)
		assert.NotNil(t, rows)
		assert.Empty(t, rows)
	})

	t.Run("UnitSensitive", func(t *testing.T) {
		src := &fakeSource{
			cart: map[int][]int{1: {1, 2}},
			lines: map[int][]models.RecipeIngredient{
				1: {line("Salt", "g", 10)},
				2: {line("Salt", "tsp", 2)},
			},
		}
		rows, err := Aggregate(ctx, src, 1)
		require.NoError(t, err)
		assert.Equal(t, []Row{
			{Name: "Salt", Amount: 10, MeasurementUnit: "g"},
			{Name: "Salt", Amount: 2, MeasurementUnit: "tsp"},
		}, rows)
	})

	t.Run("Idempotent", func(t *testing.T) {
		src := scenarioSource()
		first, err := Aggregate(ctx, src, 1)
		require.NoError(t, err)
		second, err := Aggregate(ctx, src, 1)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("ReadsOncePerRecipe", func(t *testing.T) {
		src := scenarioSource()
		_, err := Aggregate(ctx, src, 1)
		require.NoError(t, err)
		assert.Equal(t, 3, src.reads)
	})

	t.Run("ConservesQuantity", func(t *testing.T) {
		rng := rand.New(rand.NewSource(42))
		names := []string{"salt", "sugar", "flour", "milk", "eggs"}
		units := []string{"g", "ml", "pcs"}

		src := &fakeSource{cart: map[int][]int{}, lines: map[int][]models.RecipeIngredient{}}
		want := map[groupKey]int{}
		for recipeID := 1; recipeID <= 25; recipeID++ {
			src.cart[7] = append(src.cart[7], recipeID)
			for i := 0; i < 4; i++ {
				l := line(names[rng.Intn(len(names))], units[rng.Intn(len(units))], rng.Intn(500)+1)
				src.lines[recipeID] = append(src.lines[recipeID], l)
				want[groupKey{name: l.Name, unit: l.MeasurementUnit}] += l.Amount
			}
		}

		rows, err := Aggregate(ctx, src, 7)
		require.NoError(t, err)
		require.Len(t, rows, len(want))

		got := map[groupKey]int{}
		for i, row := range rows {
			got[groupKey{name: row.Name, unit: row.MeasurementUnit}] = row.Amount
			if i > 0 {
				prev := rows[i-1]
				assert.True(t, prev.Name < row.Name || (prev.Name == row.Name && prev.MeasurementUnit < row.MeasurementUnit),
					"rows out of order at %d: %v then %v", i, prev, row)
			}
		}
		assert.Equal(t, want, got)
	})

	t.Run("ListFailure", func(t *testing.T) {
		cause := errors.New("connection refused")
		_, err := Aggregate(ctx, &fakeSource{listErr: cause}, 1)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrRetrieval)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("LineFailure", func(t *testing.T) {
		src := scenarioSource()
		src.lineErr = errors.New("timeout")
		_, err := Aggregate(ctx, src, 1)
		assert.ErrorIs(t, err, ErrRetrieval)
	})

	t.Run("Cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		src := scenarioSource()
		_, err := Aggregate(cctx, src, 1)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, src.reads)
	})
}
