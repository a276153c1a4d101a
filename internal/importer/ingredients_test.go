package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram/internal/models"
)

func TestParseIngredients(t *testing.T) {
	input := "name,measurement_unit\n" +
		"абрикосовое варенье,г\n" +
		"salt, g\n" +
		"\"milk, whole\",ml\n" +
		"salt,g\n"

	got, err := ParseIngredients(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []models.Ingredient{
		{Name: "абрикосовое варенье", MeasurementUnit: "г"},
		{Name: "salt", MeasurementUnit: "g"},
		{Name: "milk, whole", MeasurementUnit: "ml"},
	}, got)
}

func TestParseIngredientsEmpty(t *testing.T) {
	got, err := ParseIngredients(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = ParseIngredients(strings.NewReader("name,measurement_unit\n"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseIngredientsErrors(t *testing.T) {
	_, err := ParseIngredients(strings.NewReader("name,measurement_unit\nsalt\n"))
	assert.Error(t, err)

	_, err = ParseIngredients(strings.NewReader("name,measurement_unit\nsalt,g\n,kg\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}
