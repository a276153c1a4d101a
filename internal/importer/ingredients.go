// Package importer reads reference data files into models.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"foodgram/internal/models"
)

// ParseIngredients reads "name,measurement_unit" records. The first record is a
// header and is skipped; blank names are rejected and exact duplicates collapsed.
func ParseIngredients(r io.Reader) ([]models.Ingredient, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return []models.Ingredient{}, nil
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	seen := make(map[models.Ingredient]struct{})
	ingredients := []models.Ingredient{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read ingredients: %w", err)
		}

		ing := models.Ingredient{
			Name:            strings.TrimSpace(record[0]),
			MeasurementUnit: strings.TrimSpace(record[1]),
		}
		if ing.Name == "" || ing.MeasurementUnit == "" {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("line %d: name and measurement unit are required", line)
		}
		if _, dup := seen[ing]; dup {
			continue
		}
		seen[ing] = struct{}{}
		ingredients = append(ingredients, ing)
	}
	return ingredients, nil
}
