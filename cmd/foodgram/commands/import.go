package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"foodgram/internal/importer"
	"foodgram/internal/store"
)

var ingredientsFile string

var importIngredientsCmd = &cobra.Command{
	Use:   "import-ingredients",
	Short: "Load ingredients from a CSV file",
	Long: `Load ingredients from a CSV file with a "name,measurement_unit" header.
Pairs that already exist are skipped.

Examples:
  foodgram import-ingredients --file data/ingredients.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(ingredientsFile)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", ingredientsFile, err)
		}
		defer f.Close()

		ingredients, err := importer.ParseIngredients(f)
		if err != nil {
			return fmt.Errorf("%s: %w", ingredientsFile, err)
		}

		rt, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()

		inserted, err := store.New(rt.db).ImportIngredients(cmd.Context(), ingredients)
		if err != nil {
			return err
		}
		rt.log.Info("ingredients imported", "file", ingredientsFile, "read", len(ingredients), "inserted", inserted)
		return nil
	},
}

func init() {
	importIngredientsCmd.Flags().StringVarP(&ingredientsFile, "file", "f", "", "CSV file to import")
	_ = importIngredientsCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(importIngredientsCmd)
}
