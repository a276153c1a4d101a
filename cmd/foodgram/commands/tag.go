package commands

import (
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	"foodgram/internal/models"
	"foodgram/internal/store"
)

var (
	tagName  string
	tagSlug  string
	tagColor string
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

var createTagCmd = &cobra.Command{
	Use:   "create-tag",
	Short: "Add a recipe tag",
	Long: `Add a recipe tag. Tags are managed by operators; the API only reads them.

Examples:
  foodgram create-tag --name Breakfast --slug breakfast --color "#E26C2D"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !hexColor.MatchString(tagColor) {
			return fmt.Errorf("color must look like #RRGGBB, got %q", tagColor)
		}

		rt, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()

		tag := models.Tag{Name: tagName, Slug: tagSlug, Color: tagColor}
		if err := store.New(rt.db).CreateTag(cmd.Context(), &tag); err != nil {
			return err
		}
		rt.log.Info("tag created", "id", tag.ID, "slug", tag.Slug)
		return nil
	},
}

func init() {
	createTagCmd.Flags().StringVar(&tagName, "name", "", "Tag name")
	createTagCmd.Flags().StringVar(&tagSlug, "slug", "", "Tag slug used in recipe filters")
	createTagCmd.Flags().StringVar(&tagColor, "color", "", "Tag color as #RRGGBB")
	for _, flag := range []string{"name", "slug", "color"} {
		_ = createTagCmd.MarkFlagRequired(flag)
	}
	rootCmd.AddCommand(createTagCmd)
}
