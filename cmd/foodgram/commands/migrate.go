package commands

import (
	"github.com/spf13/cobra"

	"foodgram/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database schema",
	Long:  `Create every table and index that does not exist yet. Safe to run repeatedly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()

		created, err := database.Migrate(cmd.Context(), rt.db)
		if err != nil {
			return err
		}
		if created {
			rt.log.Info("database schema created")
		} else {
			rt.log.Info("database schema up to date")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
