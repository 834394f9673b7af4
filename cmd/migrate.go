package main

import (
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfigAndLogger()
		if err != nil {
			return err
		}
		_, closeDB, err := openDatabase(cfg, logger, true)
		if err != nil {
			return err
		}
		defer closeDB()

		cmd.Println("migration completed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
