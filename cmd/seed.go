package main

import (
	"github.com/spf13/cobra"

	"go_vocab_cards/internal/middleware"
	"go_vocab_cards/internal/repository"
	"go_vocab_cards/internal/service"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the admin and demo users when no users exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfigAndLogger()
		if err != nil {
			return err
		}
		db, closeDB, err := openDatabase(cfg, logger, cfg.Database.AutoMigrate)
		if err != nil {
			return err
		}
		defer closeDB()

		accounts := service.NewAccountService(db, repository.NewGormUserRepository(), repository.NewGormStatsRepository(), cfg.JWT)
		seeded, err := accounts.SeedDefaultUsers(middleware.WithLogger(cmd.Context(), logger), cfg.Seed)
		if err != nil {
			return err
		}
		if seeded {
			cmd.Println("default users created")
		} else {
			cmd.Println("users already exist, nothing to seed")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
