package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"go_vocab_cards/internal/importer"
	"go_vocab_cards/internal/middleware"
	"go_vocab_cards/internal/model"
	"go_vocab_cards/internal/repository"
	"go_vocab_cards/internal/service"
)

var importCmd = &cobra.Command{
	Use:   "import-terms",
	Short: "Import terms from an .xlsx or .csv file (columns: En, Ru, Domain)",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		sheet, _ := cmd.Flags().GetString("sheet")
		domainFlag, _ := cmd.Flags().GetString("domain")
		if file == "" {
			return fmt.Errorf("--file is required")
		}
		domain, ok := model.ParseTermDomain(domainFlag)
		if !ok {
			return fmt.Errorf("unknown domain %q", domainFlag)
		}

		cfg, logger, err := loadConfigAndLogger()
		if err != nil {
			return err
		}
		db, closeDB, err := openDatabase(cfg, logger, cfg.Database.AutoMigrate)
		if err != nil {
			return err
		}
		defer closeDB()

		terms := service.NewTermService(db,
			repository.NewGormTermRepository(),
			repository.NewGormAssignmentRepository(),
			repository.NewGormUserAssignmentRepository(),
			repository.NewGormUserTermRepository(),
		)

		ctx := middleware.WithLogger(cmd.Context(), logger)
		res, err := importer.Import(ctx, terms, file, importer.Options{Sheet: sheet, DefaultDomain: domain})
		if res != nil {
			cmd.Printf("processed=%d created=%d skipped=%d errors=%d\n", res.Processed, res.Created, res.Skipped, len(res.Errors))
			for _, e := range res.Errors {
				cmd.Println("  " + e)
			}
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().String("file", "", "path to .xlsx or .csv file")
	importCmd.Flags().String("sheet", "", "sheet name for .xlsx (default: first sheet)")
	importCmd.Flags().String("domain", string(model.DomainGeneral), "domain for rows without a Domain column")
}
