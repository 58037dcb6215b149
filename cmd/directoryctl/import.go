package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/civictechdc/electrify-dmv/api/internal/importer"
	mongodoc "github.com/civictechdc/electrify-dmv/api/internal/infrastructure/mongo"
)

var importCmd = &cobra.Command{
	Use:   "import-csv <file>",
	Short: "Import contractors from the spreadsheet export",
	Long: `Reads the contractor spreadsheet export and inserts one published listing
per company. Companies whose name already exists are skipped, and services or
certifications the directory does not know yet are created.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

// importStore joins the listing and tag repositories behind importer.Store.
type importStore struct {
	*mongodoc.ContractorRepository
	*mongodoc.TagRepository
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	return withDatabase(cmd.Context(), func(ctx context.Context, db *mongo.Database, cols mongodoc.Collections) error {
		store := importStore{
			ContractorRepository: mongodoc.NewContractorRepository(db, cols),
			TagRepository:        mongodoc.NewTagRepository(db, cols),
		}
		logger := log.New(cmd.ErrOrStderr(), "[directoryctl] ", log.LstdFlags)

		result, err := importer.New(store, logger).Import(ctx, f)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d contractors, skipped %d rows\n", result.Processed, result.Skipped)
		return nil
	})
}
