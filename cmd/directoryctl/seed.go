package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/civictechdc/electrify-dmv/api/internal/importer"
	mongodoc "github.com/civictechdc/electrify-dmv/api/internal/infrastructure/mongo"
	"github.com/civictechdc/electrify-dmv/api/internal/taxonomy"
)

var zipFile string

var seedTaxonomyCmd = &cobra.Command{
	Use:   "seed-taxonomy",
	Short: "Upsert the state, service and certification vocabulary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		vocab, err := taxonomy.Load(cfg.TaxonomyFile)
		if err != nil {
			return err
		}
		return withDatabase(cmd.Context(), func(ctx context.Context, db *mongo.Database, cols mongodoc.Collections) error {
			count, err := mongodoc.NewTagRepository(db, cols).SeedVocabulary(ctx, vocab)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d vocabulary entries\n", count)
			return nil
		})
	},
}

var seedZipsCmd = &cobra.Command{
	Use:   "seed-zips",
	Short: "Load zip code centroids (zip,lat,lng) into the gazetteer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(zipFile)
		if err != nil {
			return err
		}
		defer f.Close()

		entries, err := importer.ReadZipCoordinates(f)
		if err != nil {
			return err
		}
		return withDatabase(cmd.Context(), func(ctx context.Context, db *mongo.Database, cols mongodoc.Collections) error {
			changed, err := mongodoc.NewZipCodeRepository(db, cols.ZipCodes).Upsert(ctx, entries)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "read %d zip codes, %d inserted or changed\n", len(entries), changed)
			return nil
		})
	},
}

var ensureIndexesCmd = &cobra.Command{
	Use:   "ensure-indexes",
	Short: "Create the collection indexes the API relies on",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(cmd.Context(), func(ctx context.Context, db *mongo.Database, cols mongodoc.Collections) error {
			if err := mongodoc.EnsureIndexes(ctx, db, cols); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "indexes ensured")
			return nil
		})
	},
}

func init() {
	seedZipsCmd.Flags().StringVar(&zipFile, "file", "", "CSV file with zip,lat,lng rows")
	_ = seedZipsCmd.MarkFlagRequired("file")
}
