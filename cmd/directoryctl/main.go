// Command directoryctl maintains the contractor directory database: it seeds
// the tag vocabulary and zip gazetteer, imports spreadsheet exports and
// creates indexes.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/civictechdc/electrify-dmv/api/internal/config"
	mongodoc "github.com/civictechdc/electrify-dmv/api/internal/infrastructure/mongo"
)

var (
	envName string
	envDir  string
	timeout time.Duration

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:           "directoryctl",
	Short:         "Maintenance commands for the Electrify DMV contractor directory",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envName != "" {
			if err := loadEnvFiles(envDir, envName); err != nil {
				return fmt.Errorf("load env files: %w", err)
			}
		}
		cfg = config.Load()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envName, "env", "", "env file name under --env-dir (e.g. local, staging)")
	rootCmd.PersistentFlags().StringVar(&envDir, "env-dir", "env", "directory holding shared.env and <env>.env")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall time limit for the command")

	rootCmd.AddCommand(importCmd, seedTaxonomyCmd, seedZipsCmd, ensureIndexesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// withDatabase connects to MongoDB, runs fn and disconnects.
func withDatabase(ctx context.Context, fn func(ctx context.Context, db *mongo.Database, cols mongodoc.Collections) error) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return fmt.Errorf("connect to MongoDB: %w", err)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	return fn(ctx, client.Database(cfg.MongoDatabase), collections(cfg))
}

func collections(cfg config.Config) mongodoc.Collections {
	return mongodoc.Collections{
		Contractors:         cfg.ContractorCollection,
		States:              cfg.StateCollection,
		Services:            cfg.ServiceCollection,
		Certifications:      cfg.CertificationCollection,
		ZipCodes:            cfg.ZipCollection,
		FailedNotifications: cfg.FailedNotificationCollection,
	}
}
