package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the directory queries rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database, cols Collections) error {
	plan := map[string][]mongo.IndexModel{
		cols.Contractors: {
			{Keys: bson.D{{Key: "isDraft", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "name", Value: 1}}},
		},
		cols.States: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		cols.Services: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		cols.Certifications: {
			{Keys: bson.D{{Key: "shortName", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		cols.FailedNotifications: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: 1}}},
		},
	}

	for collection, models := range plan {
		if collection == "" {
			continue
		}
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", collection, err)
		}
	}
	return nil
}
