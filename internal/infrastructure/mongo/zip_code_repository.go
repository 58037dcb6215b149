package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/civictechdc/electrify-dmv/api/internal/public/domain"
)

// ZipCodeRepository is a zip gazetteer. It satisfies application.Geocoder.
type ZipCodeRepository struct {
	collection *mongo.Collection
}

func NewZipCodeRepository(db *mongo.Database, collectionName string) *ZipCodeRepository {
	return &ZipCodeRepository{collection: db.Collection(collectionName)}
}

// Lookup resolves the zips it knows; unknown zips are left out of the result.
func (r *ZipCodeRepository) Lookup(ctx context.Context, zips []string) (map[string]domain.Coordinate, error) {
	result := make(map[string]domain.Coordinate, len(zips))
	if len(zips) == 0 {
		return result, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": zips}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc ZipCodeDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		result[doc.Zip] = domain.Coordinate{Lat: doc.Lat, Lng: doc.Lng}
	}
	return result, cursor.Err()
}

// Upsert writes the centroids, replacing existing entries. Returns the number
// of zips inserted or changed.
func (r *ZipCodeRepository) Upsert(ctx context.Context, entries []domain.ZipCoordinate) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	models := make([]mongo.WriteModel, 0, len(entries))
	for _, e := range entries {
		doc := ZipCodeDocument{Zip: e.Zip, Lat: e.Lat, Lng: e.Lng}
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": e.Zip}).
			SetReplacement(doc).
			SetUpsert(true))
	}

	result, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, err
	}
	return int(result.UpsertedCount + result.ModifiedCount), nil
}
