package mongo

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/civictechdc/electrify-dmv/api/internal/notification"
)

// FailedNotificationRepository implements notification.FailureStore.
type FailedNotificationRepository struct {
	collection *mongo.Collection
}

func NewFailedNotificationRepository(db *mongo.Database, collectionName string) *FailedNotificationRepository {
	return &FailedNotificationRepository{collection: db.Collection(collectionName)}
}

func (r *FailedNotificationRepository) Save(ctx context.Context, failure notification.FailedNotification) error {
	doc := FailedNotificationDocument{
		ID:          primitive.NewObjectID(),
		Target:      failure.Target,
		Payload:     failure.Payload,
		Error:       failure.Error,
		Attempts:    failure.Attempts,
		Status:      failure.Status,
		CreatedAt:   failure.CreatedAt,
		LastTriedAt: failure.LastTriedAt,
	}
	_, err := r.collection.InsertOne(ctx, doc)
	return err
}

// ListPending returns the oldest pending alerts first.
func (r *FailedNotificationRepository) ListPending(ctx context.Context, limit int) ([]notification.FailedNotification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{"status": notification.StatusPending}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	failures := make([]notification.FailedNotification, 0)
	for cursor.Next(ctx) {
		var doc FailedNotificationDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		failures = append(failures, mapFailedNotificationDocument(doc))
	}
	return failures, cursor.Err()
}

func (r *FailedNotificationRepository) UpdateResult(ctx context.Context, id, status string, attempts int, lastErr string, triedAt time.Time) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return err
	}
	set := bson.M{
		"status":      status,
		"attempts":    attempts,
		"lastTriedAt": triedAt,
	}
	if lastErr != "" {
		set["error"] = lastErr
	}
	_, err = r.collection.UpdateByID(ctx, objectID, bson.M{"$set": set})
	return err
}

func mapFailedNotificationDocument(doc FailedNotificationDocument) notification.FailedNotification {
	payload := make(map[string]string, len(doc.Payload))
	for k, v := range doc.Payload {
		payload[k] = v
	}
	return notification.FailedNotification{
		ID:          doc.ID.Hex(),
		Target:      doc.Target,
		Payload:     payload,
		Error:       doc.Error,
		Attempts:    doc.Attempts,
		Status:      doc.Status,
		CreatedAt:   doc.CreatedAt,
		LastTriedAt: doc.LastTriedAt,
	}
}
