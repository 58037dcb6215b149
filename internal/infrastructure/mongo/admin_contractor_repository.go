package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/civictechdc/electrify-dmv/api/internal/admin/application"
	admindomain "github.com/civictechdc/electrify-dmv/api/internal/admin/domain"
)

// AdminContractorRepository is the Mongo implementation of the admin review port.
type AdminContractorRepository struct {
	collection *mongo.Collection
	tags       *TagRepository
}

// NewAdminContractorRepository binds the contractor and tag collections.
func NewAdminContractorRepository(db *mongo.Database, cols Collections) *AdminContractorRepository {
	return &AdminContractorRepository{
		collection: db.Collection(cols.Contractors),
		tags:       NewTagRepository(db, cols),
	}
}

// Find lists listings newest first, narrowed by status and a case-insensitive
// keyword on name, city or email.
func (r *AdminContractorRepository) Find(ctx context.Context, filter application.ContractorFilter) ([]admindomain.Contractor, error) {
	tags, err := r.tags.loadTagMaps(ctx)
	if err != nil {
		return nil, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, buildAdminFilter(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	contractors := make([]admindomain.Contractor, 0)
	for cursor.Next(ctx) {
		var doc ContractorDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		contractor, err := mapAdminContractor(doc, tags)
		if err != nil {
			return nil, fmt.Errorf("contractor %s: %w", doc.ID.Hex(), err)
		}
		contractors = append(contractors, contractor)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return contractors, nil
}

// FindByID returns nil, nil when no listing has the id.
func (r *AdminContractorRepository) FindByID(ctx context.Context, id string) (*admindomain.Contractor, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	var doc ContractorDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	tags, err := r.tags.loadTagMaps(ctx)
	if err != nil {
		return nil, err
	}
	contractor, err := mapAdminContractor(doc, tags)
	if err != nil {
		return nil, err
	}
	return &contractor, nil
}

// Publish clears the draft flag. Listings that are already public keep their
// original publishedAt.
func (r *AdminContractorRepository) Publish(ctx context.Context, id string, at time.Time) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return err
	}
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID, "isDraft": true},
		bson.M{"$set": bson.M{"isDraft": false, "publishedAt": at, "updatedAt": at}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Err(); errors.Is(err, mongo.ErrNoDocuments) {
			return application.ErrNotFound
		} else if err != nil {
			return err
		}
	}
	return nil
}

func buildAdminFilter(filter application.ContractorFilter) bson.M {
	clauses := make([]bson.M, 0, 2)
	switch filter.Status {
	case admindomain.StatusDraft:
		clauses = append(clauses, bson.M{"isDraft": true})
	case admindomain.StatusPublished:
		clauses = append(clauses, bson.M{"isDraft": false})
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		regex := primitive.Regex{Pattern: regexp.QuoteMeta(keyword), Options: "i"}
		clauses = append(clauses, bson.M{"$or": bson.A{
			bson.M{"name": regex},
			bson.M{"city": regex},
			bson.M{"email": regex},
		}})
	}

	switch len(clauses) {
	case 0:
		return bson.M{}
	case 1:
		return clauses[0]
	default:
		return bson.M{"$and": clauses}
	}
}

// mapAdminContractor converts a stored listing into the admin aggregate.
func mapAdminContractor(doc ContractorDocument, tags *tagMaps) (admindomain.Contractor, error) {
	listing := mapContractorDocument(doc, tags)
	return admindomain.NewContractor(admindomain.ContractorInput{
		ID:             listing.ID,
		Name:           listing.Name,
		Email:          listing.Email,
		Phone:          listing.Phone,
		Website:        listing.Website,
		AddressLine1:   listing.AddressLine1,
		AddressLine2:   listing.AddressLine2,
		City:           listing.City,
		State:          listing.State,
		Zip:            listing.Zip,
		StatesServed:   listing.StateNames(),
		Services:       listing.ServiceNames(),
		Certifications: listing.CertificationCodes(),
		IsDraft:        listing.IsDraft,
		CreatedAt:      listing.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
		PublishedAt:    listing.PublishedAt,
	})
}
