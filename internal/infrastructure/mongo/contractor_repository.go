package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/civictechdc/electrify-dmv/api/internal/public/domain"
)

// ContractorRepository implements the public read and write ports on MongoDB.
type ContractorRepository struct {
	collection *mongo.Collection
	tags       *TagRepository
}

// NewContractorRepository creates a new Mongo-backed contractor repository.
func NewContractorRepository(db *mongo.Database, cols Collections) *ContractorRepository {
	return &ContractorRepository{
		collection: db.Collection(cols.Contractors),
		tags:       NewTagRepository(db, cols),
	}
}

// FindPublished returns every published listing in insertion order with its
// tags attached.
func (r *ContractorRepository) FindPublished(ctx context.Context) ([]domain.Contractor, error) {
	tags, err := r.tags.loadTagMaps(ctx)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"isDraft": false}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	contractors := make([]domain.Contractor, 0)
	for cursor.Next(ctx) {
		var doc ContractorDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		contractors = append(contractors, mapContractorDocument(doc, tags))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return contractors, nil
}

// FindPublishedByID returns nil, nil when the id is unknown or still a draft.
func (r *ContractorRepository) FindPublishedByID(ctx context.Context, id string) (*domain.Contractor, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}

	var doc ContractorDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID, "isDraft": false}).Decode(&doc)
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
	contractor := mapContractorDocument(doc, tags)
	return &contractor, nil
}

// Create inserts the listing and its tag references in one document write.
// Unknown tag names fail with application.ErrUnknownTag before anything is
// written.
func (r *ContractorRepository) Create(ctx context.Context, listing domain.NewListing) (*domain.Contractor, error) {
	tags, err := r.tags.loadTagMaps(ctx)
	if err != nil {
		return nil, err
	}

	doc, err := buildContractorDocument(listing, tags, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert contractor: %w", err)
	}

	contractor := mapContractorDocument(doc, tags)
	return &contractor, nil
}

// ExistsByName reports whether any listing, draft or not, uses name.
func (r *ContractorRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	err := r.collection.FindOne(ctx, bson.M{"name": strings.TrimSpace(name)}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func buildContractorDocument(listing domain.NewListing, tags *tagMaps, now time.Time) (ContractorDocument, error) {
	states, services, certifications, err := tags.resolve(listing)
	if err != nil {
		return ContractorDocument{}, err
	}

	doc := ContractorDocument{
		ID:               primitive.NewObjectID(),
		Name:             strings.TrimSpace(listing.Name),
		Email:            listing.Email,
		Phone:            listing.Phone,
		Website:          listing.Website,
		AddressLine1:     listing.AddressLine1,
		AddressLine2:     listing.AddressLine2,
		City:             listing.City,
		State:            listing.State,
		Zip:              listing.Zip,
		IsDraft:          listing.IsDraft,
		StateIDs:         states,
		ServiceIDs:       services,
		CertificationIDs: certifications,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if !listing.IsDraft {
		published := now
		doc.PublishedAt = &published
	}
	return doc, nil
}

// mapContractorDocument attaches tags in stored order; references to tags
// that no longer exist are dropped.
func mapContractorDocument(doc ContractorDocument, tags *tagMaps) domain.Contractor {
	contractor := domain.Contractor{
		ID:             doc.ID.Hex(),
		Name:           doc.Name,
		Email:          doc.Email,
		Phone:          doc.Phone,
		Website:        doc.Website,
		AddressLine1:   doc.AddressLine1,
		AddressLine2:   doc.AddressLine2,
		City:           doc.City,
		State:          doc.State,
		Zip:            doc.Zip,
		IsDraft:        doc.IsDraft,
		StatesServed:   make([]domain.Tag, 0, len(doc.StateIDs)),
		Services:       make([]domain.Service, 0, len(doc.ServiceIDs)),
		Certifications: make([]domain.Certification, 0, len(doc.CertificationIDs)),
		CreatedAt:      doc.CreatedAt,
		PublishedAt:    doc.PublishedAt,
	}

	for _, id := range doc.StateIDs {
		if s, ok := tags.states[id]; ok {
			contractor.StatesServed = append(contractor.StatesServed, domain.Tag{ID: s.ID.Hex(), Name: s.Name})
		}
	}
	for _, id := range doc.ServiceIDs {
		if s, ok := tags.services[id]; ok {
			contractor.Services = append(contractor.Services, domain.Service{
				Tag:         domain.Tag{ID: s.ID.Hex(), Name: s.Name},
				Description: s.Description,
			})
		}
	}
	for _, id := range doc.CertificationIDs {
		if c, ok := tags.certifications[id]; ok {
			contractor.Certifications = append(contractor.Certifications, domain.Certification{
				Tag:         domain.Tag{ID: c.ID.Hex(), Name: c.Name},
				ShortName:   c.ShortName,
				Description: c.Description,
			})
		}
	}
	return contractor
}
