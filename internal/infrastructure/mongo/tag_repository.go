package mongo

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/civictechdc/electrify-dmv/api/internal/public/application"
	"github.com/civictechdc/electrify-dmv/api/internal/public/domain"
	"github.com/civictechdc/electrify-dmv/api/internal/taxonomy"
)

// TagRepository maintains the state, service and certification collections.
type TagRepository struct {
	states         *mongo.Collection
	services       *mongo.Collection
	certifications *mongo.Collection
}

// NewTagRepository binds the tag collections of db.
func NewTagRepository(db *mongo.Database, cols Collections) *TagRepository {
	return &TagRepository{
		states:         db.Collection(cols.States),
		services:       db.Collection(cols.Services),
		certifications: db.Collection(cols.Certifications),
	}
}

// SeedVocabulary upserts every vocabulary entry, refreshing titles and
// descriptions of entries that already exist.
func (r *TagRepository) SeedVocabulary(ctx context.Context, vocab *taxonomy.Vocabulary) (int, error) {
	count := 0
	for _, s := range vocab.States {
		if err := upsertTag(ctx, r.states, bson.M{"name": s.Name}, bson.M{"title": s.Title}, nil); err != nil {
			return count, fmt.Errorf("upsert state %s: %w", s.Name, err)
		}
		count++
	}
	for _, s := range vocab.Services {
		if err := upsertTag(ctx, r.services, bson.M{"name": s.Name}, bson.M{"description": s.Description}, nil); err != nil {
			return count, fmt.Errorf("upsert service %s: %w", s.Name, err)
		}
		count++
	}
	for _, c := range vocab.Certifications {
		set := bson.M{"name": c.Name, "description": c.Description}
		if err := upsertTag(ctx, r.certifications, bson.M{"shortName": c.ShortName}, set, nil); err != nil {
			return count, fmt.Errorf("upsert certification %s: %w", c.ShortName, err)
		}
		count++
	}
	return count, nil
}

// EnsureService creates the service when no service of that name exists.
func (r *TagRepository) EnsureService(ctx context.Context, name, description string) error {
	return upsertTag(ctx, r.services, bson.M{"name": strings.TrimSpace(name)}, nil, bson.M{"description": description})
}

// EnsureCertification creates the certification when its short code is unused.
func (r *TagRepository) EnsureCertification(ctx context.Context, name, shortName, description string) error {
	return upsertTag(ctx, r.certifications, bson.M{"shortName": strings.TrimSpace(shortName)}, nil, bson.M{
		"name":        name,
		"description": description,
	})
}

func upsertTag(ctx context.Context, col *mongo.Collection, filter, set, setOnInsert bson.M) error {
	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(setOnInsert) > 0 {
		update["$setOnInsert"] = setOnInsert
	}
	if len(update) == 0 {
		update["$setOnInsert"] = filter
	}
	_, err := col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// tagMaps indexes every tag by id for reads and by name for writes.
type tagMaps struct {
	states         map[primitive.ObjectID]StateDocument
	services       map[primitive.ObjectID]ServiceDocument
	certifications map[primitive.ObjectID]CertificationDocument

	stateByName     map[string]primitive.ObjectID
	serviceByName   map[string]primitive.ObjectID
	certByShortName map[string]primitive.ObjectID
}

func (r *TagRepository) loadTagMaps(ctx context.Context) (*tagMaps, error) {
	states, err := findAll[StateDocument](ctx, r.states)
	if err != nil {
		return nil, fmt.Errorf("load states: %w", err)
	}
	services, err := findAll[ServiceDocument](ctx, r.services)
	if err != nil {
		return nil, fmt.Errorf("load services: %w", err)
	}
	certifications, err := findAll[CertificationDocument](ctx, r.certifications)
	if err != nil {
		return nil, fmt.Errorf("load certifications: %w", err)
	}
	return newTagMaps(states, services, certifications), nil
}

func newTagMaps(states []StateDocument, services []ServiceDocument, certifications []CertificationDocument) *tagMaps {
	m := &tagMaps{
		states:          make(map[primitive.ObjectID]StateDocument, len(states)),
		services:        make(map[primitive.ObjectID]ServiceDocument, len(services)),
		certifications:  make(map[primitive.ObjectID]CertificationDocument, len(certifications)),
		stateByName:     make(map[string]primitive.ObjectID, len(states)),
		serviceByName:   make(map[string]primitive.ObjectID, len(services)),
		certByShortName: make(map[string]primitive.ObjectID, len(certifications)),
	}
	for _, s := range states {
		m.states[s.ID] = s
		m.stateByName[s.Name] = s.ID
	}
	for _, s := range services {
		m.services[s.ID] = s
		m.serviceByName[s.Name] = s.ID
	}
	for _, c := range certifications {
		m.certifications[c.ID] = c
		m.certByShortName[c.ShortName] = c.ID
	}
	return m
}

// resolve turns tag names into references, failing on the first unknown one.
func (m *tagMaps) resolve(listing domain.NewListing) (states, services, certifications []primitive.ObjectID, err error) {
	states, err = lookupIDs(m.stateByName, listing.StatesServed, "state")
	if err != nil {
		return nil, nil, nil, err
	}
	services, err = lookupIDs(m.serviceByName, listing.Services, "service")
	if err != nil {
		return nil, nil, nil, err
	}
	certifications, err = lookupIDs(m.certByShortName, listing.Certifications, "certification")
	if err != nil {
		return nil, nil, nil, err
	}
	return states, services, certifications, nil
}

func lookupIDs(index map[string]primitive.ObjectID, names []string, kind string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(names))
	for _, name := range names {
		id, ok := index[name]
		if !ok {
			return nil, &application.UnknownTagError{Kind: kind, Name: name}
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func findAll[T any](ctx context.Context, col *mongo.Collection) ([]T, error) {
	cursor, err := col.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	items := make([]T, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}
