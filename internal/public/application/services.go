package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/civictechdc/electrify-dmv/api/internal/public/domain"
)

// ErrUnknownTag is returned when a listing references a state, service or
// certification that does not exist in the vocabulary.
var ErrUnknownTag = errors.New("unknown tag")

// UnknownTagError names the tag a store could not resolve. Kind is "state",
// "service" or "certification".
type UnknownTagError struct {
	Kind string
	Name string
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("%s: %s %q", ErrUnknownTag, e.Kind, e.Name)
}

func (e *UnknownTagError) Unwrap() error { return ErrUnknownTag }

// ContractorRepository abstracts read access to published listings.
// Both finders attach the full tag sets to each listing.
type ContractorRepository interface {
	FindPublished(ctx context.Context) ([]domain.Contractor, error)
	// FindPublishedByID returns nil, nil when no published listing has the id.
	FindPublishedByID(ctx context.Context, id string) (*domain.Contractor, error)
}

// ContractorWriter persists new listings together with their tag associations
// in a single insert.
type ContractorWriter interface {
	Create(ctx context.Context, listing domain.NewListing) (*domain.Contractor, error)
}

// Geocoder resolves zip codes to coordinates. Zips it cannot resolve are
// simply absent from the returned map.
type Geocoder interface {
	Lookup(ctx context.Context, zips []string) (map[string]domain.Coordinate, error)
}

// Vocabulary answers membership questions about the controlled tag lists.
type Vocabulary interface {
	HasState(name string) bool
	HasService(name string) bool
	HasCertification(shortName string) bool
}

// ContractorFilter carries the optional listing criteria of one request.
type ContractorFilter struct {
	State          string
	Services       []string
	Certifications []string
	Zip            string
}

// Paging controls pagination.
type Paging struct {
	Page     int
	PageSize int
}

// ContractorQueryService describes listing read use-cases.
type ContractorQueryService interface {
	List(ctx context.Context, filter ContractorFilter, paging Paging) (Page[domain.Contractor], error)
	Detail(ctx context.Context, id string) (*domain.Contractor, error)
}

// ApplicationService handles contractor self-applications.
type ApplicationService interface {
	// Submit validates the form and, when valid, stores a draft listing.
	// A non-empty FieldErrors means nothing was persisted.
	Submit(ctx context.Context, form ApplicationForm) (*domain.Contractor, FieldErrors, error)
}
