package application

import (
	"context"
	"errors"
	"time"

	admindomain "github.com/civictechdc/electrify-dmv/api/internal/admin/domain"
)

// ErrNotFound is returned when no listing has the requested id.
var ErrNotFound = errors.New("contractor not found")

// ContractorRepository exposes admin operations on listings.
type ContractorRepository interface {
	Find(ctx context.Context, filter ContractorFilter) ([]admindomain.Contractor, error)
	FindByID(ctx context.Context, id string) (*admindomain.Contractor, error)
	Publish(ctx context.Context, id string, at time.Time) error
}

// ContractorFilter expresses admin search criteria.
type ContractorFilter struct {
	Status  admindomain.Status
	Keyword string
	Limit   int
}

// ContractorService describes admin review use-cases.
type ContractorService interface {
	List(ctx context.Context, filter ContractorFilter) ([]admindomain.Contractor, error)
	Detail(ctx context.Context, id string) (*admindomain.Contractor, error)
	Publish(ctx context.Context, id string) (*admindomain.Contractor, error)
}
