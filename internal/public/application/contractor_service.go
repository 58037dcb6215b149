package application

import (
	"context"

	"github.com/civictechdc/electrify-dmv/api/internal/public/domain"
)

// contractorQueryService is the concrete implementation of ContractorQueryService.
type contractorQueryService struct {
	repo      ContractorRepository
	annotator *DistanceAnnotator
}

// NewContractorQueryService creates a listing query service. geocoder may be nil.
func NewContractorQueryService(repo ContractorRepository, geocoder Geocoder) ContractorQueryService {
	return &contractorQueryService{repo: repo, annotator: NewDistanceAnnotator(geocoder)}
}

// List filters published listings, orders them by distance to filter.Zip when
// one is given, then cuts out the requested page.
func (s *contractorQueryService) List(ctx context.Context, filter ContractorFilter, paging Paging) (Page[domain.Contractor], error) {
	listings, err := s.repo.FindPublished(ctx)
	if err != nil {
		return Page[domain.Contractor]{}, err
	}

	matched := FilterContractors(listings, filter)

	ordered, err := s.annotator.Annotate(ctx, matched, filter.Zip)
	if err != nil {
		return Page[domain.Contractor]{}, err
	}

	return Paginate(ordered, paging.Page, paging.PageSize), nil
}

func (s *contractorQueryService) Detail(ctx context.Context, id string) (*domain.Contractor, error) {
	return s.repo.FindPublishedByID(ctx, id)
}
