package application

import (
	"context"
	"time"

	admindomain "github.com/civictechdc/electrify-dmv/api/internal/admin/domain"
)

// contractorService implements ContractorService.
type contractorService struct {
	repo ContractorRepository
	now  func() time.Time
}

func NewContractorService(repo ContractorRepository) ContractorService {
	return &contractorService{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func (s *contractorService) List(ctx context.Context, filter ContractorFilter) ([]admindomain.Contractor, error) {
	return s.repo.Find(ctx, filter)
}

func (s *contractorService) Detail(ctx context.Context, id string) (*admindomain.Contractor, error) {
	return s.repo.FindByID(ctx, id)
}

// Publish moves a draft into the public directory. Publishing a listing that
// is already public leaves it untouched.
func (s *contractorService) Publish(ctx context.Context, id string) (*admindomain.Contractor, error) {
	contractor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if contractor == nil {
		return nil, ErrNotFound
	}
	if !contractor.IsDraft {
		return contractor, nil
	}

	at := s.now()
	if err := s.repo.Publish(ctx, id, at); err != nil {
		return nil, err
	}
	contractor.IsDraft = false
	contractor.PublishedAt = &at
	contractor.UpdatedAt = at
	return contractor, nil
}
