package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/civictechdc/electrify-dmv/api/internal/public/domain"
)

// applicationService implements ApplicationService.
type applicationService struct {
	repo  ContractorWriter
	vocab Vocabulary
}

// NewApplicationService creates a new ApplicationService.
func NewApplicationService(repo ContractorWriter, vocab Vocabulary) ApplicationService {
	return &applicationService{repo: repo, vocab: vocab}
}

func (s *applicationService) Submit(ctx context.Context, form ApplicationForm) (*domain.Contractor, FieldErrors, error) {
	listing, fieldErrs := ValidateApplication(form, s.vocab)
	if len(fieldErrs) > 0 {
		return nil, fieldErrs, nil
	}

	listing.IsDraft = true
	contractor, err := s.repo.Create(ctx, listing)
	var tagErr *UnknownTagError
	if errors.As(err, &tagErr) {
		if fieldErrs := unknownTagFieldErrors(tagErr); fieldErrs != nil {
			return nil, fieldErrs, nil
		}
	}
	if err != nil {
		return nil, nil, err
	}
	return contractor, nil, nil
}

// unknownTagFieldErrors reports a tag the store does not know on the form
// field that selected it.
func unknownTagFieldErrors(e *UnknownTagError) FieldErrors {
	switch e.Kind {
	case "state":
		return FieldErrors{"statesServed": fmt.Sprintf("Unknown state: %s.", e.Name)}
	case "service":
		return FieldErrors{"services": fmt.Sprintf("Unknown service: %s.", e.Name)}
	case "certification":
		return FieldErrors{"certifications": fmt.Sprintf("Unknown certification: %s.", e.Name)}
	}
	return nil
}
