package domain

import (
	"strings"
	"time"
)

// Contractor aggregates a listing as administrators review it.
type Contractor struct {
	ID             string
	Name           string
	Email          Email
	Phone          string
	Website        URL
	AddressLine1   string
	AddressLine2   string
	City           string
	State          StateCode
	Zip            string
	StatesServed   StateCodeList
	Services       TagNameList
	Certifications TagNameList
	IsDraft        bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
	PublishedAt    *time.Time
}

// Status reports whether the listing is still waiting for review.
func (c Contractor) Status() Status {
	if c.IsDraft {
		return StatusDraft
	}
	return StatusPublished
}

// ContractorInput carries raw stored values to be checked by NewContractor.
type ContractorInput struct {
	ID             string
	Name           string
	Email          string
	Phone          string
	Website        string
	AddressLine1   string
	AddressLine2   string
	City           string
	State          string
	Zip            string
	StatesServed   []string
	Services       []string
	Certifications []string
	IsDraft        bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
	PublishedAt    *time.Time
}

// NewContractor re-validates a stored listing through the value objects.
// Imported listings may lack a business address, so State is optional here.
func NewContractor(in ContractorInput) (Contractor, error) {
	email, err := NewEmail(in.Email)
	if err != nil {
		return Contractor{}, err
	}
	website, err := NewURL(in.Website)
	if err != nil {
		return Contractor{}, err
	}
	var state StateCode
	if strings.TrimSpace(in.State) != "" {
		if state, err = NewStateCode(in.State); err != nil {
			return Contractor{}, err
		}
	}
	served, err := NewStateCodeList(in.StatesServed)
	if err != nil {
		return Contractor{}, err
	}
	services, err := NewTagNameList(in.Services)
	if err != nil {
		return Contractor{}, err
	}
	certifications, err := NewTagNameList(in.Certifications)
	if err != nil {
		return Contractor{}, err
	}
	return Contractor{
		ID:             in.ID,
		Name:           in.Name,
		Email:          email,
		Phone:          in.Phone,
		Website:        website,
		AddressLine1:   in.AddressLine1,
		AddressLine2:   in.AddressLine2,
		City:           in.City,
		State:          state,
		Zip:            in.Zip,
		StatesServed:   served,
		Services:       services,
		Certifications: certifications,
		IsDraft:        in.IsDraft,
		CreatedAt:      in.CreatedAt,
		UpdatedAt:      in.UpdatedAt,
		PublishedAt:    in.PublishedAt,
	}, nil
}
