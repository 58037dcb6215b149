package admin

import (
	"time"

	admindomain "github.com/civictechdc/electrify-dmv/api/internal/admin/domain"
)

type adminContractorResponse struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Status         string     `json:"status"`
	Email          string     `json:"email,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	Website        string     `json:"website,omitempty"`
	AddressLine1   string     `json:"addressLine1,omitempty"`
	AddressLine2   string     `json:"addressLine2,omitempty"`
	City           string     `json:"city,omitempty"`
	State          string     `json:"state,omitempty"`
	Zip            string     `json:"zip,omitempty"`
	StatesServed   []string   `json:"statesServed"`
	Services       []string   `json:"services"`
	Certifications []string   `json:"certifications"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
	PublishedAt    *time.Time `json:"publishedAt,omitempty"`
}

func adminContractorToResponse(c admindomain.Contractor) adminContractorResponse {
	return adminContractorResponse{
		ID:             c.ID,
		Name:           c.Name,
		Status:         string(c.Status()),
		Email:          c.Email.String(),
		Phone:          c.Phone,
		Website:        c.Website.String(),
		AddressLine1:   c.AddressLine1,
		AddressLine2:   c.AddressLine2,
		City:           c.City,
		State:          c.State.String(),
		Zip:            c.Zip,
		StatesServed:   c.StatesServed.Strings(),
		Services:       c.Services.Strings(),
		Certifications: c.Certifications.Strings(),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
		PublishedAt:    c.PublishedAt,
	}
}
