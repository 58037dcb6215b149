package public

import (
	"time"

	"github.com/civictechdc/electrify-dmv/api/internal/interfaces/http/common"
	publicapp "github.com/civictechdc/electrify-dmv/api/internal/public/application"
	"github.com/civictechdc/electrify-dmv/api/internal/public/domain"
	"github.com/civictechdc/electrify-dmv/api/internal/taxonomy"
)

type tagResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type serviceResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type certificationResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ShortName   string `json:"shortName"`
	Description string `json:"description,omitempty"`
}

type contractorResponse struct {
	ID             string                  `json:"id"`
	Name           string                  `json:"name"`
	Email          string                  `json:"email,omitempty"`
	Phone          string                  `json:"phone,omitempty"`
	Website        string                  `json:"website,omitempty"`
	AddressLine1   string                  `json:"addressLine1,omitempty"`
	AddressLine2   string                  `json:"addressLine2,omitempty"`
	City           string                  `json:"city,omitempty"`
	State          string                  `json:"state,omitempty"`
	Zip            string                  `json:"zip,omitempty"`
	IsDraft        bool                    `json:"isDraft"`
	StatesServed   []tagResponse           `json:"statesServed"`
	Services       []serviceResponse       `json:"services"`
	Certifications []certificationResponse `json:"certifications"`
	// Distance is in miles, rounded to one decimal, and present only for
	// zip-anchored queries.
	Distance    *float64   `json:"distance,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

type contractorListResponse struct {
	Items       []contractorResponse `json:"items"`
	TotalPages  int                  `json:"totalPages"`
	CurrentPage int                  `json:"currentPage"`
	Total       int                  `json:"total"`
}

type taxonomyResponse struct {
	States         []taxonomy.StateEntry         `json:"states"`
	Services       []taxonomy.ServiceEntry       `json:"services"`
	Certifications []taxonomy.CertificationEntry `json:"certifications"`
}

type applicationRequest struct {
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	Website        string   `json:"website"`
	AddressLine1   string   `json:"addressLine1"`
	AddressLine2   string   `json:"addressLine2"`
	City           string   `json:"city"`
	State          string   `json:"state"`
	Zip            string   `json:"zip"`
	StatesServed   []string `json:"statesServed"`
	Services       []string `json:"services"`
	Certifications []string `json:"certifications"`
}

type applicationResponse struct {
	Status     string             `json:"status"`
	Contractor contractorResponse `json:"contractor"`
}

type fieldErrorsResponse struct {
	Errors publicapp.FieldErrors `json:"errors"`
}

func buildContractorResponse(c domain.Contractor) contractorResponse {
	resp := contractorResponse{
		ID:             c.ID,
		Name:           c.Name,
		Email:          c.Email,
		Phone:          publicapp.FormatPhoneNumber(c.Phone),
		Website:        c.Website,
		AddressLine1:   c.AddressLine1,
		AddressLine2:   c.AddressLine2,
		City:           c.City,
		State:          c.State,
		Zip:            c.Zip,
		IsDraft:        c.IsDraft,
		StatesServed:   make([]tagResponse, 0, len(c.StatesServed)),
		Services:       make([]serviceResponse, 0, len(c.Services)),
		Certifications: make([]certificationResponse, 0, len(c.Certifications)),
		Distance:       common.RoundedPtr(c.Distance),
		CreatedAt:      c.CreatedAt,
		PublishedAt:    c.PublishedAt,
	}
	for _, s := range c.StatesServed {
		resp.StatesServed = append(resp.StatesServed, tagResponse{ID: s.ID, Name: s.Name})
	}
	for _, s := range c.Services {
		resp.Services = append(resp.Services, serviceResponse{ID: s.ID, Name: s.Name, Description: s.Description})
	}
	for _, cert := range c.Certifications {
		resp.Certifications = append(resp.Certifications, certificationResponse{
			ID:          cert.ID,
			Name:        cert.Name,
			ShortName:   cert.ShortName,
			Description: cert.Description,
		})
	}
	return resp
}
