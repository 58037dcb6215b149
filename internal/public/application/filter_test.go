package application

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/civictechdc/electrify-dmv/api/internal/public/domain"
)

func listing(id string, states, services, certs []string) domain.Contractor {
	c := domain.Contractor{ID: id, Name: "Contractor " + id}
	for _, s := range states {
		c.StatesServed = append(c.StatesServed, domain.Tag{ID: "st-" + s, Name: s})
	}
	for _, s := range services {
		c.Services = append(c.Services, domain.Service{Tag: domain.Tag{ID: "sv-" + s, Name: s}})
	}
	for _, code := range certs {
		c.Certifications = append(c.Certifications, domain.Certification{
			Tag:       domain.Tag{ID: "ce-" + code, Name: "Full " + code},
			ShortName: code,
		})
	}
	return c
}

func ids(listings []domain.Contractor) []string {
	out := make([]string, 0, len(listings))
	for _, c := range listings {
		out = append(out, c.ID)
	}
	return out
}

func TestFilterContractors(t *testing.T) {
	listings := []domain.Contractor{
		listing("1", []string{"MD", "VA"}, []string{"Electrical", "Water Heater"}, []string{"CEA"}),
		listing("2", []string{"DC"}, []string{"Energy Audit"}, nil),
		listing("3", []string{"MD"}, []string{"HVAC / Heat Pump"}, []string{"HEP", "BPI-ALCI"}),
		listing("4", nil, nil, nil),
	}

	tests := []struct {
		name   string
		filter ContractorFilter
		want   []string
	}{
		{name: "empty filter passes everything", filter: ContractorFilter{}, want: []string{"1", "2", "3", "4"}},
		{name: "state", filter: ContractorFilter{State: "MD"}, want: []string{"1", "3"}},
		{name: "state is case sensitive", filter: ContractorFilter{State: "md"}, want: []string{}},
		{name: "services are ORed", filter: ContractorFilter{Services: []string{"Energy Audit", "Water Heater"}}, want: []string{"1", "2"}},
		{name: "certifications match short code", filter: ContractorFilter{Certifications: []string{"BPI-ALCI"}}, want: []string{"3"}},
		{name: "certifications never match full name", filter: ContractorFilter{Certifications: []string{"Full CEA"}}, want: []string{}},
		{name: "criteria are ANDed", filter: ContractorFilter{State: "MD", Services: []string{"Electrical", "HVAC / Heat Pump"}, Certifications: []string{"HEP"}}, want: []string{"3"}},
		{name: "zip does not filter", filter: ContractorFilter{Zip: "20001"}, want: []string{"1", "2", "3", "4"}},
		{name: "no match", filter: ContractorFilter{State: "DC", Services: []string{"Electrical"}}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterContractors(listings, tt.filter)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilterContractorsIsPure(t *testing.T) {
	listings := []domain.Contractor{
		listing("a", []string{"DC"}, nil, nil),
		listing("b", []string{"VA"}, nil, nil),
	}
	_ = FilterContractors(listings, ContractorFilter{State: "VA"})
	assert.Equal(t, []string{"a", "b"}, ids(listings))
}
