package importer

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civictechdc/electrify-dmv/api/internal/public/domain"
)

const sheet = `Contractor List,,,,
Updated 2024,,,,
Status,Source,SN,Company Name,Address,Phone Number,Website,Email,Energy Audit,Weatherization,HVAC/Heat Pump,Electrical,Water Heater,Appliances,Certifications
Active,web,1,Capital Heat Pumps,"1200 First St NE, Washington, DC 20002",+1 (202) 555-0142,capitalheat.example,hello@capitalheat.example,No,No,Yes,No,Yes,No,"Mitsubishi Diamond Contractor, BPI Building Analyst"
Active,web,2,,,,,,,,,,,,
Active,web,3,Chesapeake Retrofit,"55 Main St, Annapolis, MD 21401-1234",410-555-0100,https://chesapeake.example,not-an-email,Yes,Yes,No,No,No,No,Certified Energy Auditor
Active,web,4,Old Dominion Electric,"9 King St, Alexandria, VA 22314",703-555-0199,,,No,No,No,Yes,No,No,
`

type fakeStore struct {
	existing       map[string]bool
	services       []string
	certifications []string
	created        []domain.NewListing
	createErr      map[string]error
}

func (s *fakeStore) ExistsByName(_ context.Context, name string) (bool, error) {
	return s.existing[name], nil
}

func (s *fakeStore) EnsureService(_ context.Context, name, _ string) error {
	s.services = append(s.services, name)
	return nil
}

func (s *fakeStore) EnsureCertification(_ context.Context, _, shortName, _ string) error {
	s.certifications = append(s.certifications, shortName)
	return nil
}

func (s *fakeStore) Create(_ context.Context, listing domain.NewListing) (*domain.Contractor, error) {
	if err := s.createErr[listing.Name]; err != nil {
		return nil, err
	}
	s.created = append(s.created, listing)
	return &domain.Contractor{Name: listing.Name}, nil
}

func quietLogger() *log.Logger {
	return log.New(&bytes.Buffer{}, "", 0)
}

func TestReadRowsFindsHeader(t *testing.T) {
	rows, err := ReadRows(strings.NewReader(sheet))
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Capital Heat Pumps", rows[0]["Company Name"])
	assert.Equal(t, "1200 First St NE, Washington, DC 20002", rows[0]["Address"])
	assert.Empty(t, rows[1]["Company Name"])
}

func TestReadRowsWithoutHeader(t *testing.T) {
	_, err := ReadRows(strings.NewReader("a,b\n1,2\n"))
	assert.Error(t, err)
}

func TestImport(t *testing.T) {
	store := &fakeStore{existing: map[string]bool{"Old Dominion Electric": true}}
	result, err := New(store, quietLogger()).Import(context.Background(), strings.NewReader(sheet))
	require.NoError(t, err)

	assert.Equal(t, Result{Processed: 2, Skipped: 2}, result)
	assert.Equal(t, []string{"Electrical", "Energy Audit", "HVAC / Heat Pump", "Water Heater", "Weatherization"}, store.services)
	assert.Equal(t, []string{"BPIBUILDIN", "CEA", "MEDC"}, store.certifications)

	require.Len(t, store.created, 2)
	first := store.created[0]
	assert.Equal(t, "Capital Heat Pumps", first.Name)
	assert.False(t, first.IsDraft)
	assert.Equal(t, "2025550142", first.Phone)
	assert.Equal(t, "https://capitalheat.example", first.Website)
	assert.Equal(t, []string{"HVAC / Heat Pump", "Water Heater"}, first.Services)
	assert.Equal(t, []string{"MEDC", "BPIBUILDIN"}, first.Certifications)
	assert.Equal(t, []string{"DC"}, first.StatesServed)

	second := store.created[1]
	assert.Empty(t, second.Email)
	assert.Equal(t, "21401", second.Zip)
	assert.Equal(t, []string{"MD"}, second.StatesServed)
}

func TestImportCountsRejectedRows(t *testing.T) {
	store := &fakeStore{createErr: map[string]error{"Chesapeake Retrofit": errors.New("unknown tag")}}
	result, err := New(store, quietLogger()).Import(context.Background(), strings.NewReader(sheet))
	require.NoError(t, err)
	assert.Equal(t, Result{Processed: 2, Skipped: 2}, result)
}
