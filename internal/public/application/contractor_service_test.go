package application

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civictechdc/electrify-dmv/api/internal/public/domain"
	"github.com/civictechdc/electrify-dmv/api/internal/taxonomy"
)

type fakeContractorRepo struct {
	listings []domain.Contractor
	err      error
	created  []domain.NewListing
}

func (r *fakeContractorRepo) FindPublished(context.Context) ([]domain.Contractor, error) {
	return r.listings, r.err
}

func (r *fakeContractorRepo) FindPublishedByID(_ context.Context, id string) (*domain.Contractor, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, c := range r.listings {
		if c.ID == id {
			found := c
			return &found, nil
		}
	}
	return nil, nil
}

func (r *fakeContractorRepo) Create(_ context.Context, l domain.NewListing) (*domain.Contractor, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.created = append(r.created, l)
	return &domain.Contractor{ID: "new", Name: l.Name, IsDraft: l.IsDraft}, nil
}

func TestContractorQueryServiceListFiltersSortsAndPages(t *testing.T) {
	mk := func(id, zip string, states ...string) domain.Contractor {
		c := listing(id, states, []string{"Electrical"}, nil)
		c.Zip = zip
		return c
	}
	repo := &fakeContractorRepo{listings: []domain.Contractor{
		mk("richmond", "23219", "VA"),
		mk("baltimore", "21201", "MD"),
		mk("arlington", "22201", "VA"),
		mk("nowhere", "", "VA"),
	}}
	svc := NewContractorQueryService(repo, &fakeGeocoder{coords: dmvZips})

	page, err := svc.List(context.Background(), ContractorFilter{State: "VA", Zip: "20001"}, Paging{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"arlington", "richmond"}, ids(page.Items))
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 3, page.Total)

	page, err = svc.List(context.Background(), ContractorFilter{State: "VA", Zip: "20001"}, Paging{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"nowhere"}, ids(page.Items))
	assert.Equal(t, 2, page.CurrentPage)
}

func TestContractorQueryServiceWithoutGeocoderKeepsStoredOrder(t *testing.T) {
	repo := &fakeContractorRepo{listings: []domain.Contractor{withZip("b", "23219"), withZip("a", "22201")}}
	svc := NewContractorQueryService(repo, nil)

	page, err := svc.List(context.Background(), ContractorFilter{Zip: "20001"}, Paging{})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, ids(page.Items))
	assert.Equal(t, 1, page.CurrentPage)
}

func TestContractorQueryServicePropagatesRepositoryErrors(t *testing.T) {
	svc := NewContractorQueryService(&fakeContractorRepo{err: errors.New("boom")}, nil)
	_, err := svc.List(context.Background(), ContractorFilter{}, Paging{})
	assert.Error(t, err)
}

func TestContractorQueryServiceDetail(t *testing.T) {
	svc := NewContractorQueryService(&fakeContractorRepo{listings: []domain.Contractor{withZip("a", "")}}, nil)

	found, err := svc.Detail(context.Background(), "a")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "a", found.ID)

	missing, err := svc.Detail(context.Background(), "zzz")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestApplicationServiceSubmit(t *testing.T) {
	repo := &fakeContractorRepo{}
	svc := NewApplicationService(repo, taxonomy.Default())

	created, fieldErrs, err := svc.Submit(context.Background(), validForm())
	require.NoError(t, err)
	require.Empty(t, fieldErrs)
	require.NotNil(t, created)
	assert.True(t, created.IsDraft)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "Capital Heat Pumps", repo.created[0].Name)
}

func TestApplicationServiceRejectsWithoutPersisting(t *testing.T) {
	repo := &fakeContractorRepo{}
	svc := NewApplicationService(repo, taxonomy.Default())

	form := validForm()
	form.Services = nil
	created, fieldErrs, err := svc.Submit(context.Background(), form)
	require.NoError(t, err)
	assert.Nil(t, created)
	assert.Equal(t, "Please select at least one service.", fieldErrs["services"])
	assert.Empty(t, repo.created)
}

func TestApplicationServiceReportsPersistenceFailure(t *testing.T) {
	svc := NewApplicationService(&fakeContractorRepo{err: errors.New("insert failed")}, taxonomy.Default())
	_, fieldErrs, err := svc.Submit(context.Background(), validForm())
	assert.Empty(t, fieldErrs)
	assert.ErrorContains(t, err, "insert failed")
}

func TestApplicationServiceReportsStoreUnknownTagsAsFieldErrors(t *testing.T) {
	tests := []struct {
		kind string
		want FieldErrors
	}{
		{kind: "state", want: FieldErrors{"statesServed": "Unknown state: DC."}},
		{kind: "service", want: FieldErrors{"services": "Unknown service: DC."}},
		{kind: "certification", want: FieldErrors{"certifications": "Unknown certification: DC."}},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			repo := &fakeContractorRepo{err: fmt.Errorf("create: %w", &UnknownTagError{Kind: tt.kind, Name: "DC"})}
			created, fieldErrs, err := NewApplicationService(repo, taxonomy.Default()).Submit(context.Background(), validForm())
			require.NoError(t, err)
			assert.Nil(t, created)
			assert.Equal(t, tt.want, fieldErrs)
		})
	}
}
