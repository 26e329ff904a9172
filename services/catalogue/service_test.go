package catalogue

import (
	"context"
	"testing"

	catalogueRepo "aircare/database/repository/catalogue"
	"aircare/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	services []models.Service
	calls    int
}

func (m *memoryRepo) ListActive(ctx context.Context) ([]models.Service, error) {
	m.calls++
	var out []models.Service
	for _, s := range m.services {
		if s.Active {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memoryRepo) GetByID(ctx context.Context, id string) (*models.Service, error) {
	for _, s := range m.services {
		if s.ID == id {
			cp := s
			return &cp, nil
		}
	}
	return nil, catalogueRepo.ErrNotFound
}

func newCache(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestListServicesFallsBackToDefaults(t *testing.T) {
	svc := NewDefaultCatalogueService(&memoryRepo{}, nil, nil)
	out, err := svc.ListServices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultServices(), out)
}

func TestListServicesUsesCache(t *testing.T) {
	repo := &memoryRepo{services: []models.Service{{ID: "general-servicing", Title: "General Servicing", Price: 55, Active: true}}}
	svc := NewDefaultCatalogueService(repo, newCache(t), nil)
	ctx := context.Background()

	first, err := svc.ListServices(ctx)
	require.NoError(t, err)
	second, err := svc.ListServices(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, 55.0, second[0].Price)
}

func TestGetService(t *testing.T) {
	repo := &memoryRepo{services: []models.Service{
		{ID: "chemical-wash", Title: "Chemical Wash", Price: 110, Active: true},
		{ID: "retired", Title: "Retired", Active: false},
	}}
	svc := NewDefaultCatalogueService(repo, nil, nil)
	ctx := context.Background()

	got, err := svc.GetService(ctx, "chemical-wash")
	require.NoError(t, err)
	assert.Equal(t, 110.0, got.Price)

	_, err = svc.GetService(ctx, "retired")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetService(ctx, "unknown")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetServiceFromDefaults(t *testing.T) {
	svc := NewDefaultCatalogueService(&memoryRepo{}, nil, nil)
	got, err := svc.GetService(context.Background(), "gas-top-up")
	require.NoError(t, err)
	assert.Equal(t, "Gas Top-Up", got.Title)
}
