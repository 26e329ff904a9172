// Package catalogue serves the list of bookable aircon services.
package catalogue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	catalogueRepo "aircare/database/repository/catalogue"
	"aircare/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

var ErrNotFound = errors.New("service not found")

const cacheKey = "catalogue:active"

type CatalogueService interface {
	ListServices(ctx context.Context) ([]models.Service, error)
	GetService(ctx context.Context, id string) (models.Service, error)
}

// DefaultCatalogueService reads the catalogue from mongo through a redis
// cache. The built-in catalogue is served while the collection is empty.
type DefaultCatalogueService struct {
	Repo     catalogueRepo.CatalogueRepository
	Cache    *redis.Client
	CacheTTL time.Duration
	Logger   *zap.Logger
}

func NewDefaultCatalogueService(repo catalogueRepo.CatalogueRepository, cache *redis.Client, logger *zap.Logger) *DefaultCatalogueService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultCatalogueService{Repo: repo, Cache: cache, CacheTTL: 10 * time.Minute, Logger: logger}
}

// DefaultServices is the catalogue used until services are stored.
func DefaultServices() []models.Service {
	return []models.Service{
		{ID: "general-servicing", Title: "General Servicing", Description: "Filter wash, coil cleaning and drainage flush for wall-mounted units.", Price: 60, Duration: 60, Active: true, SortOrder: 1},
		{ID: "chemical-wash", Title: "Chemical Wash", Description: "Dismantled fan-coil chemical wash for units that no longer cool well.", Price: 120, Duration: 90, Active: true, SortOrder: 2},
		{ID: "chemical-overhaul", Title: "Chemical Overhaul", Description: "Full dismantle and overhaul of the fan coil for heavily soiled units.", Price: 180, Duration: 120, Active: true, SortOrder: 3},
		{ID: "gas-top-up", Title: "Gas Top-Up", Description: "Pressure check and refrigerant top-up.", Price: 80, Duration: 45, Active: true, SortOrder: 4},
		{ID: "repair-diagnosis", Title: "Repair & Diagnosis", Description: "Troubleshooting for leaks, noise, error codes and units that will not start.", Price: 50, Duration: 60, Active: true, SortOrder: 5},
	}
}

func (s *DefaultCatalogueService) cached(ctx context.Context) ([]models.Service, bool) {
	if s.Cache == nil {
		return nil, false
	}
	raw, err := s.Cache.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.Logger.Warn("catalogue cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var out []models.Service
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false
	}
	return out, true
}

func (s *DefaultCatalogueService) store(ctx context.Context, services []models.Service) {
	if s.Cache == nil {
		return
	}
	raw, err := json.Marshal(services)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, cacheKey, raw, s.CacheTTL).Err(); err != nil {
		s.Logger.Warn("catalogue cache write failed", zap.Error(err))
	}
}

// ListServices returns the active services in display order.
func (s *DefaultCatalogueService) ListServices(ctx context.Context) ([]models.Service, error) {
	if out, ok := s.cached(ctx); ok {
		return out, nil
	}
	out, err := s.Repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListServices: %w", err)
	}
	if len(out) == 0 {
		out = DefaultServices()
	}
	s.store(ctx, out)
	return out, nil
}

// GetService returns one active service.
func (s *DefaultCatalogueService) GetService(ctx context.Context, id string) (models.Service, error) {
	svc, err := s.Repo.GetByID(ctx, id)
	if err == nil {
		if !svc.Active {
			return models.Service{}, ErrNotFound
		}
		return *svc, nil
	}
	if !errors.Is(err, catalogueRepo.ErrNotFound) {
		return models.Service{}, fmt.Errorf("GetService: %w", err)
	}
	list, err := s.ListServices(ctx)
	if err != nil {
		return models.Service{}, err
	}
	for _, svc := range list {
		if svc.ID == id {
			return svc, nil
		}
	}
	return models.Service{}, ErrNotFound
}
