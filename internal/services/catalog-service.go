package services

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/AnimeshnikLeon/climate-app/internal/dto"
	"github.com/AnimeshnikLeon/climate-app/internal/repositories"
)

const referenceLookupsCacheKey = "catalog:reference_lookups"

type CatalogServiceInterface interface {
	GetReferenceLookups(ctx context.Context) (*dto.ReferenceLookupsDTO, error)
	InvalidateCache(ctx context.Context)
}

type CatalogService struct {
	catalogRepo repositories.CatalogRepositoryInterface
	statusRepo  repositories.StatusRepositoryInterface
	cacheRepo   repositories.CacheRepositoryInterface
	cacheTTL    time.Duration
	logger      *zap.Logger
}

func NewCatalogService(
	catalogRepo repositories.CatalogRepositoryInterface,
	statusRepo repositories.StatusRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	cacheTTL time.Duration,
	logger *zap.Logger,
) CatalogServiceInterface {
	return &CatalogService{
		catalogRepo: catalogRepo,
		statusRepo:  statusRepo,
		cacheRepo:   cacheRepo,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

// GetReferenceLookups отдаёт справочники для форм и фильтров заявок.
// Справочники меняются редко, поэтому результат живёт в Redis;
// кеш сбрасывается при записи заявки (там могут родиться новые записи).
func (s *CatalogService) GetReferenceLookups(ctx context.Context) (*dto.ReferenceLookupsDTO, error) {
	if cached, err := s.cacheRepo.Get(ctx, referenceLookupsCacheKey); err == nil && cached != "" {
		var lookups dto.ReferenceLookupsDTO
		if err := json.Unmarshal([]byte(cached), &lookups); err == nil {
			return &lookups, nil
		}
		s.logger.Warn("повреждённое значение в кеше справочников, пересобираем")
	}

	statuses, err := s.statusRepo.GetStatuses(ctx)
	if err != nil {
		return nil, err
	}
	equipmentTypes, err := s.catalogRepo.GetEquipmentTypes(ctx)
	if err != nil {
		return nil, err
	}
	issueTypes, err := s.catalogRepo.GetIssueTypes(ctx)
	if err != nil {
		return nil, err
	}

	lookups := &dto.ReferenceLookupsDTO{
		Statuses:       statuses,
		EquipmentTypes: equipmentTypes,
		IssueTypes:     issueTypes,
	}

	if raw, err := json.Marshal(lookups); err == nil {
		if err := s.cacheRepo.Set(ctx, referenceLookupsCacheKey, string(raw), s.cacheTTL); err != nil {
			s.logger.Warn("не удалось записать справочники в кеш", zap.Error(err))
		}
	}
	return lookups, nil
}

func (s *CatalogService) InvalidateCache(ctx context.Context) {
	if err := s.cacheRepo.Del(ctx, referenceLookupsCacheKey); err != nil {
		s.logger.Warn("не удалось сбросить кеш справочников", zap.Error(err))
	}
}
