package persistence

import (
	"context"
	"errors"

	"github.com/craftstock/backend/internal/domain/catalog"
	"github.com/craftstock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormComponentRepository implements catalog.ComponentRepository using GORM
type GormComponentRepository struct {
	db *gorm.DB
}

// NewGormComponentRepository creates a new GormComponentRepository
func NewGormComponentRepository(db *gorm.DB) *GormComponentRepository {
	return &GormComponentRepository{db: db}
}

// FindByIDForTenant finds a component by ID within a tenant
func (r *GormComponentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Component, error) {
	var component catalog.Component
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&component).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &component, nil
}

// FindByIDs finds multiple components by their IDs within a tenant
func (r *GormComponentRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Component, error) {
	if len(ids) == 0 {
		return []catalog.Component{}, nil
	}

	var components []catalog.Component
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&components).Error; err != nil {
		return nil, err
	}
	return components, nil
}

// FindBySKUCode finds a component by its tenant-unique SKU code
func (r *GormComponentRepository) FindBySKUCode(ctx context.Context, tenantID uuid.UUID, skuCode string) (*catalog.Component, error) {
	var component catalog.Component
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND sku_code = ?", tenantID, skuCode).
		First(&component).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &component, nil
}

// FindAllForTenant finds all components for a tenant
func (r *GormComponentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Component, error) {
	var components []catalog.Component
	query := r.db.WithContext(ctx).Model(&catalog.Component{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyComponentFilters(query, filter)
	query = applyFilter(query, filter, "created_at DESC")

	if err := query.Find(&components).Error; err != nil {
		return nil, err
	}
	return components, nil
}

// Save creates or updates a component
func (r *GormComponentRepository) Save(ctx context.Context, component *catalog.Component) error {
	return r.db.WithContext(ctx).Save(component).Error
}

// CountForTenant counts components matching the filter
func (r *GormComponentRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&catalog.Component{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyComponentFilters(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormComponentRepository) applyComponentFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("sku_code ILIKE ? OR name ILIKE ?", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "brand_id":
			query = query.Where("brand_id = ?", value)
		case "archived":
			query = query.Where("archived = ?", value)
		case "has_reorder_point":
			if value == true {
				query = query.Where("reorder_point > 0")
			}
		}
	}
	return query
}

// Ensure GormComponentRepository implements ComponentRepository
var _ catalog.ComponentRepository = (*GormComponentRepository)(nil)
