package persistence

import (
	"context"
	"errors"

	"github.com/craftstock/backend/internal/domain/catalog"
	"github.com/craftstock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSKURepository implements catalog.SKURepository using GORM
type GormSKURepository struct {
	db *gorm.DB
}

// NewGormSKURepository creates a new GormSKURepository
func NewGormSKURepository(db *gorm.DB) *GormSKURepository {
	return &GormSKURepository{db: db}
}

// FindByIDForTenant finds a SKU by ID within a tenant
func (r *GormSKURepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.SKU, error) {
	var sku catalog.SKU
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&sku).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sku, nil
}

// FindByIDs finds multiple SKUs by their IDs within a tenant
func (r *GormSKURepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.SKU, error) {
	if len(ids) == 0 {
		return []catalog.SKU{}, nil
	}

	var skus []catalog.SKU
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&skus).Error; err != nil {
		return nil, err
	}
	return skus, nil
}

// FindAllForTenant finds all SKUs for a tenant
func (r *GormSKURepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.SKU, error) {
	var skus []catalog.SKU
	query := r.db.WithContext(ctx).Model(&catalog.SKU{}).
		Where("tenant_id = ?", tenantID)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ?", pattern, pattern)
	}
	query = applyFilter(query, filter, "created_at DESC")

	if err := query.Find(&skus).Error; err != nil {
		return nil, err
	}
	return skus, nil
}

// Save creates or updates a SKU
func (r *GormSKURepository) Save(ctx context.Context, sku *catalog.SKU) error {
	return r.db.WithContext(ctx).Save(sku).Error
}

// Ensure GormSKURepository implements SKURepository
var _ catalog.SKURepository = (*GormSKURepository)(nil)
