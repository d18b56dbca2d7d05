package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/craftstock/backend/internal/domain/catalog"
	"github.com/craftstock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBOMVersionRepository implements catalog.BOMVersionRepository using GORM
type GormBOMVersionRepository struct {
	db *gorm.DB
}

// NewGormBOMVersionRepository creates a new GormBOMVersionRepository
func NewGormBOMVersionRepository(db *gorm.DB) *GormBOMVersionRepository {
	return &GormBOMVersionRepository{db: db}
}

// FindByIDForTenant finds a BOM version with its lines within a tenant
func (r *GormBOMVersionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.BOMVersion, error) {
	var version catalog.BOMVersion
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&version).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &version, nil
}

// FindByIDsForTenant finds multiple BOM versions with their lines
func (r *GormBOMVersionRepository) FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.BOMVersion, error) {
	if len(ids) == 0 {
		return []catalog.BOMVersion{}, nil
	}

	var versions []catalog.BOMVersion
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&versions).Error; err != nil {
		return nil, err
	}
	return versions, nil
}

// FindActiveBySKU finds the active BOM version for a SKU, with lines
func (r *GormBOMVersionRepository) FindActiveBySKU(ctx context.Context, tenantID, skuID uuid.UUID) (*catalog.BOMVersion, error) {
	var version catalog.BOMVersion
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("tenant_id = ? AND sku_id = ? AND is_active = ?", tenantID, skuID, true).
		First(&version).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &version, nil
}

// FindActiveBySKUs finds the active BOM versions for multiple SKUs in one query
func (r *GormBOMVersionRepository) FindActiveBySKUs(ctx context.Context, tenantID uuid.UUID, skuIDs []uuid.UUID) ([]catalog.BOMVersion, error) {
	if len(skuIDs) == 0 {
		return []catalog.BOMVersion{}, nil
	}

	var versions []catalog.BOMVersion
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("tenant_id = ? AND sku_id IN ? AND is_active = ?", tenantID, skuIDs, true).
		Find(&versions).Error; err != nil {
		return nil, err
	}
	return versions, nil
}

// FindBySKU finds all BOM versions for a SKU
func (r *GormBOMVersionRepository) FindBySKU(ctx context.Context, tenantID, skuID uuid.UUID, filter shared.Filter) ([]catalog.BOMVersion, error) {
	var versions []catalog.BOMVersion
	query := r.db.WithContext(ctx).Model(&catalog.BOMVersion{}).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("tenant_id = ? AND sku_id = ?", tenantID, skuID)
	query = applyFilter(query, filter, "effective_start_date DESC")

	if err := query.Find(&versions).Error; err != nil {
		return nil, err
	}
	return versions, nil
}

// DeactivateActiveForSKU deactivates the currently active version for a SKU,
// stamping its effective end date. At most one row is affected given the
// single-active invariant.
func (r *GormBOMVersionRepository) DeactivateActiveForSKU(ctx context.Context, tenantID, skuID uuid.UUID, effectiveEnd time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&catalog.BOMVersion{}).
		Where("tenant_id = ? AND sku_id = ? AND is_active = ?", tenantID, skuID, true).
		Updates(map[string]interface{}{
			"is_active":          false,
			"effective_end_date": effectiveEnd,
			"updated_at":         time.Now(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// SaveWithLines persists a version together with its lines
func (r *GormBOMVersionRepository) SaveWithLines(ctx context.Context, version *catalog.BOMVersion) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(version).Error
}

// ReplaceLines persists the version header and swaps its stored lines for
// the version's current line set
func (r *GormBOMVersionRepository) ReplaceLines(ctx context.Context, version *catalog.BOMVersion) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bom_version_id = ?", version.ID).Delete(&catalog.BOMLine{}).Error; err != nil {
			return err
		}
		if len(version.Lines) > 0 {
			if err := tx.Create(&version.Lines).Error; err != nil {
				return err
			}
		}
		return tx.Omit("Lines").Save(version).Error
	})
}

// Save persists version header fields only
func (r *GormBOMVersionRepository) Save(ctx context.Context, version *catalog.BOMVersion) error {
	return r.db.WithContext(ctx).Omit("Lines").Save(version).Error
}

// Ensure GormBOMVersionRepository implements BOMVersionRepository
var _ catalog.BOMVersionRepository = (*GormBOMVersionRepository)(nil)
