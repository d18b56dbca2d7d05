package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/craftstock/backend/internal/domain/ledger"
	"github.com/craftstock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormFinishedGoodsBalanceRepository implements
// ledger.FinishedGoodsBalanceRepository using GORM
type GormFinishedGoodsBalanceRepository struct {
	db *gorm.DB
}

// NewGormFinishedGoodsBalanceRepository creates a new GormFinishedGoodsBalanceRepository
func NewGormFinishedGoodsBalanceRepository(db *gorm.DB) *GormFinishedGoodsBalanceRepository {
	return &GormFinishedGoodsBalanceRepository{db: db}
}

// Get finds the balance row for a SKU at a location
func (r *GormFinishedGoodsBalanceRepository) Get(ctx context.Context, tenantID, skuID, locationID uuid.UUID) (*ledger.FinishedGoodsBalance, error) {
	var balance ledger.FinishedGoodsBalance
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND sku_id = ? AND location_id = ?", tenantID, skuID, locationID).
		First(&balance).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &balance, nil
}

// ListForSKU lists balance rows for a SKU across locations
func (r *GormFinishedGoodsBalanceRepository) ListForSKU(ctx context.Context, tenantID, skuID uuid.UUID) ([]ledger.FinishedGoodsBalance, error) {
	var balances []ledger.FinishedGoodsBalance
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND sku_id = ?", tenantID, skuID).
		Order("created_at ASC").
		Find(&balances).Error; err != nil {
		return nil, err
	}
	return balances, nil
}

// ApplyDelta atomically adjusts a balance, inserting the row if absent.
// Negative deltas are guarded the same way as component balances.
func (r *GormFinishedGoodsBalanceRepository) ApplyDelta(ctx context.Context, tenantID, skuID, locationID uuid.UUID, delta decimal.Decimal) error {
	query := r.db.WithContext(ctx).
		Model(&ledger.FinishedGoodsBalance{}).
		Where("tenant_id = ? AND sku_id = ? AND location_id = ?", tenantID, skuID, locationID)
	if delta.IsNegative() {
		query = query.Where("quantity >= ?", delta.Neg())
	}

	result := query.Updates(map[string]interface{}{
		"quantity":   gorm.Expr("quantity + ?", delta),
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	if delta.IsNegative() {
		return shared.ErrInsufficientStock
	}

	balance := ledger.FinishedGoodsBalance{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		SKUID:      skuID,
		LocationID: locationID,
		Quantity:   delta,
	}
	return r.db.WithContext(ctx).Create(&balance).Error
}

// Ensure GormFinishedGoodsBalanceRepository implements FinishedGoodsBalanceRepository
var _ ledger.FinishedGoodsBalanceRepository = (*GormFinishedGoodsBalanceRepository)(nil)
