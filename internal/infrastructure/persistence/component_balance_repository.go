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

// GormComponentBalanceRepository implements ledger.ComponentBalanceRepository
// using GORM. The balance table is an incrementally-maintained projection of
// the ledger; ApplyDelta is always called inside the same database
// transaction as the entry that justifies the delta.
type GormComponentBalanceRepository struct {
	db *gorm.DB
}

// NewGormComponentBalanceRepository creates a new GormComponentBalanceRepository
func NewGormComponentBalanceRepository(db *gorm.DB) *GormComponentBalanceRepository {
	return &GormComponentBalanceRepository{db: db}
}

// locationScope narrows a balance query to one location. A nil locationID
// addresses the pooled row, which is stored with a NULL location.
func locationScope(query *gorm.DB, locationID *uuid.UUID) *gorm.DB {
	if locationID == nil {
		return query.Where("location_id IS NULL")
	}
	return query.Where("location_id = ?", *locationID)
}

// Get finds the balance row for a component at a location
func (r *GormComponentBalanceRepository) Get(ctx context.Context, tenantID, componentID uuid.UUID, locationID *uuid.UUID) (*ledger.ComponentBalance, error) {
	var balance ledger.ComponentBalance
	query := r.db.WithContext(ctx).
		Where("tenant_id = ? AND component_id = ?", tenantID, componentID)
	query = locationScope(query, locationID)

	if err := query.First(&balance).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &balance, nil
}

// AvailableQuantity returns the quantity on hand for a component. A nil
// locationID sums across all of the component's rows; missing rows are zero.
func (r *GormComponentBalanceRepository) AvailableQuantity(ctx context.Context, tenantID, componentID uuid.UUID, locationID *uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	query := r.db.WithContext(ctx).
		Model(&ledger.ComponentBalance{}).
		Select("COALESCE(SUM(quantity), 0) as total").
		Where("tenant_id = ? AND component_id = ?", tenantID, componentID)
	if locationID != nil {
		query = query.Where("location_id = ?", *locationID)
	}

	if err := query.Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// AvailableQuantities returns on-hand quantities for multiple components in
// one query. Components with no balance rows are present with zero.
func (r *GormComponentBalanceRepository) AvailableQuantities(ctx context.Context, tenantID uuid.UUID, componentIDs []uuid.UUID, locationID *uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	result := make(map[uuid.UUID]decimal.Decimal, len(componentIDs))
	for _, id := range componentIDs {
		result[id] = decimal.Zero
	}
	if len(componentIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		ComponentID uuid.UUID
		Total       decimal.Decimal
	}
	query := r.db.WithContext(ctx).
		Model(&ledger.ComponentBalance{}).
		Select("component_id, COALESCE(SUM(quantity), 0) as total").
		Where("tenant_id = ? AND component_id IN ?", tenantID, componentIDs).
		Group("component_id")
	if locationID != nil {
		query = query.Where("location_id = ?", *locationID)
	}

	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.ComponentID] = row.Total
	}
	return result, nil
}

// PooledQuantities returns the pooled (NULL-location) row quantities for
// multiple components. Components without a pooled row are present with zero,
// matching what a location-less ApplyDelta would find.
func (r *GormComponentBalanceRepository) PooledQuantities(ctx context.Context, tenantID uuid.UUID, componentIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	result := make(map[uuid.UUID]decimal.Decimal, len(componentIDs))
	for _, id := range componentIDs {
		result[id] = decimal.Zero
	}
	if len(componentIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		ComponentID uuid.UUID
		Quantity    decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&ledger.ComponentBalance{}).
		Select("component_id, quantity").
		Where("tenant_id = ? AND component_id IN ? AND location_id IS NULL", tenantID, componentIDs).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.ComponentID] = row.Quantity
	}
	return result, nil
}

// ApplyDelta atomically adjusts a balance, inserting the row if absent.
// Negative deltas only succeed when the resulting quantity stays
// non-negative; the guard lives in the WHERE clause so concurrent writers
// cannot both drive the balance below zero.
func (r *GormComponentBalanceRepository) ApplyDelta(ctx context.Context, tenantID, componentID uuid.UUID, locationID *uuid.UUID, delta decimal.Decimal) error {
	query := r.db.WithContext(ctx).
		Model(&ledger.ComponentBalance{}).
		Where("tenant_id = ? AND component_id = ?", tenantID, componentID)
	query = locationScope(query, locationID)
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

	// No row was updated: either the row is missing or a negative delta
	// failed its guard. A negative delta into a missing row is insufficient
	// stock either way.
	if delta.IsNegative() {
		return shared.ErrInsufficientStock
	}

	balance := ledger.ComponentBalance{
		BaseEntity:  shared.NewBaseEntity(),
		TenantID:    tenantID,
		ComponentID: componentID,
		LocationID:  locationID,
		Quantity:    delta,
	}
	return r.db.WithContext(ctx).Create(&balance).Error
}

// ListForTenant lists all balance rows for a tenant
func (r *GormComponentBalanceRepository) ListForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ledger.ComponentBalance, error) {
	var balances []ledger.ComponentBalance
	query := r.db.WithContext(ctx).Model(&ledger.ComponentBalance{}).
		Where("tenant_id = ?", tenantID)
	for key, value := range filter.Filters {
		switch key {
		case "component_id":
			query = query.Where("component_id = ?", value)
		case "location_id":
			query = query.Where("location_id = ?", value)
		case "has_stock":
			if value == true {
				query = query.Where("quantity > 0")
			}
		}
	}
	query = applyFilter(query, filter, "created_at DESC")

	if err := query.Find(&balances).Error; err != nil {
		return nil, err
	}
	return balances, nil
}

// Ensure GormComponentBalanceRepository implements ComponentBalanceRepository
var _ ledger.ComponentBalanceRepository = (*GormComponentBalanceRepository)(nil)
