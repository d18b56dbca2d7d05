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

// fefoOrder sorts earliest expiry first with undated lots last, ties broken by
// creation time. Kept as one expression so every lot query agrees on the order.
const fefoOrder = "COALESCE(expiry_date, '9999-12-31') ASC, created_at ASC"

// GormLotRepository implements ledger.LotRepository using GORM
type GormLotRepository struct {
	db *gorm.DB
}

// NewGormLotRepository creates a new GormLotRepository
func NewGormLotRepository(db *gorm.DB) *GormLotRepository {
	return &GormLotRepository{db: db}
}

// FindByIDForTenant finds a lot by ID within a tenant
func (r *GormLotRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Lot, error) {
	var lot ledger.Lot
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&lot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &lot, nil
}

// FindByIDsForTenant finds multiple lots by their IDs within a tenant
func (r *GormLotRepository) FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]ledger.Lot, error) {
	if len(ids) == 0 {
		return []ledger.Lot{}, nil
	}

	var lots []ledger.Lot
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

// FindAvailableByComponent finds all lots with remaining stock for a
// component, first-expired-first-out.
func (r *GormLotRepository) FindAvailableByComponent(ctx context.Context, tenantID, componentID uuid.UUID) ([]ledger.Lot, error) {
	var lots []ledger.Lot
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND component_id = ? AND remaining_quantity > 0", tenantID, componentID).
		Order(fefoOrder).
		Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

// FindAvailableByComponents finds available lots for multiple components in
// one query, FEFO-ordered within each component.
func (r *GormLotRepository) FindAvailableByComponents(ctx context.Context, tenantID uuid.UUID, componentIDs []uuid.UUID) (map[uuid.UUID][]ledger.Lot, error) {
	result := make(map[uuid.UUID][]ledger.Lot, len(componentIDs))
	if len(componentIDs) == 0 {
		return result, nil
	}

	var lots []ledger.Lot
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND component_id IN ? AND remaining_quantity > 0", tenantID, componentIDs).
		Order(fefoOrder).
		Find(&lots).Error; err != nil {
		return nil, err
	}
	for _, lot := range lots {
		result[lot.ComponentID] = append(result[lot.ComponentID], lot)
	}
	return result, nil
}

// FindExpiringBefore finds lots with remaining stock whose expiry date falls
// before the cutoff.
func (r *GormLotRepository) FindExpiringBefore(ctx context.Context, tenantID uuid.UUID, cutoff time.Time, filter shared.Filter) ([]ledger.Lot, error) {
	var lots []ledger.Lot
	query := r.db.WithContext(ctx).Model(&ledger.Lot{}).
		Where("tenant_id = ? AND remaining_quantity > 0 AND expiry_date IS NOT NULL AND expiry_date < ?", tenantID, cutoff)
	query = applyFilter(query, filter, "expiry_date ASC")

	if err := query.Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

// FindByComponent finds all lots for a component, including empty ones
func (r *GormLotRepository) FindByComponent(ctx context.Context, tenantID, componentID uuid.UUID, filter shared.Filter) ([]ledger.Lot, error) {
	var lots []ledger.Lot
	query := r.db.WithContext(ctx).Model(&ledger.Lot{}).
		Where("tenant_id = ? AND component_id = ?", tenantID, componentID)
	query = applyFilter(query, filter, fefoOrder)

	if err := query.Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

// Save creates or updates a lot
func (r *GormLotRepository) Save(ctx context.Context, lot *ledger.Lot) error {
	return r.db.WithContext(ctx).Save(lot).Error
}

// DeductQuantity atomically decrements a lot's remaining quantity. The guard
// is in the WHERE clause so two concurrent consumers cannot both drain the
// same units; the loser sees zero rows affected.
func (r *GormLotRepository) DeductQuantity(ctx context.Context, tenantID, lotID uuid.UUID, quantity decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&ledger.Lot{}).
		Where("tenant_id = ? AND id = ? AND remaining_quantity >= ?", tenantID, lotID, quantity).
		Updates(map[string]interface{}{
			"remaining_quantity": gorm.Expr("remaining_quantity - ?", quantity),
			"version":            gorm.Expr("version + 1"),
			"updated_at":         time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&ledger.Lot{}).
			Where("tenant_id = ? AND id = ?", tenantID, lotID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return shared.ErrNotFound
		}
		return shared.ErrInsufficientStock
	}
	return nil
}

// RestoreQuantity atomically increments a lot's remaining quantity
func (r *GormLotRepository) RestoreQuantity(ctx context.Context, tenantID, lotID uuid.UUID, quantity decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&ledger.Lot{}).
		Where("tenant_id = ? AND id = ?", tenantID, lotID).
		Updates(map[string]interface{}{
			"remaining_quantity": gorm.Expr("remaining_quantity + ?", quantity),
			"version":            gorm.Expr("version + 1"),
			"updated_at":         time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormLotRepository implements LotRepository
var _ ledger.LotRepository = (*GormLotRepository)(nil)
