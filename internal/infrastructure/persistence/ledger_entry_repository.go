package persistence

import (
	"context"
	"errors"

	"github.com/craftstock/backend/internal/domain/ledger"
	"github.com/craftstock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormLedgerEntryRepository implements ledger.LedgerEntryRepository using
// GORM. The ledger is append-only: Create is the only write.
type GormLedgerEntryRepository struct {
	db *gorm.DB
}

// NewGormLedgerEntryRepository creates a new GormLedgerEntryRepository
func NewGormLedgerEntryRepository(db *gorm.DB) *GormLedgerEntryRepository {
	return &GormLedgerEntryRepository{db: db}
}

// Create persists an entry together with its component and finished-goods lines
func (r *GormLedgerEntryRepository) Create(ctx context.Context, entry *ledger.LedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindByIDForTenant finds an entry with its lines within a tenant
func (r *GormLedgerEntryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.LedgerEntry, error) {
	var entry ledger.LedgerEntry
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("FinishedLines").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindForTenant lists entries for a tenant, newest first
func (r *GormLedgerEntryRepository) FindForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ledger.LedgerEntry, error) {
	var entries []ledger.LedgerEntry
	query := r.db.WithContext(ctx).Model(&ledger.LedgerEntry{}).
		Preload("Lines").
		Preload("FinishedLines").
		Where("tenant_id = ?", tenantID)
	query = r.applyEntryFilters(query, filter)
	query = applyFilter(query, filter, "entry_date DESC, created_at DESC")

	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByComponent lists entries that moved the given component, newest first
func (r *GormLedgerEntryRepository) FindByComponent(ctx context.Context, tenantID, componentID uuid.UUID, filter shared.Filter) ([]ledger.LedgerEntry, error) {
	var entries []ledger.LedgerEntry
	query := r.db.WithContext(ctx).Model(&ledger.LedgerEntry{}).
		Preload("Lines").
		Preload("FinishedLines").
		Where("tenant_id = ? AND id IN (?)", tenantID,
			r.db.Model(&ledger.LedgerLine{}).
				Select("entry_id").
				Where("tenant_id = ? AND component_id = ?", tenantID, componentID),
		)
	query = applyFilter(query, filter, "entry_date DESC, created_at DESC")

	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindReversalOf finds the reversal entry for an original entry, if one exists
func (r *GormLedgerEntryRepository) FindReversalOf(ctx context.Context, tenantID, entryID uuid.UUID) (*ledger.LedgerEntry, error) {
	var entry ledger.LedgerEntry
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("FinishedLines").
		Where("tenant_id = ? AND reversal_of_id = ?", tenantID, entryID).
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// SumLineQuantity sums the signed quantity changes of all lines for a
// component, optionally scoped to a location.
func (r *GormLedgerEntryRepository) SumLineQuantity(ctx context.Context, tenantID, componentID uuid.UUID, locationID *uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	query := r.db.WithContext(ctx).
		Model(&ledger.LedgerLine{}).
		Select("COALESCE(SUM(quantity_change), 0) as total").
		Where("tenant_id = ? AND component_id = ?", tenantID, componentID)
	if locationID != nil {
		query = query.Where("location_id = ?", *locationID)
	}

	if err := query.Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// CountForTenant counts entries matching the filter
func (r *GormLedgerEntryRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&ledger.LedgerEntry{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyEntryFilters(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormLedgerEntryRepository) applyEntryFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "type":
			query = query.Where("type = ?", value)
		case "sku_id":
			query = query.Where("sku_id = ?", value)
		case "location_id":
			query = query.Where("location_id = ?", value)
		case "date_from":
			query = query.Where("entry_date >= ?", value)
		case "date_to":
			query = query.Where("entry_date <= ?", value)
		}
	}
	return query
}

// Ensure GormLedgerEntryRepository implements LedgerEntryRepository
var _ ledger.LedgerEntryRepository = (*GormLedgerEntryRepository)(nil)
