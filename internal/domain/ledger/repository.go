package ledger

import (
	"context"
	"time"

	"github.com/craftstock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LotRepository defines the interface for lot persistence
type LotRepository interface {
	// FindByIDForTenant finds a lot by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Lot, error)

	// FindByIDsForTenant finds multiple lots by their IDs within a tenant
	FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Lot, error)

	// FindAvailableByComponent finds all lots with remaining stock for a
	// component, ordered first-expired-first-out: earliest expiry first, lots
	// without expiry last, ties broken by creation time.
	FindAvailableByComponent(ctx context.Context, tenantID, componentID uuid.UUID) ([]Lot, error)

	// FindAvailableByComponents finds available lots for multiple components
	// in one query, FEFO-ordered within each component.
	FindAvailableByComponents(ctx context.Context, tenantID uuid.UUID, componentIDs []uuid.UUID) (map[uuid.UUID][]Lot, error)

	// FindExpiringBefore finds lots with remaining stock whose expiry date
	// falls before the cutoff.
	FindExpiringBefore(ctx context.Context, tenantID uuid.UUID, cutoff time.Time, filter shared.Filter) ([]Lot, error)

	// FindByComponent finds all lots for a component, including empty ones
	FindByComponent(ctx context.Context, tenantID, componentID uuid.UUID, filter shared.Filter) ([]Lot, error)

	// Save creates or updates a lot
	Save(ctx context.Context, lot *Lot) error

	// DeductQuantity atomically decrements a lot's remaining quantity using a
	// conditional update that only succeeds when enough remains. Returns
	// shared.ErrInsufficientStock when a concurrent consumer won the race.
	DeductQuantity(ctx context.Context, tenantID, lotID uuid.UUID, quantity decimal.Decimal) error

	// RestoreQuantity atomically increments a lot's remaining quantity
	RestoreQuantity(ctx context.Context, tenantID, lotID uuid.UUID, quantity decimal.Decimal) error
}

// LedgerEntryRepository defines the interface for ledger entry persistence.
// Entries are append-only; there is no update or delete.
type LedgerEntryRepository interface {
	// Create persists an entry together with its component and finished-goods lines
	Create(ctx context.Context, entry *LedgerEntry) error

	// FindByIDForTenant finds an entry with its lines within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*LedgerEntry, error)

	// FindForTenant lists entries for a tenant, newest first
	FindForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]LedgerEntry, error)

	// FindByComponent lists entries that moved the given component, newest first
	FindByComponent(ctx context.Context, tenantID, componentID uuid.UUID, filter shared.Filter) ([]LedgerEntry, error)

	// FindReversalOf finds the reversal entry for an original entry, if one
	// exists. Returns shared.ErrNotFound when the entry has not been reversed.
	FindReversalOf(ctx context.Context, tenantID, entryID uuid.UUID) (*LedgerEntry, error)

	// SumLineQuantity sums the signed quantity changes of all lines for a
	// component, optionally scoped to a location. The result must equal the
	// stored balance for the same key.
	SumLineQuantity(ctx context.Context, tenantID, componentID uuid.UUID, locationID *uuid.UUID) (decimal.Decimal, error)

	// CountForTenant counts entries matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// ComponentBalanceRepository defines the interface for derived component
// balance persistence
type ComponentBalanceRepository interface {
	// Get finds the balance row for a component at a location. A nil
	// locationID addresses the pooled, location-unscoped row. Returns
	// shared.ErrNotFound when no row exists yet.
	Get(ctx context.Context, tenantID, componentID uuid.UUID, locationID *uuid.UUID) (*ComponentBalance, error)

	// AvailableQuantity returns the quantity on hand for a component. With a
	// nil locationID it sums across all of the component's balance rows; with
	// a locationID it returns that row's quantity. Missing rows count as zero.
	AvailableQuantity(ctx context.Context, tenantID, componentID uuid.UUID, locationID *uuid.UUID) (decimal.Decimal, error)

	// AvailableQuantities returns on-hand quantities for multiple components
	// in one query. Components with no balance rows are present with zero.
	AvailableQuantities(ctx context.Context, tenantID uuid.UUID, componentIDs []uuid.UUID, locationID *uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)

	// PooledQuantities returns the pooled (location-less) row quantities for
	// multiple components in one query. This is the scope a location-less
	// consumption deducts from, so sufficiency checks guarding such a
	// consumption must read it rather than the all-location sum.
	PooledQuantities(ctx context.Context, tenantID uuid.UUID, componentIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)

	// ApplyDelta atomically adjusts a balance, inserting the row if absent.
	// A negative delta uses a conditional update that only succeeds when the
	// resulting quantity stays non-negative; shared.ErrInsufficientStock is
	// returned when it would not.
	ApplyDelta(ctx context.Context, tenantID, componentID uuid.UUID, locationID *uuid.UUID, delta decimal.Decimal) error

	// ListForTenant lists all balance rows for a tenant
	ListForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ComponentBalance, error)
}

// FinishedGoodsBalanceRepository defines the interface for derived
// finished-goods balance persistence
type FinishedGoodsBalanceRepository interface {
	// Get finds the balance row for a SKU at a location
	Get(ctx context.Context, tenantID, skuID, locationID uuid.UUID) (*FinishedGoodsBalance, error)

	// ListForSKU lists balance rows for a SKU across locations
	ListForSKU(ctx context.Context, tenantID, skuID uuid.UUID) ([]FinishedGoodsBalance, error)

	// ApplyDelta atomically adjusts a balance, inserting the row if absent.
	// Negative deltas are guarded the same way as component balances.
	ApplyDelta(ctx context.Context, tenantID, skuID, locationID uuid.UUID, delta decimal.Decimal) error
}
