package catalog

import (
	"context"
	"time"

	"github.com/craftstock/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ComponentRepository defines the interface for component persistence.
// Every method is tenant-scoped; a lookup for a component belonging to a
// different tenant reports shared.ErrNotFound.
type ComponentRepository interface {
	// FindByIDForTenant finds a component by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Component, error)

	// FindByIDs finds multiple components by their IDs within a tenant
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Component, error)

	// FindBySKUCode finds a component by its tenant-unique SKU code
	FindBySKUCode(ctx context.Context, tenantID uuid.UUID, skuCode string) (*Component, error)

	// FindAllForTenant finds all components for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Component, error)

	// Save creates or updates a component
	Save(ctx context.Context, component *Component) error

	// CountForTenant counts components matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// SKURepository defines the interface for finished-good SKU persistence
type SKURepository interface {
	// FindByIDForTenant finds a SKU by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*SKU, error)

	// FindByIDs finds multiple SKUs by their IDs within a tenant
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]SKU, error)

	// FindAllForTenant finds all SKUs for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]SKU, error)

	// Save creates or updates a SKU
	Save(ctx context.Context, sku *SKU) error
}

// BOMVersionRepository defines the interface for BOM version persistence
type BOMVersionRepository interface {
	// FindByIDForTenant finds a BOM version with its lines within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*BOMVersion, error)

	// FindByIDsForTenant finds multiple BOM versions with their lines
	FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]BOMVersion, error)

	// FindActiveBySKU finds the active BOM version for a SKU, with lines.
	// Returns shared.ErrNotFound when the SKU has no active version.
	FindActiveBySKU(ctx context.Context, tenantID, skuID uuid.UUID) (*BOMVersion, error)

	// FindActiveBySKUs finds the active BOM versions for multiple SKUs in one query
	FindActiveBySKUs(ctx context.Context, tenantID uuid.UUID, skuIDs []uuid.UUID) ([]BOMVersion, error)

	// FindBySKU finds all BOM versions for a SKU
	FindBySKU(ctx context.Context, tenantID, skuID uuid.UUID, filter shared.Filter) ([]BOMVersion, error)

	// DeactivateActiveForSKU deactivates the currently active version for a
	// SKU, stamping its effective end date. Returns the number of versions
	// deactivated (0 or 1).
	DeactivateActiveForSKU(ctx context.Context, tenantID, skuID uuid.UUID, effectiveEnd time.Time) (int64, error)

	// SaveWithLines persists a version together with its lines
	SaveWithLines(ctx context.Context, version *BOMVersion) error

	// ReplaceLines persists the version header and swaps its stored lines
	// for the version's current line set
	ReplaceLines(ctx context.Context, version *BOMVersion) error

	// Save persists version header fields only
	Save(ctx context.Context, version *BOMVersion) error
}

// LocationRepository defines the interface for location persistence
type LocationRepository interface {
	// FindByIDForTenant finds a location by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Location, error)

	// FindDefaultForTenant finds the tenant's default location.
	// Returns shared.ErrNotFound when no default is configured.
	FindDefaultForTenant(ctx context.Context, tenantID uuid.UUID) (*Location, error)

	// FindAllForTenant finds all locations for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Location, error)

	// Save creates or updates a location
	Save(ctx context.Context, location *Location) error
}
