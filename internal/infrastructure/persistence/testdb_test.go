package persistence

import (
	"testing"
	"time"

	"github.com/craftstock/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupLedgerTestDB creates an in-memory SQLite database with the full
// catalog and ledger schema for testing
func setupLedgerTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE components (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			version INTEGER NOT NULL DEFAULT 1,
			tenant_id TEXT NOT NULL,
			created_by TEXT,
			brand_id TEXT,
			sku_code TEXT NOT NULL,
			name TEXT NOT NULL,
			unit_of_measure TEXT NOT NULL DEFAULT 'each',
			cost_per_unit NUMERIC NOT NULL DEFAULT 0,
			reorder_point NUMERIC NOT NULL DEFAULT 0,
			lead_time_days INTEGER NOT NULL DEFAULT 0,
			archived INTEGER NOT NULL DEFAULT 0,
			UNIQUE(tenant_id, sku_code)
		)`,
		`CREATE TABLE skus (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			version INTEGER NOT NULL DEFAULT 1,
			tenant_id TEXT NOT NULL,
			created_by TEXT,
			brand_id TEXT,
			code TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT,
			UNIQUE(tenant_id, code)
		)`,
		`CREATE TABLE locations (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			version INTEGER NOT NULL DEFAULT 1,
			tenant_id TEXT NOT NULL,
			created_by TEXT,
			code TEXT NOT NULL,
			name TEXT NOT NULL,
			is_default INTEGER NOT NULL DEFAULT 0,
			is_active INTEGER NOT NULL DEFAULT 1,
			UNIQUE(tenant_id, code)
		)`,
		`CREATE TABLE bom_versions (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			version INTEGER NOT NULL DEFAULT 1,
			tenant_id TEXT NOT NULL,
			created_by TEXT,
			sku_id TEXT NOT NULL,
			name TEXT NOT NULL,
			effective_start_date DATETIME NOT NULL,
			effective_end_date DATETIME,
			is_active INTEGER NOT NULL DEFAULT 0,
			defect_notes TEXT
		)`,
		`CREATE TABLE bom_lines (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			bom_version_id TEXT NOT NULL,
			component_id TEXT NOT NULL,
			quantity_per_unit NUMERIC NOT NULL,
			notes TEXT,
			position INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE lots (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			version INTEGER NOT NULL DEFAULT 1,
			tenant_id TEXT NOT NULL,
			created_by TEXT,
			component_id TEXT NOT NULL,
			lot_number TEXT NOT NULL,
			expiry_date DATETIME,
			received_quantity NUMERIC NOT NULL,
			remaining_quantity NUMERIC NOT NULL,
			reserved_quantity NUMERIC NOT NULL DEFAULT 0,
			supplier TEXT
		)`,
		`CREATE TABLE ledger_entries (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			tenant_id TEXT NOT NULL,
			type TEXT NOT NULL,
			entry_date DATETIME NOT NULL,
			sku_id TEXT,
			bom_version_id TEXT,
			location_id TEXT,
			source_location_id TEXT,
			dest_location_id TEXT,
			vendor_name TEXT,
			units_built INTEGER NOT NULL DEFAULT 0,
			unit_bom_cost NUMERIC NOT NULL DEFAULT 0,
			total_bom_cost NUMERIC NOT NULL DEFAULT 0,
			defect_count INTEGER NOT NULL DEFAULT 0,
			defect_notes TEXT,
			affected_units INTEGER NOT NULL DEFAULT 0,
			reversal_of_id TEXT,
			created_by_id TEXT,
			notes TEXT
		)`,
		`CREATE TABLE ledger_lines (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			entry_id TEXT NOT NULL,
			tenant_id TEXT NOT NULL,
			component_id TEXT NOT NULL,
			lot_id TEXT,
			location_id TEXT,
			quantity_change NUMERIC NOT NULL,
			cost_per_unit NUMERIC NOT NULL
		)`,
		`CREATE TABLE finished_goods_lines (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			entry_id TEXT NOT NULL,
			tenant_id TEXT NOT NULL,
			sku_id TEXT NOT NULL,
			location_id TEXT NOT NULL,
			quantity_change NUMERIC NOT NULL
		)`,
		`CREATE TABLE component_balances (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			tenant_id TEXT NOT NULL,
			component_id TEXT NOT NULL,
			location_id TEXT,
			quantity NUMERIC NOT NULL DEFAULT 0,
			UNIQUE(tenant_id, component_id, location_id)
		)`,
		`CREATE TABLE finished_goods_balances (
			id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			tenant_id TEXT NOT NULL,
			sku_id TEXT NOT NULL,
			location_id TEXT NOT NULL,
			quantity NUMERIC NOT NULL DEFAULT 0,
			UNIQUE(tenant_id, sku_id, location_id)
		)`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}

	return db
}

// mustNewLot builds a lot and pins its creation time so FEFO tiebreak
// assertions are deterministic
func mustNewLot(t *testing.T, tenantID, componentID uuid.UUID, lotNumber string, expiry *time.Time, quantity decimal.Decimal, createdAt time.Time) *ledger.Lot {
	lot, err := ledger.NewLot(tenantID, componentID, lotNumber, expiry, quantity, "")
	require.NoError(t, err)
	lot.CreatedAt = createdAt
	lot.UpdatedAt = createdAt
	return lot
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}
