package ledger

import (
	"time"

	"github.com/craftstock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryType represents the type of ledger entry.
//
// The domain entity LedgerEntry records an inventory event; the database
// transaction that writes it is a separate mechanism and is never called
// "transaction" in this package to keep the two apart.
type EntryType string

const (
	// EntryTypeReceipt records inbound component stock from a supplier
	EntryTypeReceipt EntryType = "RECEIPT"
	// EntryTypeBuild records component consumption plus finished-goods production
	EntryTypeBuild EntryType = "BUILD"
	// EntryTypeAdjustment records a signed manual correction
	EntryTypeAdjustment EntryType = "ADJUSTMENT"
	// EntryTypeInitial records opening stock
	EntryTypeInitial EntryType = "INITIAL"
	// EntryTypeTransfer records movement between locations
	EntryTypeTransfer EntryType = "TRANSFER"
	// EntryTypeOutbound records stock leaving for shipment
	EntryTypeOutbound EntryType = "OUTBOUND"
)

// String returns the string representation of EntryType
func (t EntryType) String() string {
	return string(t)
}

// IsValid returns true if the entry type is valid
func (t EntryType) IsValid() bool {
	switch t {
	case EntryTypeReceipt, EntryTypeBuild, EntryTypeAdjustment,
		EntryTypeInitial, EntryTypeTransfer, EntryTypeOutbound:
		return true
	}
	return false
}

// LedgerEntry is the immutable header of one inventory event. Entries are
// append-only: corrections create compensating reversal entries referencing
// the original via ReversalOfID, never in-place mutation of history.
type LedgerEntry struct {
	shared.BaseEntity
	TenantID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_ledger_entry_tenant_date,priority:1"`
	Type         EntryType  `gorm:"type:varchar(20);not null;index"`
	EntryDate    time.Time  `gorm:"type:timestamptz;not null;index:idx_ledger_entry_tenant_date,priority:2"`
	SKUID        *uuid.UUID `gorm:"column:sku_id;type:uuid;index"`
	BOMVersionID *uuid.UUID `gorm:"type:uuid"`
	LocationID   *uuid.UUID `gorm:"type:uuid;index"`
	// Transfer endpoints; only set for EntryTypeTransfer
	SourceLocationID *uuid.UUID `gorm:"type:uuid"`
	DestLocationID   *uuid.UUID `gorm:"type:uuid"`
	VendorName       string     `gorm:"type:varchar(255)"`

	// Build-specific fields
	UnitsBuilt    int64           `gorm:"not null;default:0"`
	UnitBOMCost   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalBOMCost  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DefectCount   int             `gorm:"not null;default:0"`
	DefectNotes   string          `gorm:"type:varchar(1024)"`
	AffectedUnits int             `gorm:"not null;default:0"`

	ReversalOfID *uuid.UUID `gorm:"type:uuid;index"`
	CreatedByID  *uuid.UUID `gorm:"type:uuid"`
	Notes        string     `gorm:"type:varchar(1024)"`

	Lines         []LedgerLine        `gorm:"foreignKey:EntryID;references:ID"`
	FinishedLines []FinishedGoodsLine `gorm:"foreignKey:EntryID;references:ID"`
}

// TableName returns the table name for GORM
func (LedgerEntry) TableName() string {
	return "ledger_entries"
}

// NewLedgerEntry creates a new ledger entry header
func NewLedgerEntry(tenantID uuid.UUID, entryType EntryType, entryDate time.Time) (*LedgerEntry, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if !entryType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ENTRY_TYPE", "Invalid ledger entry type")
	}
	if entryDate.IsZero() {
		entryDate = time.Now()
	}
	return &LedgerEntry{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		Type:       entryType,
		EntryDate:  entryDate,
		Lines:      make([]LedgerLine, 0),
	}, nil
}

// WithSKU sets the finished-good SKU reference
func (e *LedgerEntry) WithSKU(skuID uuid.UUID) *LedgerEntry {
	e.SKUID = &skuID
	return e
}

// WithBOMVersion sets the BOM version reference
func (e *LedgerEntry) WithBOMVersion(bomVersionID uuid.UUID) *LedgerEntry {
	e.BOMVersionID = &bomVersionID
	return e
}

// WithLocation sets the location reference
func (e *LedgerEntry) WithLocation(locationID uuid.UUID) *LedgerEntry {
	e.LocationID = &locationID
	return e
}

// WithTransferEndpoints sets the source and destination locations
func (e *LedgerEntry) WithTransferEndpoints(srcID, dstID uuid.UUID) *LedgerEntry {
	e.SourceLocationID = &srcID
	e.DestLocationID = &dstID
	return e
}

// WithBuildCosts sets the build cost fields
func (e *LedgerEntry) WithBuildCosts(unitsBuilt int64, unitBOMCost decimal.Decimal) *LedgerEntry {
	e.UnitsBuilt = unitsBuilt
	e.UnitBOMCost = unitBOMCost
	e.TotalBOMCost = unitBOMCost.Mul(decimal.NewFromInt(unitsBuilt))
	return e
}

// WithDefects sets defect metadata. Defects are free-form accompaniment; they
// do not change consumption math.
func (e *LedgerEntry) WithDefects(count int, notes string, affectedUnits int) *LedgerEntry {
	e.DefectCount = count
	e.DefectNotes = notes
	e.AffectedUnits = affectedUnits
	return e
}

// WithCreatedBy sets the creating user
func (e *LedgerEntry) WithCreatedBy(userID uuid.UUID) *LedgerEntry {
	e.CreatedByID = &userID
	return e
}

// WithNotes sets free-form notes
func (e *LedgerEntry) WithNotes(notes string) *LedgerEntry {
	e.Notes = notes
	return e
}

// WithReversalOf marks this entry as the compensating reversal of another
func (e *LedgerEntry) WithReversalOf(entryID uuid.UUID) *LedgerEntry {
	e.ReversalOfID = &entryID
	return e
}

// AddLine appends a component movement line. Quantity change is signed:
// negative for consumption, positive for production or receipt. CostPerUnit
// is a snapshot at event time and never retroactively changes.
func (e *LedgerEntry) AddLine(componentID uuid.UUID, lotID, locationID *uuid.UUID, quantityChange, costPerUnit decimal.Decimal) error {
	if componentID == uuid.Nil {
		return shared.NewDomainError("INVALID_COMPONENT", "Component ID cannot be empty")
	}
	if quantityChange.IsZero() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity change cannot be zero")
	}
	if costPerUnit.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Cost per unit cannot be negative")
	}
	e.Lines = append(e.Lines, LedgerLine{
		BaseEntity:     shared.NewBaseEntity(),
		EntryID:        e.ID,
		TenantID:       e.TenantID,
		ComponentID:    componentID,
		LotID:          lotID,
		LocationID:     locationID,
		QuantityChange: quantityChange,
		CostPerUnit:    costPerUnit,
	})
	return nil
}

// AddFinishedLine appends a finished-goods movement line
func (e *LedgerEntry) AddFinishedLine(skuID, locationID uuid.UUID, quantityChange decimal.Decimal) error {
	if skuID == uuid.Nil {
		return shared.NewDomainError("INVALID_SKU", "SKU ID cannot be empty")
	}
	if locationID == uuid.Nil {
		return shared.NewDomainError("INVALID_LOCATION", "Location ID cannot be empty")
	}
	if quantityChange.IsZero() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity change cannot be zero")
	}
	e.FinishedLines = append(e.FinishedLines, FinishedGoodsLine{
		BaseEntity:     shared.NewBaseEntity(),
		EntryID:        e.ID,
		TenantID:       e.TenantID,
		SKUID:          skuID,
		LocationID:     locationID,
		QuantityChange: quantityChange,
	})
	return nil
}

// ConsumedQuantity returns the total quantity consumed (as a positive number)
// across all component lines.
func (e *LedgerEntry) ConsumedQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, line := range e.Lines {
		if line.QuantityChange.IsNegative() {
			total = total.Add(line.QuantityChange.Neg())
		}
	}
	return total
}

// LedgerLine is one component movement within an entry. A nil LotID means
// pooled (non-lot-tracked) inventory.
type LedgerLine struct {
	shared.BaseEntity
	EntryID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_ledger_line_entry"`
	TenantID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ComponentID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_ledger_line_component"`
	LotID          *uuid.UUID      `gorm:"type:uuid;index"`
	LocationID     *uuid.UUID      `gorm:"type:uuid;index"`
	QuantityChange decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Signed: negative = consumption
	CostPerUnit    decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Snapshot at event time
}

// TableName returns the table name for GORM
func (LedgerLine) TableName() string {
	return "ledger_lines"
}

// IsConsumption returns true for a negative quantity change
func (l *LedgerLine) IsConsumption() bool {
	return l.QuantityChange.IsNegative()
}

// FinishedGoodsLine is one finished-good movement within an entry
type FinishedGoodsLine struct {
	shared.BaseEntity
	EntryID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_fg_line_entry"`
	TenantID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	SKUID          uuid.UUID       `gorm:"column:sku_id;type:uuid;not null;index"`
	LocationID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	QuantityChange decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Signed: positive = production
}

// TableName returns the table name for GORM
func (FinishedGoodsLine) TableName() string {
	return "finished_goods_lines"
}
