package catalog

import (
	"time"

	"github.com/craftstock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BOMVersion is a dated, named snapshot of a SKU's recipe.
// Invariant: for a given SKU, at most one version has IsActive = true.
// Activating a version deactivates its siblings and stamps their effective
// end date to the new version's effective start date.
type BOMVersion struct {
	shared.TenantAggregateRoot
	SKUID              uuid.UUID  `gorm:"column:sku_id;type:uuid;not null;index:idx_bom_version_sku"`
	Name               string     `gorm:"type:varchar(128);not null"`
	EffectiveStartDate time.Time  `gorm:"type:timestamptz;not null"`
	EffectiveEndDate   *time.Time `gorm:"type:timestamptz"`
	IsActive           bool       `gorm:"not null;default:false;index:idx_bom_version_active"`
	DefectNotes        string     `gorm:"type:varchar(1024)"`

	// Lines are owned by the version and persisted via association handling
	Lines []BOMLine `gorm:"foreignKey:BOMVersionID;references:ID"`
}

// TableName returns the table name for GORM
func (BOMVersion) TableName() string {
	return "bom_versions"
}

// BOMLine is one component requirement within a BOM version
type BOMLine struct {
	shared.BaseEntity
	BOMVersionID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ComponentID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	QuantityPerUnit decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Non-negative quantity per finished unit
	Notes           string          `gorm:"type:varchar(512)"`
	Position        int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (BOMLine) TableName() string {
	return "bom_lines"
}

// NewBOMVersion creates a new, initially inactive BOM version
func NewBOMVersion(tenantID, skuID uuid.UUID, name string, effectiveStart time.Time) (*BOMVersion, error) {
	if skuID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "BOM version name cannot be empty")
	}
	if effectiveStart.IsZero() {
		effectiveStart = time.Now()
	}
	return &BOMVersion{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SKUID:               skuID,
		Name:                name,
		EffectiveStartDate:  effectiveStart,
		Lines:               make([]BOMLine, 0),
	}, nil
}

// AddLine appends a component requirement to the version.
// A zero quantity is allowed (the line then imposes no build constraint);
// negative quantities are not.
func (v *BOMVersion) AddLine(componentID uuid.UUID, quantityPerUnit decimal.Decimal, notes string) error {
	if componentID == uuid.Nil {
		return shared.NewDomainError("INVALID_COMPONENT", "Component ID cannot be empty")
	}
	if quantityPerUnit.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity per unit cannot be negative")
	}
	v.Lines = append(v.Lines, BOMLine{
		BaseEntity:      shared.NewBaseEntity(),
		BOMVersionID:    v.ID,
		ComponentID:     componentID,
		QuantityPerUnit: quantityPerUnit,
		Notes:           notes,
		Position:        len(v.Lines),
	})
	v.UpdatedAt = time.Now()
	return nil
}

// ReplaceLines swaps the version's recipe for a new set of lines. Positions
// are reassigned from the given order. Validation matches AddLine.
func (v *BOMVersion) ReplaceLines(lines []BOMLine) error {
	replaced := make([]BOMLine, 0, len(lines))
	for i, line := range lines {
		if line.ComponentID == uuid.Nil {
			return shared.NewDomainError("INVALID_COMPONENT", "Component ID cannot be empty")
		}
		if line.QuantityPerUnit.IsNegative() {
			return shared.NewDomainError("INVALID_QUANTITY", "Quantity per unit cannot be negative")
		}
		replaced = append(replaced, BOMLine{
			BaseEntity:      shared.NewBaseEntity(),
			BOMVersionID:    v.ID,
			ComponentID:     line.ComponentID,
			QuantityPerUnit: line.QuantityPerUnit,
			Notes:           line.Notes,
			Position:        i,
		})
	}
	v.Lines = replaced
	v.UpdatedAt = time.Now()
	v.IncrementVersion()
	return nil
}

// Activate marks the version active as of the given start date.
// Deactivating the previously active sibling is the caller's responsibility
// and must happen in the same atomic unit.
func (v *BOMVersion) Activate(effectiveStart time.Time) {
	v.IsActive = true
	if !effectiveStart.IsZero() {
		v.EffectiveStartDate = effectiveStart
	}
	v.EffectiveEndDate = nil
	v.UpdatedAt = time.Now()
	v.IncrementVersion()
}

// Deactivate retires the version, stamping its effective end date
func (v *BOMVersion) Deactivate(effectiveEnd time.Time) {
	v.IsActive = false
	v.EffectiveEndDate = &effectiveEnd
	v.UpdatedAt = time.Now()
	v.IncrementVersion()
}

// Clone copies the version's lines into a new, inactive version with the
// given name. The clone gets fresh identifiers so it can evolve independently.
func (v *BOMVersion) Clone(name string, effectiveStart time.Time) *BOMVersion {
	clone := &BOMVersion{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(v.TenantID),
		SKUID:               v.SKUID,
		Name:                name,
		EffectiveStartDate:  effectiveStart,
		DefectNotes:         v.DefectNotes,
		Lines:               make([]BOMLine, 0, len(v.Lines)),
	}
	for _, line := range v.Lines {
		clone.Lines = append(clone.Lines, BOMLine{
			BaseEntity:      shared.NewBaseEntity(),
			BOMVersionID:    clone.ID,
			ComponentID:     line.ComponentID,
			QuantityPerUnit: line.QuantityPerUnit,
			Notes:           line.Notes,
			Position:        line.Position,
		})
	}
	return clone
}

// UnitCost computes the cost of one finished unit as the weighted sum of
// component costs. Components missing from the cost map contribute zero.
// No intermediate rounding is applied.
func (v *BOMVersion) UnitCost(componentCosts map[uuid.UUID]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, line := range v.Lines {
		cost, ok := componentCosts[line.ComponentID]
		if !ok {
			continue
		}
		total = total.Add(line.QuantityPerUnit.Mul(cost))
	}
	return total
}
