package catalog

import (
	"time"

	"github.com/craftstock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CostPrecision is the number of fractional digits component costs are quoted to.
// Intermediate cost accumulation is never rounded; rounding happens only at the
// display boundary.
const CostPrecision = 4

// Component represents a consumable input tracked in raw inventory.
// A component is never physically deleted once it is referenced by ledger
// history; it is archived instead.
type Component struct {
	shared.TenantAggregateRoot
	BrandID       uuid.UUID       `gorm:"type:uuid;index"`
	SKUCode       string          `gorm:"type:varchar(64);not null;uniqueIndex:idx_component_tenant_sku,priority:2"`
	Name          string          `gorm:"type:varchar(255);not null"`
	UnitOfMeasure string          `gorm:"type:varchar(32);not null;default:'each'"`
	CostPerUnit   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Current standard cost, 4 fractional digits
	ReorderPoint  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LeadTimeDays  int             `gorm:"not null;default:0"`
	Archived      bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Component) TableName() string {
	return "components"
}

// NewComponent creates a new component for a tenant
func NewComponent(tenantID, brandID uuid.UUID, skuCode, name, unitOfMeasure string, costPerUnit decimal.Decimal) (*Component, error) {
	if skuCode == "" {
		return nil, shared.NewDomainError("INVALID_SKU_CODE", "Component SKU code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Component name cannot be empty")
	}
	if costPerUnit.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Cost per unit cannot be negative")
	}
	if unitOfMeasure == "" {
		unitOfMeasure = "each"
	}

	return &Component{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		BrandID:             brandID,
		SKUCode:             skuCode,
		Name:                name,
		UnitOfMeasure:       unitOfMeasure,
		CostPerUnit:         costPerUnit,
		ReorderPoint:        decimal.Zero,
	}, nil
}

// UpdateCost replaces the current standard cost.
// Historical cost snapshots on ledger lines are unaffected.
func (c *Component) UpdateCost(costPerUnit decimal.Decimal) error {
	if costPerUnit.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Cost per unit cannot be negative")
	}
	c.CostPerUnit = costPerUnit
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// SetReorderPoint sets the reorder threshold used for replenishment alerts
func (c *Component) SetReorderPoint(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Reorder point cannot be negative")
	}
	c.ReorderPoint = quantity
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// Archive marks the component as no longer orderable without removing history
func (c *Component) Archive() {
	c.Archived = true
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// IsBelowReorder returns true if the given available quantity is below the reorder point
func (c *Component) IsBelowReorder(available decimal.Decimal) bool {
	return c.ReorderPoint.GreaterThan(decimal.Zero) && available.LessThan(c.ReorderPoint)
}
