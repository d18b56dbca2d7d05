package catalog

import (
	"github.com/craftstock/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SKU represents a sellable finished good. Each SKU may have multiple BOM
// versions, of which at most one is active at a time.
type SKU struct {
	shared.TenantAggregateRoot
	BrandID     uuid.UUID `gorm:"type:uuid;index"`
	Code        string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_sku_tenant_code,priority:2"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:varchar(1024)"`
}

// TableName returns the table name for GORM
func (SKU) TableName() string {
	return "skus"
}

// NewSKU creates a new finished-good SKU for a tenant
func NewSKU(tenantID, brandID uuid.UUID, code, name string) (*SKU, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_SKU_CODE", "SKU code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "SKU name cannot be empty")
	}
	return &SKU{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		BrandID:             brandID,
		Code:                code,
		Name:                name,
	}, nil
}
