package ledger

import (
	"github.com/craftstock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ComponentBalance is the derived on-hand quantity for one component at one
// location. A nil LocationID is the pooled, location-unscoped row. Balances
// are maintained incrementally as ledger entries commit and must always equal
// the sum of ledger line quantity changes for the same key.
type ComponentBalance struct {
	shared.BaseEntity
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_component_balance_key,priority:1"`
	ComponentID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_component_balance_key,priority:2"`
	LocationID  *uuid.UUID      `gorm:"type:uuid;uniqueIndex:idx_component_balance_key,priority:3"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (ComponentBalance) TableName() string {
	return "component_balances"
}

// FinishedGoodsBalance is the derived on-hand quantity for one finished-good
// SKU at one location.
type FinishedGoodsBalance struct {
	shared.BaseEntity
	TenantID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_fg_balance_key,priority:1"`
	SKUID      uuid.UUID       `gorm:"column:sku_id;type:uuid;not null;uniqueIndex:idx_fg_balance_key,priority:2"`
	LocationID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_fg_balance_key,priority:3"`
	Quantity   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (FinishedGoodsBalance) TableName() string {
	return "finished_goods_balances"
}
