package ledger

import (
	"time"

	"github.com/craftstock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Lot represents a physically distinct receipt of a component. A component
// may have zero lots (pooled, untracked inventory) or many.
type Lot struct {
	shared.TenantAggregateRoot
	ComponentID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_lot_component"`
	LotNumber         string          `gorm:"type:varchar(128);not null"`
	ExpiryDate        *time.Time      `gorm:"type:timestamptz;index"` // Optional; lots without expiry sort after dated lots
	ReceivedQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	RemainingQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Invariant: never negative
	ReservedQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Supplier          string          `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (Lot) TableName() string {
	return "lots"
}

// NewLot creates a new lot from a receipt event
func NewLot(tenantID, componentID uuid.UUID, lotNumber string, expiryDate *time.Time, receivedQuantity decimal.Decimal, supplier string) (*Lot, error) {
	if componentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPONENT", "Component ID cannot be empty")
	}
	if lotNumber == "" {
		return nil, shared.NewDomainError("INVALID_LOT_NUMBER", "Lot number cannot be empty")
	}
	if receivedQuantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Received quantity must be positive")
	}
	return &Lot{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ComponentID:         componentID,
		LotNumber:           lotNumber,
		ExpiryDate:          expiryDate,
		ReceivedQuantity:    receivedQuantity,
		RemainingQuantity:   receivedQuantity,
		ReservedQuantity:    decimal.Zero,
		Supplier:            supplier,
	}, nil
}

// HasStock returns true if the lot has remaining quantity
func (l *Lot) HasStock() bool {
	return l.RemainingQuantity.GreaterThan(decimal.Zero)
}

// IsExpired returns true if the lot's expiry date has passed
func (l *Lot) IsExpired(now time.Time) bool {
	if l.ExpiryDate == nil {
		return false
	}
	return l.ExpiryDate.Before(now)
}

// ExpiresWithin returns true if the lot will expire within the given duration
func (l *Lot) ExpiresWithin(now time.Time, d time.Duration) bool {
	if l.ExpiryDate == nil {
		return false
	}
	return l.ExpiryDate.Before(now.Add(d))
}

// Deduct reduces the remaining quantity. It fails rather than going negative;
// persistence performs the same guard as a conditional update so concurrent
// consumers cannot both succeed.
func (l *Lot) Deduct(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Deduction quantity must be positive")
	}
	if l.RemainingQuantity.LessThan(quantity) {
		return shared.ErrInsufficientStock
	}
	l.RemainingQuantity = l.RemainingQuantity.Sub(quantity)
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
	return nil
}

// Restore adds quantity back to the lot (reversals, corrected consumption)
func (l *Lot) Restore(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Restore quantity must be positive")
	}
	l.RemainingQuantity = l.RemainingQuantity.Add(quantity)
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
	return nil
}
