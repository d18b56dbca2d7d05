package ledger

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShortageReport names one component that cannot cover a planned consumption
type ShortageReport struct {
	ComponentID   uuid.UUID       `json:"component_id"`
	ComponentName string          `json:"component_name"`
	SKUCode       string          `json:"sku_code"`
	Required      decimal.Decimal `json:"required"`
	Available     decimal.Decimal `json:"available"`
	Shortage      decimal.Decimal `json:"shortage"`
}

// InsufficientInventoryError reports every component that falls short of a
// planned build, not just the first. Callers present the full list so the
// operator can fix all shortages in one pass.
type InsufficientInventoryError struct {
	Shortages []ShortageReport
}

func (e *InsufficientInventoryError) Error() string {
	if len(e.Shortages) == 0 {
		return "insufficient inventory"
	}
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		name := s.ComponentName
		if name == "" {
			name = s.ComponentID.String()
		}
		parts = append(parts, fmt.Sprintf("%s (required %s, available %s, short %s)",
			name, s.Required.String(), s.Available.String(), s.Shortage.String()))
	}
	return "insufficient inventory: " + strings.Join(parts, "; ")
}

// InsufficientLotQuantityError reports that a component's lots exist but
// cannot cover the required quantity
type InsufficientLotQuantityError struct {
	ComponentID uuid.UUID
	Required    decimal.Decimal
	Available   decimal.Decimal
	Shortfall   decimal.Decimal
}

func (e *InsufficientLotQuantityError) Error() string {
	return fmt.Sprintf("insufficient lot quantity for component %s: required %s, available %s, short %s",
		e.ComponentID, e.Required.String(), e.Available.String(), e.Shortfall.String())
}

// OverrideViolation is one problem found while validating a manual lot override
type OverrideViolation struct {
	ComponentID uuid.UUID  `json:"component_id"`
	LotID       *uuid.UUID `json:"lot_id,omitempty"`
	Code        string     `json:"code"`
	Message     string     `json:"message"`
}

// OverrideValidationError collects every violation found while validating
// manual lot overrides. Validation runs to completion rather than stopping at
// the first problem so the caller sees all of them at once.
type OverrideValidationError struct {
	Violations []OverrideViolation
}

func (e *OverrideValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "invalid lot overrides"
	}
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Message)
	}
	return "invalid lot overrides: " + strings.Join(parts, "; ")
}

// Add records a violation
func (e *OverrideValidationError) Add(componentID uuid.UUID, lotID *uuid.UUID, code, message string) {
	e.Violations = append(e.Violations, OverrideViolation{
		ComponentID: componentID,
		LotID:       lotID,
		Code:        code,
		Message:     message,
	})
}

// HasViolations returns true if any violation was recorded
func (e *OverrideValidationError) HasViolations() bool {
	return len(e.Violations) > 0
}
