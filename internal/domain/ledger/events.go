package ledger

import (
	"github.com/craftstock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BuildCompletedEvent is published after a build entry commits
type BuildCompletedEvent struct {
	shared.BaseDomainEvent
	EntryID     uuid.UUID       `json:"entry_id"`
	SKUID       uuid.UUID       `json:"sku_id"`
	UnitsBuilt  int64           `json:"units_built"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	DefectCount int             `json:"defect_count"`
}

// NewBuildCompletedEvent creates a build completed event
func NewBuildCompletedEvent(tenantID, entryID, skuID uuid.UUID, unitsBuilt int64, totalCost decimal.Decimal, defectCount int) *BuildCompletedEvent {
	return &BuildCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ledger.build_completed", "LedgerEntry", entryID, tenantID),
		EntryID:         entryID,
		SKUID:           skuID,
		UnitsBuilt:      unitsBuilt,
		TotalCost:       totalCost,
		DefectCount:     defectCount,
	}
}

// ComponentBelowReorderEvent is published when a consumption drops a
// component's available quantity to or below its reorder point
type ComponentBelowReorderEvent struct {
	shared.BaseDomainEvent
	ComponentID  uuid.UUID       `json:"component_id"`
	Available    decimal.Decimal `json:"available"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
}

// NewComponentBelowReorderEvent creates a below-reorder event
func NewComponentBelowReorderEvent(tenantID, componentID uuid.UUID, available, reorderPoint decimal.Decimal) *ComponentBelowReorderEvent {
	return &ComponentBelowReorderEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ledger.component_below_reorder", "Component", componentID, tenantID),
		ComponentID:     componentID,
		Available:       available,
		ReorderPoint:    reorderPoint,
	}
}

// LotDepletedEvent is published when a consumption empties a lot
type LotDepletedEvent struct {
	shared.BaseDomainEvent
	LotID       uuid.UUID `json:"lot_id"`
	ComponentID uuid.UUID `json:"component_id"`
	LotNumber   string    `json:"lot_number"`
}

// NewLotDepletedEvent creates a lot depleted event
func NewLotDepletedEvent(tenantID, lotID, componentID uuid.UUID, lotNumber string) *LotDepletedEvent {
	return &LotDepletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ledger.lot_depleted", "Lot", lotID, tenantID),
		LotID:           lotID,
		ComponentID:     componentID,
		LotNumber:       lotNumber,
	}
}
