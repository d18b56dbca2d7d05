package ledger

import (
	"time"

	"github.com/craftstock/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PostReceiptRequest records inbound component stock from a supplier.
// Quantity must be positive. Providing a lot number creates a tracked lot;
// leaving it empty keeps the stock pooled.
type PostReceiptRequest struct {
	ComponentID uuid.UUID       `json:"component_id" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	LocationID  *uuid.UUID      `json:"location_id,omitempty"`
	LotNumber   string          `json:"lot_number,omitempty" validate:"max=128"`
	ExpiryDate  *time.Time      `json:"expiry_date,omitempty"`
	Supplier    string          `json:"supplier,omitempty" validate:"max=255"`
	VendorName  string          `json:"vendor_name,omitempty" validate:"max=255"`
	EntryDate   time.Time       `json:"entry_date,omitempty"`
	Notes       string          `json:"notes,omitempty" validate:"max=1024"`
	CreatedBy   *uuid.UUID      `json:"created_by,omitempty"`
}

// PostInitialStockRequest records opening stock for a component
type PostInitialStockRequest struct {
	ComponentID uuid.UUID       `json:"component_id" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	LocationID  *uuid.UUID      `json:"location_id,omitempty"`
	LotNumber   string          `json:"lot_number,omitempty" validate:"max=128"`
	ExpiryDate  *time.Time      `json:"expiry_date,omitempty"`
	EntryDate   time.Time       `json:"entry_date,omitempty"`
	Notes       string          `json:"notes,omitempty" validate:"max=1024"`
	CreatedBy   *uuid.UUID      `json:"created_by,omitempty"`
}

// PostAdjustmentRequest records a signed manual correction. QuantityChange
// must be non-zero; negative adjustments fail when they would drive the
// balance negative.
type PostAdjustmentRequest struct {
	ComponentID    uuid.UUID       `json:"component_id" validate:"required"`
	QuantityChange decimal.Decimal `json:"quantity_change"`
	LocationID     *uuid.UUID      `json:"location_id,omitempty"`
	LotID          *uuid.UUID      `json:"lot_id,omitempty"`
	Reason         string          `json:"reason" validate:"required,max=512"`
	EntryDate      time.Time       `json:"entry_date,omitempty"`
	CreatedBy      *uuid.UUID      `json:"created_by,omitempty"`
}

// PostTransferRequest moves component stock between two locations
type PostTransferRequest struct {
	ComponentID      uuid.UUID       `json:"component_id" validate:"required"`
	Quantity         decimal.Decimal `json:"quantity"`
	SourceLocationID uuid.UUID       `json:"source_location_id" validate:"required"`
	DestLocationID   uuid.UUID       `json:"dest_location_id" validate:"required"`
	EntryDate        time.Time       `json:"entry_date,omitempty"`
	Notes            string          `json:"notes,omitempty" validate:"max=1024"`
	CreatedBy        *uuid.UUID      `json:"created_by,omitempty"`
}

// PostOutboundRequest records component stock leaving for shipment.
// Lots are consumed first-expired-first-out. AllowInsufficient ships a
// partial quantity when the lots cannot cover the full request.
type PostOutboundRequest struct {
	ComponentID       uuid.UUID       `json:"component_id" validate:"required"`
	Quantity          decimal.Decimal `json:"quantity"`
	LocationID        *uuid.UUID      `json:"location_id,omitempty"`
	AllowInsufficient bool            `json:"allow_insufficient,omitempty"`
	EntryDate         time.Time       `json:"entry_date,omitempty"`
	Notes             string          `json:"notes,omitempty" validate:"max=1024"`
	CreatedBy         *uuid.UUID      `json:"created_by,omitempty"`
}

// ReverseEntryRequest creates a compensating entry for a posted entry
type ReverseEntryRequest struct {
	EntryID   uuid.UUID  `json:"entry_id" validate:"required"`
	Reason    string     `json:"reason" validate:"required,max=512"`
	CreatedBy *uuid.UUID `json:"created_by,omitempty"`
}

// EntryLineResponse is one component movement in an entry response
type EntryLineResponse struct {
	ID             uuid.UUID       `json:"id"`
	ComponentID    uuid.UUID       `json:"component_id"`
	LotID          *uuid.UUID      `json:"lot_id,omitempty"`
	LocationID     *uuid.UUID      `json:"location_id,omitempty"`
	QuantityChange decimal.Decimal `json:"quantity_change"`
	CostPerUnit    decimal.Decimal `json:"cost_per_unit"`
}

// FinishedLineResponse is one finished-good movement in an entry response
type FinishedLineResponse struct {
	ID             uuid.UUID       `json:"id"`
	SKUID          uuid.UUID       `json:"sku_id"`
	LocationID     uuid.UUID       `json:"location_id"`
	QuantityChange decimal.Decimal `json:"quantity_change"`
}

// EntryResponse is the full representation of a posted ledger entry
type EntryResponse struct {
	ID            uuid.UUID              `json:"id"`
	Type          string                 `json:"type"`
	EntryDate     time.Time              `json:"entry_date"`
	SKUID         *uuid.UUID             `json:"sku_id,omitempty"`
	BOMVersionID  *uuid.UUID             `json:"bom_version_id,omitempty"`
	LocationID    *uuid.UUID             `json:"location_id,omitempty"`
	VendorName    string                 `json:"vendor_name,omitempty"`
	UnitsBuilt    int64                  `json:"units_built,omitempty"`
	UnitBOMCost   decimal.Decimal        `json:"unit_bom_cost"`
	TotalBOMCost  decimal.Decimal        `json:"total_bom_cost"`
	DefectCount   int                    `json:"defect_count,omitempty"`
	DefectNotes   string                 `json:"defect_notes,omitempty"`
	AffectedUnits int                    `json:"affected_units,omitempty"`
	ReversalOfID  *uuid.UUID             `json:"reversal_of_id,omitempty"`
	Notes         string                 `json:"notes,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	Lines         []EntryLineResponse    `json:"lines"`
	FinishedLines []FinishedLineResponse `json:"finished_lines,omitempty"`
}

// ToEntryResponse maps a domain entry to its response representation
func ToEntryResponse(entry *ledger.LedgerEntry) EntryResponse {
	lines := make([]EntryLineResponse, 0, len(entry.Lines))
	for _, line := range entry.Lines {
		lines = append(lines, EntryLineResponse{
			ID:             line.ID,
			ComponentID:    line.ComponentID,
			LotID:          line.LotID,
			LocationID:     line.LocationID,
			QuantityChange: line.QuantityChange,
			CostPerUnit:    line.CostPerUnit,
		})
	}
	finished := make([]FinishedLineResponse, 0, len(entry.FinishedLines))
	for _, line := range entry.FinishedLines {
		finished = append(finished, FinishedLineResponse{
			ID:             line.ID,
			SKUID:          line.SKUID,
			LocationID:     line.LocationID,
			QuantityChange: line.QuantityChange,
		})
	}
	return EntryResponse{
		ID:            entry.ID,
		Type:          entry.Type.String(),
		EntryDate:     entry.EntryDate,
		SKUID:         entry.SKUID,
		BOMVersionID:  entry.BOMVersionID,
		LocationID:    entry.LocationID,
		VendorName:    entry.VendorName,
		UnitsBuilt:    entry.UnitsBuilt,
		UnitBOMCost:   entry.UnitBOMCost,
		TotalBOMCost:  entry.TotalBOMCost,
		DefectCount:   entry.DefectCount,
		DefectNotes:   entry.DefectNotes,
		AffectedUnits: entry.AffectedUnits,
		ReversalOfID:  entry.ReversalOfID,
		Notes:         entry.Notes,
		CreatedAt:     entry.CreatedAt,
		Lines:         lines,
		FinishedLines: finished,
	}
}

// LotResponse is the representation of a stock lot
type LotResponse struct {
	ID                uuid.UUID       `json:"id"`
	ComponentID       uuid.UUID       `json:"component_id"`
	LotNumber         string          `json:"lot_number"`
	ExpiryDate        *time.Time      `json:"expiry_date,omitempty"`
	ReceivedQuantity  decimal.Decimal `json:"received_quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	Supplier          string          `json:"supplier,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// ToLotResponse maps a domain lot to its response representation
func ToLotResponse(lot *ledger.Lot) LotResponse {
	return LotResponse{
		ID:                lot.ID,
		ComponentID:       lot.ComponentID,
		LotNumber:         lot.LotNumber,
		ExpiryDate:        lot.ExpiryDate,
		ReceivedQuantity:  lot.ReceivedQuantity,
		RemainingQuantity: lot.RemainingQuantity,
		Supplier:          lot.Supplier,
		CreatedAt:         lot.CreatedAt,
	}
}

// ComponentAvailabilityResponse reports on-hand quantity for a component
type ComponentAvailabilityResponse struct {
	ComponentID uuid.UUID       `json:"component_id"`
	LocationID  *uuid.UUID      `json:"location_id,omitempty"`
	Available   decimal.Decimal `json:"available"`
}

// ReorderAlertResponse names a component whose availability fell below its
// reorder point
type ReorderAlertResponse struct {
	ComponentID  uuid.UUID       `json:"component_id"`
	SKUCode      string          `json:"sku_code"`
	Name         string          `json:"name"`
	Available    decimal.Decimal `json:"available"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
	LeadTimeDays int             `json:"lead_time_days"`
}
