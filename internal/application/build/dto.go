package build

import (
	"time"

	"github.com/craftstock/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LotOverrideInput pins part of a component's consumption to a specific lot,
// bypassing automatic first-expired-first-out selection for that component.
type LotOverrideInput struct {
	ComponentID uuid.UUID       `json:"component_id" validate:"required"`
	LotID       uuid.UUID       `json:"lot_id" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// PostBuildRequest records a production run: consume components per the
// given (or active) BOM version, produce finished units. OutputQuantity may
// be set lower than Units when defects reduced the good output;
// OutputToFinishedGoods unset means output is produced.
type PostBuildRequest struct {
	SKUID                 uuid.UUID          `json:"sku_id" validate:"required"`
	BOMVersionID          *uuid.UUID         `json:"bom_version_id,omitempty"`
	Units                 int64              `json:"units" validate:"required,gt=0"`
	OutputToFinishedGoods *bool              `json:"output_to_finished_goods,omitempty"`
	OutputQuantity        *int64             `json:"output_quantity,omitempty" validate:"omitempty,gte=0"`
	OutputLocationID      *uuid.UUID         `json:"output_location_id,omitempty"`
	ConsumeFrom           *uuid.UUID         `json:"consume_from,omitempty"`
	EntryDate             time.Time          `json:"entry_date,omitempty"`
	DefectCount           int                `json:"defect_count,omitempty" validate:"gte=0"`
	DefectNotes           string             `json:"defect_notes,omitempty" validate:"max=1024"`
	AffectedUnits         int                `json:"affected_units,omitempty" validate:"gte=0"`
	LotOverrides          []LotOverrideInput `json:"lot_overrides,omitempty" validate:"dive"`
	Notes                 string             `json:"notes,omitempty" validate:"max=1024"`
	CreatedBy             *uuid.UUID         `json:"created_by,omitempty"`
}

// ConsumptionResponse is one component consumption in a build response
type ConsumptionResponse struct {
	ComponentID uuid.UUID       `json:"component_id"`
	LotID       *uuid.UUID      `json:"lot_id,omitempty"`
	LotNumber   string          `json:"lot_number,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	CostPerUnit decimal.Decimal `json:"cost_per_unit"`
}

// BuildResponse reports a completed production run. OutputLocationID is nil
// when finished-goods output was disabled for the build.
type BuildResponse struct {
	EntryID          uuid.UUID             `json:"entry_id"`
	SKUID            uuid.UUID             `json:"sku_id"`
	BOMVersionID     uuid.UUID             `json:"bom_version_id"`
	Units            int64                 `json:"units"`
	OutputQuantity   int64                 `json:"output_quantity"`
	UnitBOMCost      decimal.Decimal       `json:"unit_bom_cost"`
	TotalBOMCost     decimal.Decimal       `json:"total_bom_cost"`
	OutputLocationID *uuid.UUID            `json:"output_location_id,omitempty"`
	DefectCount      int                   `json:"defect_count,omitempty"`
	Consumptions     []ConsumptionResponse `json:"consumptions"`
	EntryDate        time.Time             `json:"entry_date"`
}

// InsufficiencyCheckResponse reports whether a planned build is feasible.
// Shortages is empty when it is.
type InsufficiencyCheckResponse struct {
	SKUID     uuid.UUID               `json:"sku_id"`
	Units     int64                   `json:"units"`
	Feasible  bool                    `json:"feasible"`
	Shortages []ledger.ShortageReport `json:"shortages"`
}

// DefectAlert carries defect details to the notification port
type DefectAlert struct {
	TenantID      uuid.UUID `json:"tenant_id"`
	EntryID       uuid.UUID `json:"entry_id"`
	SKUID         uuid.UUID `json:"sku_id"`
	DefectCount   int       `json:"defect_count"`
	AffectedUnits int       `json:"affected_units"`
	Notes         string    `json:"notes"`
}
