package bom

import (
	"time"

	"github.com/craftstock/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BOMLineInput is one component requirement in a create or update request
type BOMLineInput struct {
	ComponentID     uuid.UUID       `json:"component_id" validate:"required"`
	QuantityPerUnit decimal.Decimal `json:"quantity_per_unit"`
	Notes           string          `json:"notes,omitempty" validate:"max=512"`
}

// CreateVersionRequest creates a new BOM version for a SKU
type CreateVersionRequest struct {
	SKUID              uuid.UUID      `json:"sku_id" validate:"required"`
	Name               string         `json:"name" validate:"required,max=128"`
	EffectiveStartDate time.Time      `json:"effective_start_date,omitempty"`
	Lines              []BOMLineInput `json:"lines" validate:"dive"`
	Activate           bool           `json:"activate,omitempty"`
}

// UpdateVersionRequest replaces the editable fields of an inactive version.
// Lines, when non-nil, replace the version's recipe wholesale.
type UpdateVersionRequest struct {
	Name        string         `json:"name,omitempty" validate:"max=128"`
	DefectNotes *string        `json:"defect_notes,omitempty"`
	Lines       []BOMLineInput `json:"lines,omitempty" validate:"dive"`
}

// CloneVersionRequest copies an existing version's lines into a new draft.
// An empty Name defaults to the source's name with a " (copy)" suffix.
type CloneVersionRequest struct {
	SourceVersionID    uuid.UUID `json:"source_version_id" validate:"required"`
	Name               string    `json:"name,omitempty" validate:"max=128"`
	EffectiveStartDate time.Time `json:"effective_start_date,omitempty"`
}

// BOMLineResponse is one component requirement in a version response
type BOMLineResponse struct {
	ID              uuid.UUID       `json:"id"`
	ComponentID     uuid.UUID       `json:"component_id"`
	QuantityPerUnit decimal.Decimal `json:"quantity_per_unit"`
	Notes           string          `json:"notes,omitempty"`
	Position        int             `json:"position"`
}

// VersionResponse is the full representation of a BOM version
type VersionResponse struct {
	ID                 uuid.UUID         `json:"id"`
	SKUID              uuid.UUID         `json:"sku_id"`
	Name               string            `json:"name"`
	EffectiveStartDate time.Time         `json:"effective_start_date"`
	EffectiveEndDate   *time.Time        `json:"effective_end_date,omitempty"`
	IsActive           bool              `json:"is_active"`
	Lines              []BOMLineResponse `json:"lines"`
	CreatedAt          time.Time         `json:"created_at"`
}

// ToVersionResponse maps a domain BOM version to its response representation
func ToVersionResponse(version *catalog.BOMVersion) VersionResponse {
	lines := make([]BOMLineResponse, 0, len(version.Lines))
	for _, line := range version.Lines {
		lines = append(lines, BOMLineResponse{
			ID:              line.ID,
			ComponentID:     line.ComponentID,
			QuantityPerUnit: line.QuantityPerUnit,
			Notes:           line.Notes,
			Position:        line.Position,
		})
	}
	return VersionResponse{
		ID:                 version.ID,
		SKUID:              version.SKUID,
		Name:               version.Name,
		EffectiveStartDate: version.EffectiveStartDate,
		EffectiveEndDate:   version.EffectiveEndDate,
		IsActive:           version.IsActive,
		Lines:              lines,
		CreatedAt:          version.CreatedAt,
	}
}

// CostLineResponse is the cost contribution of one BOM line
type CostLineResponse struct {
	ComponentID     uuid.UUID       `json:"component_id"`
	ComponentName   string          `json:"component_name"`
	QuantityPerUnit decimal.Decimal `json:"quantity_per_unit"`
	CostPerUnit     decimal.Decimal `json:"cost_per_unit"`
	ExtendedCost    decimal.Decimal `json:"extended_cost"`
}

// UnitCostResponse is the computed cost of one finished unit for a version.
// UnitCost carries full precision; RoundedUnitCost is quoted to four
// fractional digits for display.
type UnitCostResponse struct {
	BOMVersionID    uuid.UUID          `json:"bom_version_id"`
	SKUID           uuid.UUID          `json:"sku_id"`
	UnitCost        decimal.Decimal    `json:"unit_cost"`
	RoundedUnitCost decimal.Decimal    `json:"rounded_unit_cost"`
	Lines           []CostLineResponse `json:"lines"`
}

// BuildabilityResponse reports how many units of a SKU can be built from
// current inventory. MaxUnits is nil when the SKU has no active BOM or the
// active BOM imposes no constraint.
type BuildabilityResponse struct {
	SKUID        uuid.UUID  `json:"sku_id"`
	BOMVersionID *uuid.UUID `json:"bom_version_id,omitempty"`
	MaxUnits     *int64     `json:"max_units"`
}

// ConstraintResponse names the component limiting a SKU's buildability
type ConstraintResponse struct {
	ComponentID     uuid.UUID       `json:"component_id"`
	ComponentName   string          `json:"component_name"`
	Available       decimal.Decimal `json:"available"`
	QuantityPerUnit decimal.Decimal `json:"quantity_per_unit"`
	UnitsSupported  int64           `json:"units_supported"`
}
