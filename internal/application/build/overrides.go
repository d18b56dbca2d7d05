package build

import (
	"context"

	appledger "github.com/craftstock/backend/internal/application/ledger"
	"github.com/craftstock/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// validateOverrides checks manual lot overrides against the build's component
// requirements. Validation runs to completion and reports every violation at
// once instead of stopping at the first, so the operator can correct the
// whole override set in one pass.
//
// Overrides must cover each overridden component's requirement exactly; a
// component either consumes entirely by override or entirely by automatic
// selection, never a mix.
func validateOverrides(
	ctx context.Context,
	repos appledger.TransactionalRepositories,
	tenantID uuid.UUID,
	overrides []LotOverrideInput,
	requirements map[uuid.UUID]decimal.Decimal,
) (map[uuid.UUID][]ledger.LotAllocation, error) {
	verr := &ledger.OverrideValidationError{}

	lotIDs := make([]uuid.UUID, 0, len(overrides))
	seenLots := make(map[uuid.UUID]bool, len(overrides))
	for _, o := range overrides {
		if seenLots[o.LotID] {
			lotID := o.LotID
			verr.Add(o.ComponentID, &lotID, "DUPLICATE_LOT", "lot "+o.LotID.String()+" appears more than once")
			continue
		}
		seenLots[o.LotID] = true
		lotIDs = append(lotIDs, o.LotID)
	}

	lots, err := repos.Lots().FindByIDsForTenant(ctx, tenantID, lotIDs)
	if err != nil {
		return nil, err
	}
	lotsByID := make(map[uuid.UUID]*ledger.Lot, len(lots))
	for i := range lots {
		lotsByID[lots[i].ID] = &lots[i]
	}

	allocations := make(map[uuid.UUID][]ledger.LotAllocation)
	covered := make(map[uuid.UUID]decimal.Decimal)
	for _, o := range overrides {
		lotID := o.LotID
		if o.Quantity.LessThanOrEqual(decimal.Zero) {
			verr.Add(o.ComponentID, &lotID, "INVALID_QUANTITY", "override quantity for lot "+o.LotID.String()+" must be positive")
			continue
		}
		if _, ok := requirements[o.ComponentID]; !ok {
			verr.Add(o.ComponentID, &lotID, "COMPONENT_NOT_IN_BOM", "component "+o.ComponentID.String()+" is not required by the active recipe")
			continue
		}
		lot, ok := lotsByID[o.LotID]
		if !ok {
			// Missing and foreign-tenant lots are indistinguishable here
			verr.Add(o.ComponentID, &lotID, "LOT_NOT_FOUND", "lot "+o.LotID.String()+" not found")
			continue
		}
		if lot.ComponentID != o.ComponentID {
			verr.Add(o.ComponentID, &lotID, "LOT_COMPONENT_MISMATCH", "lot "+lot.LotNumber+" holds a different component")
			continue
		}
		if lot.RemainingQuantity.LessThan(o.Quantity) {
			verr.Add(o.ComponentID, &lotID, "INSUFFICIENT_LOT", "lot "+lot.LotNumber+" has "+lot.RemainingQuantity.String()+" remaining, override needs "+o.Quantity.String())
			continue
		}
		allocations[o.ComponentID] = append(allocations[o.ComponentID], ledger.LotAllocation{
			LotID:     &lot.ID,
			LotNumber: lot.LotNumber,
			Quantity:  o.Quantity,
		})
		covered[o.ComponentID] = covered[o.ComponentID].Add(o.Quantity)
	}

	for componentID, total := range covered {
		required := requirements[componentID]
		if !total.Equal(required) {
			verr.Add(componentID, nil, "COVERAGE_MISMATCH",
				"overrides for component "+componentID.String()+" cover "+total.String()+" of required "+required.String())
		}
	}

	if verr.HasViolations() {
		return nil, verr
	}
	return allocations, nil
}
