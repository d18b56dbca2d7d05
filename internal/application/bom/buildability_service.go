package bom

import (
	"context"
	"errors"

	"github.com/craftstock/backend/internal/domain/catalog"
	"github.com/craftstock/backend/internal/domain/ledger"
	"github.com/craftstock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BuildabilityService answers how many finished units current component
// inventory supports. It is read-only; it never changes stock.
type BuildabilityService struct {
	bomRepo       catalog.BOMVersionRepository
	componentRepo catalog.ComponentRepository
	balanceRepo   ledger.ComponentBalanceRepository
}

// NewBuildabilityService creates a new BuildabilityService
func NewBuildabilityService(
	bomRepo catalog.BOMVersionRepository,
	componentRepo catalog.ComponentRepository,
	balanceRepo ledger.ComponentBalanceRepository,
) *BuildabilityService {
	return &BuildabilityService{
		bomRepo:       bomRepo,
		componentRepo: componentRepo,
		balanceRepo:   balanceRepo,
	}
}

// MaxBuildableUnits returns the number of whole units buildable for a SKU:
// the floor of the minimum of available/required over every BOM line with a
// positive quantity. The result is nil when the SKU has no active BOM or the
// BOM has no constraining lines, meaning buildability is undefined rather
// than zero. Zero-quantity lines impose no constraint.
func (s *BuildabilityService) MaxBuildableUnits(ctx context.Context, tenantID, skuID uuid.UUID, locationID *uuid.UUID) (*BuildabilityResponse, error) {
	version, err := s.bomRepo.FindActiveBySKU(ctx, tenantID, skuID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return &BuildabilityResponse{SKUID: skuID, MaxUnits: nil}, nil
		}
		return nil, err
	}

	maxUnits, _, err := s.maxForVersion(ctx, tenantID, version, locationID)
	if err != nil {
		return nil, err
	}
	versionID := version.ID
	return &BuildabilityResponse{SKUID: skuID, BOMVersionID: &versionID, MaxUnits: maxUnits}, nil
}

// Constraint reports the component limiting a SKU's buildability, or nil
// when buildability is undefined.
func (s *BuildabilityService) Constraint(ctx context.Context, tenantID, skuID uuid.UUID, locationID *uuid.UUID) (*ConstraintResponse, error) {
	version, err := s.bomRepo.FindActiveBySKU(ctx, tenantID, skuID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	_, constraint, err := s.maxForVersion(ctx, tenantID, version, locationID)
	if err != nil {
		return nil, err
	}
	return constraint, nil
}

// MaxBuildableForSKUs computes buildability for multiple SKUs, fetching
// active versions and balances in bulk. SKUs without an active BOM report a
// nil MaxUnits.
func (s *BuildabilityService) MaxBuildableForSKUs(ctx context.Context, tenantID uuid.UUID, skuIDs []uuid.UUID, locationID *uuid.UUID) ([]BuildabilityResponse, error) {
	if len(skuIDs) == 0 {
		return []BuildabilityResponse{}, nil
	}
	versions, err := s.bomRepo.FindActiveBySKUs(ctx, tenantID, skuIDs)
	if err != nil {
		return nil, err
	}
	versionBySKU := make(map[uuid.UUID]*catalog.BOMVersion, len(versions))
	componentSet := make(map[uuid.UUID]bool)
	for i := range versions {
		versionBySKU[versions[i].SKUID] = &versions[i]
		for _, line := range versions[i].Lines {
			if line.QuantityPerUnit.GreaterThan(decimal.Zero) {
				componentSet[line.ComponentID] = true
			}
		}
	}

	componentIDs := make([]uuid.UUID, 0, len(componentSet))
	for id := range componentSet {
		componentIDs = append(componentIDs, id)
	}
	availability := map[uuid.UUID]decimal.Decimal{}
	if len(componentIDs) > 0 {
		availability, err = s.balanceRepo.AvailableQuantities(ctx, tenantID, componentIDs, locationID)
		if err != nil {
			return nil, err
		}
	}

	results := make([]BuildabilityResponse, 0, len(skuIDs))
	for _, skuID := range skuIDs {
		version, ok := versionBySKU[skuID]
		if !ok {
			results = append(results, BuildabilityResponse{SKUID: skuID, MaxUnits: nil})
			continue
		}
		maxUnits := maxUnitsFromAvailability(version, availability)
		versionID := version.ID
		results = append(results, BuildabilityResponse{SKUID: skuID, BOMVersionID: &versionID, MaxUnits: maxUnits})
	}
	return results, nil
}

func (s *BuildabilityService) maxForVersion(ctx context.Context, tenantID uuid.UUID, version *catalog.BOMVersion, locationID *uuid.UUID) (*int64, *ConstraintResponse, error) {
	componentIDs := make([]uuid.UUID, 0, len(version.Lines))
	for _, line := range version.Lines {
		if line.QuantityPerUnit.GreaterThan(decimal.Zero) {
			componentIDs = append(componentIDs, line.ComponentID)
		}
	}
	if len(componentIDs) == 0 {
		return nil, nil, nil
	}

	availability, err := s.balanceRepo.AvailableQuantities(ctx, tenantID, componentIDs, locationID)
	if err != nil {
		return nil, nil, err
	}

	var constraint *ConstraintResponse
	var minUnits *int64
	for _, line := range version.Lines {
		if !line.QuantityPerUnit.GreaterThan(decimal.Zero) {
			continue
		}
		available := availability[line.ComponentID]
		units := available.Div(line.QuantityPerUnit).Floor().IntPart()
		if units < 0 {
			units = 0
		}
		if minUnits == nil || units < *minUnits {
			u := units
			minUnits = &u
			constraint = &ConstraintResponse{
				ComponentID:     line.ComponentID,
				Available:       available,
				QuantityPerUnit: line.QuantityPerUnit,
				UnitsSupported:  units,
			}
		}
	}

	if constraint != nil {
		if component, err := s.componentRepo.FindByIDForTenant(ctx, tenantID, constraint.ComponentID); err == nil {
			constraint.ComponentName = component.Name
		}
	}
	return minUnits, constraint, nil
}

func maxUnitsFromAvailability(version *catalog.BOMVersion, availability map[uuid.UUID]decimal.Decimal) *int64 {
	var minUnits *int64
	for _, line := range version.Lines {
		if !line.QuantityPerUnit.GreaterThan(decimal.Zero) {
			continue
		}
		units := availability[line.ComponentID].Div(line.QuantityPerUnit).Floor().IntPart()
		if units < 0 {
			units = 0
		}
		if minUnits == nil || units < *minUnits {
			u := units
			minUnits = &u
		}
	}
	return minUnits
}
