package bom

import (
	"context"
	"time"

	appledger "github.com/craftstock/backend/internal/application/ledger"
	"github.com/craftstock/backend/internal/application/validation"
	"github.com/craftstock/backend/internal/domain/catalog"
	"github.com/craftstock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BOMService manages BOM versions and computes per-unit build costs.
// Costs are decimal throughout; intermediate math is never rounded, only the
// quoted figure is rounded to catalog.CostPrecision at the response boundary.
type BOMService struct {
	scope         appledger.TransactionScope
	bomRepo       catalog.BOMVersionRepository
	componentRepo catalog.ComponentRepository
	skuRepo       catalog.SKURepository
}

// NewBOMService creates a new BOMService
func NewBOMService(
	scope appledger.TransactionScope,
	bomRepo catalog.BOMVersionRepository,
	componentRepo catalog.ComponentRepository,
	skuRepo catalog.SKURepository,
) *BOMService {
	return &BOMService{
		scope:         scope,
		bomRepo:       bomRepo,
		componentRepo: componentRepo,
		skuRepo:       skuRepo,
	}
}

// CreateVersion creates a BOM version for a SKU. With Activate set the new
// version replaces the currently active one in the same atomic unit, so
// there is never a moment with two active versions.
func (s *BOMService) CreateVersion(ctx context.Context, tenantID uuid.UUID, req CreateVersionRequest) (*VersionResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	var response VersionResponse
	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		if _, err := repos.SKUs().FindByIDForTenant(ctx, tenantID, req.SKUID); err != nil {
			return err
		}
		if err := s.verifyComponents(ctx, repos.Components(), tenantID, req.Lines); err != nil {
			return err
		}

		version, err := catalog.NewBOMVersion(tenantID, req.SKUID, req.Name, req.EffectiveStartDate)
		if err != nil {
			return err
		}
		for _, line := range req.Lines {
			if err := version.AddLine(line.ComponentID, line.QuantityPerUnit, line.Notes); err != nil {
				return err
			}
		}
		if req.Activate {
			if _, err := repos.BOMVersions().DeactivateActiveForSKU(ctx, tenantID, req.SKUID, version.EffectiveStartDate); err != nil {
				return err
			}
			version.Activate(version.EffectiveStartDate)
		}
		if err := repos.BOMVersions().SaveWithLines(ctx, version); err != nil {
			return err
		}
		response = ToVersionResponse(version)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

func (s *BOMService) verifyComponents(ctx context.Context, repo catalog.ComponentRepository, tenantID uuid.UUID, lines []BOMLineInput) error {
	if len(lines) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(lines))
	seen := make(map[uuid.UUID]bool, len(lines))
	for _, line := range lines {
		if seen[line.ComponentID] {
			return shared.NewValidationError(shared.FieldViolation{Field: "lines", Message: "duplicate component " + line.ComponentID.String()})
		}
		seen[line.ComponentID] = true
		ids = append(ids, line.ComponentID)
	}
	components, err := repo.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return err
	}
	if len(components) != len(ids) {
		return shared.ErrNotFound
	}
	return nil
}

// ActivateVersion makes a version the active one for its SKU, retiring the
// previously active version with the new version's effective start date.
func (s *BOMService) ActivateVersion(ctx context.Context, tenantID, versionID uuid.UUID, effectiveStart time.Time) (*VersionResponse, error) {
	var response VersionResponse
	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		version, err := repos.BOMVersions().FindByIDForTenant(ctx, tenantID, versionID)
		if err != nil {
			return err
		}
		if version.IsActive {
			response = ToVersionResponse(version)
			return nil
		}
		if effectiveStart.IsZero() {
			effectiveStart = time.Now()
		}
		if _, err := repos.BOMVersions().DeactivateActiveForSKU(ctx, tenantID, version.SKUID, effectiveStart); err != nil {
			return err
		}
		version.Activate(effectiveStart)
		if err := repos.BOMVersions().Save(ctx, version); err != nil {
			return err
		}
		response = ToVersionResponse(version)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// UpdateVersion edits an inactive version's name, notes, or recipe. Active
// versions are immutable so historical build costs stay reproducible; clone
// and re-activate to change a live recipe.
func (s *BOMService) UpdateVersion(ctx context.Context, tenantID, versionID uuid.UUID, req UpdateVersionRequest) (*VersionResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	var response VersionResponse
	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		version, err := repos.BOMVersions().FindByIDForTenant(ctx, tenantID, versionID)
		if err != nil {
			return err
		}
		if version.IsActive {
			return shared.NewDomainError("BOM_VERSION_ACTIVE", "Active BOM versions cannot be edited; clone the version instead")
		}

		if req.Name != "" {
			version.Name = req.Name
		}
		if req.DefectNotes != nil {
			version.DefectNotes = *req.DefectNotes
		}
		if req.Lines != nil {
			if err := s.verifyComponents(ctx, repos.Components(), tenantID, req.Lines); err != nil {
				return err
			}
			lines := make([]catalog.BOMLine, 0, len(req.Lines))
			for _, input := range req.Lines {
				lines = append(lines, catalog.BOMLine{
					ComponentID:     input.ComponentID,
					QuantityPerUnit: input.QuantityPerUnit,
					Notes:           input.Notes,
				})
			}
			if err := version.ReplaceLines(lines); err != nil {
				return err
			}
			if err := repos.BOMVersions().ReplaceLines(ctx, version); err != nil {
				return err
			}
		} else {
			if err := repos.BOMVersions().Save(ctx, version); err != nil {
				return err
			}
		}
		response = ToVersionResponse(version)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// CloneVersion copies an existing version's lines into a new inactive draft
func (s *BOMService) CloneVersion(ctx context.Context, tenantID uuid.UUID, req CloneVersionRequest) (*VersionResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	source, err := s.bomRepo.FindByIDForTenant(ctx, tenantID, req.SourceVersionID)
	if err != nil {
		return nil, err
	}
	start := req.EffectiveStartDate
	if start.IsZero() {
		start = time.Now()
	}
	name := req.Name
	if name == "" {
		name = source.Name + " (copy)"
	}
	clone := source.Clone(name, start)
	if err := s.bomRepo.SaveWithLines(ctx, clone); err != nil {
		return nil, err
	}
	response := ToVersionResponse(clone)
	return &response, nil
}

// GetVersion retrieves a BOM version with its lines
func (s *BOMService) GetVersion(ctx context.Context, tenantID, versionID uuid.UUID) (*VersionResponse, error) {
	version, err := s.bomRepo.FindByIDForTenant(ctx, tenantID, versionID)
	if err != nil {
		return nil, err
	}
	response := ToVersionResponse(version)
	return &response, nil
}

// ListVersionsForSKU lists every BOM version of a SKU
func (s *BOMService) ListVersionsForSKU(ctx context.Context, tenantID, skuID uuid.UUID, filter shared.Filter) ([]VersionResponse, error) {
	if _, err := s.skuRepo.FindByIDForTenant(ctx, tenantID, skuID); err != nil {
		return nil, err
	}
	versions, err := s.bomRepo.FindBySKU(ctx, tenantID, skuID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]VersionResponse, 0, len(versions))
	for i := range versions {
		items = append(items, ToVersionResponse(&versions[i]))
	}
	return items, nil
}

// CalculateUnitCost computes the cost of one finished unit for a BOM version
// as the sum of quantity-weighted current component costs. Full precision is
// kept through the sum; only RoundedUnitCost is rounded.
func (s *BOMService) CalculateUnitCost(ctx context.Context, tenantID, versionID uuid.UUID) (*UnitCostResponse, error) {
	version, err := s.bomRepo.FindByIDForTenant(ctx, tenantID, versionID)
	if err != nil {
		return nil, err
	}
	return s.costForVersion(ctx, tenantID, version)
}

// CalculateUnitCostForSKU computes the unit cost against the SKU's active
// BOM version
func (s *BOMService) CalculateUnitCostForSKU(ctx context.Context, tenantID, skuID uuid.UUID) (*UnitCostResponse, error) {
	version, err := s.bomRepo.FindActiveBySKU(ctx, tenantID, skuID)
	if err != nil {
		return nil, err
	}
	return s.costForVersion(ctx, tenantID, version)
}

func (s *BOMService) costForVersion(ctx context.Context, tenantID uuid.UUID, version *catalog.BOMVersion) (*UnitCostResponse, error) {
	componentIDs := make([]uuid.UUID, 0, len(version.Lines))
	for _, line := range version.Lines {
		componentIDs = append(componentIDs, line.ComponentID)
	}

	componentsByID := make(map[uuid.UUID]*catalog.Component, len(componentIDs))
	if len(componentIDs) > 0 {
		components, err := s.componentRepo.FindByIDs(ctx, tenantID, componentIDs)
		if err != nil {
			return nil, err
		}
		for i := range components {
			componentsByID[components[i].ID] = &components[i]
		}
	}

	total := decimal.Zero
	lines := make([]CostLineResponse, 0, len(version.Lines))
	for _, line := range version.Lines {
		component, ok := componentsByID[line.ComponentID]
		if !ok {
			// Referenced component has been removed; it contributes zero
			lines = append(lines, CostLineResponse{
				ComponentID:     line.ComponentID,
				QuantityPerUnit: line.QuantityPerUnit,
				CostPerUnit:     decimal.Zero,
				ExtendedCost:    decimal.Zero,
			})
			continue
		}
		extended := line.QuantityPerUnit.Mul(component.CostPerUnit)
		total = total.Add(extended)
		lines = append(lines, CostLineResponse{
			ComponentID:     component.ID,
			ComponentName:   component.Name,
			QuantityPerUnit: line.QuantityPerUnit,
			CostPerUnit:     component.CostPerUnit,
			ExtendedCost:    extended,
		})
	}

	return &UnitCostResponse{
		BOMVersionID:    version.ID,
		SKUID:           version.SKUID,
		UnitCost:        total,
		RoundedUnitCost: total.Round(catalog.CostPrecision),
		Lines:           lines,
	}, nil
}

// CalculateUnitCosts computes unit costs for multiple BOM versions, fetching
// components once. Every requested id is present in the result: a version
// with zero lines reports a zero cost rather than being absent. Versions
// belonging to another tenant stay at zero, indistinguishable from empty.
func (s *BOMService) CalculateUnitCosts(ctx context.Context, tenantID uuid.UUID, versionIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	result := make(map[uuid.UUID]decimal.Decimal, len(versionIDs))
	for _, id := range versionIDs {
		result[id] = decimal.Zero
	}
	if len(versionIDs) == 0 {
		return result, nil
	}

	versions, err := s.bomRepo.FindByIDsForTenant(ctx, tenantID, versionIDs)
	if err != nil {
		return nil, err
	}

	costs, err := s.componentCosts(ctx, tenantID, versions)
	if err != nil {
		return nil, err
	}
	for i := range versions {
		result[versions[i].ID] = versions[i].UnitCost(costs)
	}
	return result, nil
}

// CalculateUnitCostsForSKUs computes unit costs against the active BOM
// versions of multiple SKUs. SKUs without an active version are absent from
// the result.
func (s *BOMService) CalculateUnitCostsForSKUs(ctx context.Context, tenantID uuid.UUID, skuIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	if len(skuIDs) == 0 {
		return map[uuid.UUID]decimal.Decimal{}, nil
	}
	versions, err := s.bomRepo.FindActiveBySKUs(ctx, tenantID, skuIDs)
	if err != nil {
		return nil, err
	}

	costs, err := s.componentCosts(ctx, tenantID, versions)
	if err != nil {
		return nil, err
	}
	result := make(map[uuid.UUID]decimal.Decimal, len(versions))
	for i := range versions {
		result[versions[i].SKUID] = versions[i].UnitCost(costs)
	}
	return result, nil
}

// componentCosts fetches the current cost of every component referenced by
// the given versions in a single query
func (s *BOMService) componentCosts(ctx context.Context, tenantID uuid.UUID, versions []catalog.BOMVersion) (map[uuid.UUID]decimal.Decimal, error) {
	componentSet := make(map[uuid.UUID]bool)
	for i := range versions {
		for _, line := range versions[i].Lines {
			componentSet[line.ComponentID] = true
		}
	}
	costs := make(map[uuid.UUID]decimal.Decimal, len(componentSet))
	if len(componentSet) == 0 {
		return costs, nil
	}

	componentIDs := make([]uuid.UUID, 0, len(componentSet))
	for id := range componentSet {
		componentIDs = append(componentIDs, id)
	}
	components, err := s.componentRepo.FindByIDs(ctx, tenantID, componentIDs)
	if err != nil {
		return nil, err
	}
	for i := range components {
		costs[components[i].ID] = components[i].CostPerUnit
	}
	return costs, nil
}
