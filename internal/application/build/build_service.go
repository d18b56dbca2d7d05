package build

import (
	"context"
	"errors"

	appledger "github.com/craftstock/backend/internal/application/ledger"
	"github.com/craftstock/backend/internal/application/validation"
	"github.com/craftstock/backend/internal/domain/catalog"
	"github.com/craftstock/backend/internal/domain/ledger"
	"github.com/craftstock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("craftstock.build")

// BuildService orchestrates production runs. A build consumes components per
// the SKU's active recipe, produces finished units, and posts a single ledger
// entry covering both sides. All writes happen in one transaction scope:
// a failure at any step leaves no partial state behind.
type BuildService struct {
	scope          appledger.TransactionScope
	bomRepo        catalog.BOMVersionRepository
	componentRepo  catalog.ComponentRepository
	balanceRepo    ledger.ComponentBalanceRepository
	eventPublisher shared.EventPublisher
	defectAlerts   DefectAlertService
	logger         *zap.Logger
}

// NewBuildService creates a new BuildService
func NewBuildService(
	scope appledger.TransactionScope,
	bomRepo catalog.BOMVersionRepository,
	componentRepo catalog.ComponentRepository,
	balanceRepo ledger.ComponentBalanceRepository,
	logger *zap.Logger,
) *BuildService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BuildService{
		scope:         scope,
		bomRepo:       bomRepo,
		componentRepo: componentRepo,
		balanceRepo:   balanceRepo,
		logger:        logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *BuildService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetDefectAlertService sets the defect notification port
func (s *BuildService) SetDefectAlertService(alerts DefectAlertService) {
	s.defectAlerts = alerts
}

// PostBuild records a production run. Components with manual lot overrides
// consume exactly the overridden lots; all others consume
// first-expired-first-out. Overrides are validated up front with every
// violation collected, and the automatic selector is never consulted for an
// overridden component.
func (s *BuildService) PostBuild(ctx context.Context, tenantID uuid.UUID, req PostBuildRequest) (*BuildResponse, error) {
	ctx, span := tracer.Start(ctx, "BuildService.PostBuild",
		trace.WithAttributes(
			attribute.String("tenant_id", tenantID.String()),
			attribute.String("sku_id", req.SKUID.String()),
			attribute.Int64("units", req.Units),
		))
	defer span.End()

	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	outputEnabled := req.OutputToFinishedGoods == nil || *req.OutputToFinishedGoods
	outputUnits := req.Units
	if req.OutputQuantity != nil {
		if *req.OutputQuantity > req.Units {
			return nil, shared.NewValidationError(shared.FieldViolation{Field: "output_quantity", Message: "cannot exceed units built"})
		}
		outputUnits = *req.OutputQuantity
	}
	if !outputEnabled {
		outputUnits = 0
	}

	var response BuildResponse
	var pending []shared.DomainEvent
	err := s.scope.Execute(ctx, func(repos appledger.TransactionalRepositories) error {
		if _, err := repos.SKUs().FindByIDForTenant(ctx, tenantID, req.SKUID); err != nil {
			return err
		}

		version, err := resolveVersion(ctx, repos.BOMVersions(), tenantID, req.SKUID, req.BOMVersionID)
		if err != nil {
			return err
		}

		var outputLocation *catalog.Location
		if outputEnabled {
			outputLocation, err = s.resolveOutputLocation(ctx, repos, tenantID, req.OutputLocationID)
			if err != nil {
				return err
			}
		}

		components, requirements, err := s.loadRequirements(ctx, repos, tenantID, version, req.Units)
		if err != nil {
			return err
		}

		overridden := make(map[uuid.UUID][]ledger.LotAllocation)
		if len(req.LotOverrides) > 0 {
			overridden, err = validateOverrides(ctx, repos, tenantID, req.LotOverrides, requirements)
			if err != nil {
				return err
			}
		}

		if err := s.checkAvailability(ctx, repos, tenantID, components, requirements, overridden, req.ConsumeFrom); err != nil {
			return err
		}

		costs := make(map[uuid.UUID]decimal.Decimal, len(components))
		for id, c := range components {
			costs[id] = c.CostPerUnit
		}
		unitCost := version.UnitCost(costs)

		entry, err := ledger.NewLedgerEntry(tenantID, ledger.EntryTypeBuild, req.EntryDate)
		if err != nil {
			return err
		}
		entry.WithSKU(req.SKUID).
			WithBOMVersion(version.ID).
			WithBuildCosts(req.Units, unitCost).
			WithDefects(req.DefectCount, req.DefectNotes, req.AffectedUnits).
			WithNotes(req.Notes)
		if outputLocation != nil {
			entry.WithLocation(outputLocation.ID)
		}
		if req.CreatedBy != nil {
			entry.WithCreatedBy(*req.CreatedBy)
		}

		consumptions := make([]ConsumptionResponse, 0, len(requirements))
		for componentID, required := range requirements {
			component := components[componentID]

			allocations, ok := overridden[componentID]
			if !ok {
				lots, err := repos.Lots().FindAvailableByComponent(ctx, tenantID, componentID)
				if err != nil {
					return err
				}
				allocations, err = ledger.SelectLotsForConsumption(componentID, lots, required, false)
				if err != nil {
					return err
				}
			}

			for _, alloc := range allocations {
				if err := entry.AddLine(componentID, alloc.LotID, req.ConsumeFrom, alloc.Quantity.Neg(), component.CostPerUnit); err != nil {
					return err
				}
				if alloc.LotID != nil {
					if err := repos.Lots().DeductQuantity(ctx, tenantID, *alloc.LotID, alloc.Quantity); err != nil {
						return err
					}
				}
				consumptions = append(consumptions, ConsumptionResponse{
					ComponentID: componentID,
					LotID:       alloc.LotID,
					LotNumber:   alloc.LotNumber,
					Quantity:    alloc.Quantity,
					CostPerUnit: component.CostPerUnit,
				})
			}

			if err := repos.ComponentBalances().ApplyDelta(ctx, tenantID, componentID, req.ConsumeFrom, required.Neg()); err != nil {
				return err
			}

			remaining, err := repos.ComponentBalances().AvailableQuantity(ctx, tenantID, componentID, nil)
			if err != nil {
				return err
			}
			if component.IsBelowReorder(remaining) {
				pending = append(pending, ledger.NewComponentBelowReorderEvent(tenantID, componentID, remaining, component.ReorderPoint))
			}
		}

		// Defective or diverted output credits nothing: components are
		// consumed for the full run either way.
		if outputUnits > 0 {
			producedQty := decimal.NewFromInt(outputUnits)
			if err := entry.AddFinishedLine(req.SKUID, outputLocation.ID, producedQty); err != nil {
				return err
			}
			if err := repos.Entries().Create(ctx, entry); err != nil {
				return err
			}
			if err := repos.FinishedGoodsBalances().ApplyDelta(ctx, tenantID, req.SKUID, outputLocation.ID, producedQty); err != nil {
				return err
			}
		} else if err := repos.Entries().Create(ctx, entry); err != nil {
			return err
		}

		pending = append(pending, ledger.NewBuildCompletedEvent(tenantID, entry.ID, req.SKUID, req.Units, entry.TotalBOMCost, req.DefectCount))

		response = BuildResponse{
			EntryID:        entry.ID,
			SKUID:          req.SKUID,
			BOMVersionID:   version.ID,
			Units:          req.Units,
			OutputQuantity: outputUnits,
			UnitBOMCost:    entry.UnitBOMCost,
			TotalBOMCost:   entry.TotalBOMCost,
			DefectCount:    req.DefectCount,
			Consumptions:   consumptions,
			EntryDate:      entry.EntryDate,
		}
		if outputLocation != nil {
			locationID := outputLocation.ID
			response.OutputLocationID = &locationID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, pending...)
	s.notifyDefects(tenantID, req, response.EntryID)
	return &response, nil
}

// CheckInsufficiency reports whether a planned build is feasible without
// posting anything. It returns every shortage, not just the first. A nil
// bomVersionID checks against the SKU's active recipe.
func (s *BuildService) CheckInsufficiency(ctx context.Context, tenantID, skuID uuid.UUID, units int64, bomVersionID, locationID *uuid.UUID) (*InsufficiencyCheckResponse, error) {
	if units <= 0 {
		return nil, shared.NewValidationError(shared.FieldViolation{Field: "units", Message: "must be greater than 0"})
	}

	version, err := resolveVersion(ctx, s.bomRepo, tenantID, skuID, bomVersionID)
	if err != nil {
		return nil, err
	}

	componentIDs := make([]uuid.UUID, 0, len(version.Lines))
	for _, line := range version.Lines {
		if line.QuantityPerUnit.GreaterThan(decimal.Zero) {
			componentIDs = append(componentIDs, line.ComponentID)
		}
	}

	shortages := make([]ledger.ShortageReport, 0)
	if len(componentIDs) > 0 {
		components, err := s.componentRepo.FindByIDs(ctx, tenantID, componentIDs)
		if err != nil {
			return nil, err
		}
		componentsByID := make(map[uuid.UUID]*catalog.Component, len(components))
		for i := range components {
			componentsByID[components[i].ID] = &components[i]
		}
		availability, err := consumableQuantities(ctx, s.balanceRepo, tenantID, componentIDs, locationID)
		if err != nil {
			return nil, err
		}

		unitsDec := decimal.NewFromInt(units)
		for _, line := range version.Lines {
			if !line.QuantityPerUnit.GreaterThan(decimal.Zero) {
				continue
			}
			required := line.QuantityPerUnit.Mul(unitsDec)
			available := availability[line.ComponentID]
			if available.GreaterThanOrEqual(required) {
				continue
			}
			report := ledger.ShortageReport{
				ComponentID: line.ComponentID,
				Required:    required,
				Available:   available,
				Shortage:    required.Sub(available),
			}
			if c, ok := componentsByID[line.ComponentID]; ok {
				report.ComponentName = c.Name
				report.SKUCode = c.SKUCode
			}
			shortages = append(shortages, report)
		}
	}

	return &InsufficiencyCheckResponse{
		SKUID:     skuID,
		Units:     units,
		Feasible:  len(shortages) == 0,
		Shortages: shortages,
	}, nil
}

// resolveVersion returns the explicitly requested recipe version, or the
// SKU's active one when versionID is nil. An explicit version must belong to
// the SKU being built.
func resolveVersion(ctx context.Context, repo catalog.BOMVersionRepository, tenantID, skuID uuid.UUID, versionID *uuid.UUID) (*catalog.BOMVersion, error) {
	if versionID != nil {
		version, err := repo.FindByIDForTenant(ctx, tenantID, *versionID)
		if err != nil {
			return nil, err
		}
		if version.SKUID != skuID {
			return nil, shared.NewDomainError("BOM_SKU_MISMATCH", "Recipe belongs to a different SKU")
		}
		return version, nil
	}
	version, err := repo.FindActiveBySKU(ctx, tenantID, skuID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NO_ACTIVE_BOM", "SKU has no active recipe to build against")
		}
		return nil, err
	}
	return version, nil
}

// consumableQuantities returns the stock a consumption at locationID could
// actually deduct. A nil location deducts the pooled row only, so stock held
// at named locations must not count toward it.
func consumableQuantities(ctx context.Context, repo ledger.ComponentBalanceRepository, tenantID uuid.UUID, componentIDs []uuid.UUID, locationID *uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	if locationID == nil {
		return repo.PooledQuantities(ctx, tenantID, componentIDs)
	}
	return repo.AvailableQuantities(ctx, tenantID, componentIDs, locationID)
}

func (s *BuildService) resolveOutputLocation(ctx context.Context, repos appledger.TransactionalRepositories, tenantID uuid.UUID, locationID *uuid.UUID) (*catalog.Location, error) {
	if locationID != nil {
		location, err := repos.Locations().FindByIDForTenant(ctx, tenantID, *locationID)
		if err != nil {
			return nil, err
		}
		if !location.IsActive {
			return nil, shared.ErrNoOutputLocation
		}
		return location, nil
	}
	location, err := repos.Locations().FindDefaultForTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNoOutputLocation
		}
		return nil, err
	}
	if !location.IsActive {
		return nil, shared.ErrNoOutputLocation
	}
	return location, nil
}

func (s *BuildService) loadRequirements(ctx context.Context, repos appledger.TransactionalRepositories, tenantID uuid.UUID, version *catalog.BOMVersion, units int64) (map[uuid.UUID]*catalog.Component, map[uuid.UUID]decimal.Decimal, error) {
	componentIDs := make([]uuid.UUID, 0, len(version.Lines))
	unitsDec := decimal.NewFromInt(units)
	requirements := make(map[uuid.UUID]decimal.Decimal, len(version.Lines))
	for _, line := range version.Lines {
		componentIDs = append(componentIDs, line.ComponentID)
		if line.QuantityPerUnit.GreaterThan(decimal.Zero) {
			requirements[line.ComponentID] = line.QuantityPerUnit.Mul(unitsDec)
		}
	}

	componentsByID := make(map[uuid.UUID]*catalog.Component, len(componentIDs))
	if len(componentIDs) > 0 {
		components, err := repos.Components().FindByIDs(ctx, tenantID, componentIDs)
		if err != nil {
			return nil, nil, err
		}
		for i := range components {
			componentsByID[components[i].ID] = &components[i]
		}
	}
	for id := range requirements {
		if _, ok := componentsByID[id]; !ok {
			return nil, nil, shared.NewDomainError("BOM_COMPONENT_MISSING", "Recipe references a component that no longer exists")
		}
	}
	return componentsByID, requirements, nil
}

// checkAvailability verifies every non-overridden component can cover its
// requirement before any write happens, reporting all shortages together.
// Overridden components were already checked lot-by-lot.
func (s *BuildService) checkAvailability(
	ctx context.Context,
	repos appledger.TransactionalRepositories,
	tenantID uuid.UUID,
	components map[uuid.UUID]*catalog.Component,
	requirements map[uuid.UUID]decimal.Decimal,
	overridden map[uuid.UUID][]ledger.LotAllocation,
	locationID *uuid.UUID,
) error {
	ids := make([]uuid.UUID, 0, len(requirements))
	for id := range requirements {
		if _, ok := overridden[id]; !ok {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	availability, err := consumableQuantities(ctx, repos.ComponentBalances(), tenantID, ids, locationID)
	if err != nil {
		return err
	}

	shortages := make([]ledger.ShortageReport, 0)
	for _, id := range ids {
		required := requirements[id]
		available := availability[id]
		if available.GreaterThanOrEqual(required) {
			continue
		}
		report := ledger.ShortageReport{
			ComponentID: id,
			Required:    required,
			Available:   available,
			Shortage:    required.Sub(available),
		}
		if c, ok := components[id]; ok {
			report.ComponentName = c.Name
			report.SKUCode = c.SKUCode
		}
		shortages = append(shortages, report)
	}
	if len(shortages) > 0 {
		return &ledger.InsufficientInventoryError{Shortages: shortages}
	}
	return nil
}

func (s *BuildService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish build events", zap.Error(err))
	}
}

// notifyDefects fires the defect alert after commit. The build has already
// succeeded; alert failures are logged and dropped.
func (s *BuildService) notifyDefects(tenantID uuid.UUID, req PostBuildRequest, entryID uuid.UUID) {
	if s.defectAlerts == nil || req.DefectCount <= 0 {
		return
	}
	alert := DefectAlert{
		TenantID:      tenantID,
		EntryID:       entryID,
		SKUID:         req.SKUID,
		DefectCount:   req.DefectCount,
		AffectedUnits: req.AffectedUnits,
		Notes:         req.DefectNotes,
	}
	go func() {
		if err := s.defectAlerts.NotifyDefects(context.Background(), alert); err != nil {
			s.logger.Warn("defect alert delivery failed", zap.Error(err), zap.String("entry_id", entryID.String()))
		}
	}()
}
