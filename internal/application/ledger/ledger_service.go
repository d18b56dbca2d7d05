package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/craftstock/backend/internal/application/validation"
	"github.com/craftstock/backend/internal/domain/catalog"
	"github.com/craftstock/backend/internal/domain/ledger"
	"github.com/craftstock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerService posts inventory events to the append-only ledger and serves
// balance and history queries. Every posting operation runs inside one
// transaction scope: the entry, its lines, lot updates and balance deltas
// commit together or not at all.
type LedgerService struct {
	scope          TransactionScope
	componentRepo  catalog.ComponentRepository
	lotRepo        ledger.LotRepository
	entryRepo      ledger.LedgerEntryRepository
	balanceRepo    ledger.ComponentBalanceRepository
	eventPublisher shared.EventPublisher
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	scope TransactionScope,
	componentRepo catalog.ComponentRepository,
	lotRepo ledger.LotRepository,
	entryRepo ledger.LedgerEntryRepository,
	balanceRepo ledger.ComponentBalanceRepository,
) *LedgerService {
	return &LedgerService{
		scope:         scope,
		componentRepo: componentRepo,
		lotRepo:       lotRepo,
		entryRepo:     entryRepo,
		balanceRepo:   balanceRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *LedgerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *LedgerService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	// Errors are logged by the event bus, not propagated
	_ = s.eventPublisher.Publish(ctx, events...)
}

// PostReceipt records inbound component stock. A lot number creates a tracked
// lot; without one the quantity lands in the pooled balance only.
func (s *LedgerService) PostReceipt(ctx context.Context, tenantID uuid.UUID, req PostReceiptRequest) (*EntryResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError(shared.FieldViolation{Field: "quantity", Message: "must be positive"})
	}
	return s.postInbound(ctx, tenantID, ledger.EntryTypeReceipt, inboundParams{
		componentID: req.ComponentID,
		quantity:    req.Quantity,
		locationID:  req.LocationID,
		lotNumber:   req.LotNumber,
		expiryDate:  req.ExpiryDate,
		supplier:    req.Supplier,
		vendorName:  req.VendorName,
		entryDate:   req.EntryDate,
		notes:       req.Notes,
		createdBy:   req.CreatedBy,
	})
}

// PostInitialStock records opening stock for a component
func (s *LedgerService) PostInitialStock(ctx context.Context, tenantID uuid.UUID, req PostInitialStockRequest) (*EntryResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError(shared.FieldViolation{Field: "quantity", Message: "must be positive"})
	}
	return s.postInbound(ctx, tenantID, ledger.EntryTypeInitial, inboundParams{
		componentID: req.ComponentID,
		quantity:    req.Quantity,
		locationID:  req.LocationID,
		lotNumber:   req.LotNumber,
		expiryDate:  req.ExpiryDate,
		entryDate:   req.EntryDate,
		notes:       req.Notes,
		createdBy:   req.CreatedBy,
	})
}

type inboundParams struct {
	componentID uuid.UUID
	quantity    decimal.Decimal
	locationID  *uuid.UUID
	lotNumber   string
	expiryDate  *time.Time
	supplier    string
	vendorName  string
	entryDate   time.Time
	notes       string
	createdBy   *uuid.UUID
}

func (s *LedgerService) postInbound(ctx context.Context, tenantID uuid.UUID, entryType ledger.EntryType, p inboundParams) (*EntryResponse, error) {
	var response EntryResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		component, err := repos.Components().FindByIDForTenant(ctx, tenantID, p.componentID)
		if err != nil {
			return err
		}

		entry, err := ledger.NewLedgerEntry(tenantID, entryType, p.entryDate)
		if err != nil {
			return err
		}
		entry.VendorName = p.vendorName
		entry.WithNotes(p.notes)
		if p.locationID != nil {
			entry.WithLocation(*p.locationID)
		}
		if p.createdBy != nil {
			entry.WithCreatedBy(*p.createdBy)
		}

		var lotID *uuid.UUID
		if p.lotNumber != "" {
			lot, err := ledger.NewLot(tenantID, component.ID, p.lotNumber, p.expiryDate, p.quantity, p.supplier)
			if err != nil {
				return err
			}
			if err := repos.Lots().Save(ctx, lot); err != nil {
				return err
			}
			lotID = &lot.ID
		}

		if err := entry.AddLine(component.ID, lotID, p.locationID, p.quantity, component.CostPerUnit); err != nil {
			return err
		}
		if err := repos.Entries().Create(ctx, entry); err != nil {
			return err
		}
		if err := repos.ComponentBalances().ApplyDelta(ctx, tenantID, component.ID, p.locationID, p.quantity); err != nil {
			return err
		}

		response = ToEntryResponse(entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// PostAdjustment records a signed manual correction. Negative adjustments are
// rejected when the balance (or targeted lot) cannot absorb them.
func (s *LedgerService) PostAdjustment(ctx context.Context, tenantID uuid.UUID, req PostAdjustmentRequest) (*EntryResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if req.QuantityChange.IsZero() {
		return nil, shared.NewValidationError(shared.FieldViolation{Field: "quantity_change", Message: "must be non-zero"})
	}

	var response EntryResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		component, err := repos.Components().FindByIDForTenant(ctx, tenantID, req.ComponentID)
		if err != nil {
			return err
		}

		entry, err := ledger.NewLedgerEntry(tenantID, ledger.EntryTypeAdjustment, req.EntryDate)
		if err != nil {
			return err
		}
		entry.WithNotes(req.Reason)
		if req.LocationID != nil {
			entry.WithLocation(*req.LocationID)
		}
		if req.CreatedBy != nil {
			entry.WithCreatedBy(*req.CreatedBy)
		}

		if req.LotID != nil {
			lot, err := repos.Lots().FindByIDForTenant(ctx, tenantID, *req.LotID)
			if err != nil {
				return err
			}
			if lot.ComponentID != component.ID {
				return shared.NewValidationError(shared.FieldViolation{Field: "lot_id", Message: "lot belongs to a different component"})
			}
			if req.QuantityChange.IsNegative() {
				if err := repos.Lots().DeductQuantity(ctx, tenantID, lot.ID, req.QuantityChange.Neg()); err != nil {
					return err
				}
			} else {
				if err := repos.Lots().RestoreQuantity(ctx, tenantID, lot.ID, req.QuantityChange); err != nil {
					return err
				}
			}
		}

		if err := entry.AddLine(component.ID, req.LotID, req.LocationID, req.QuantityChange, component.CostPerUnit); err != nil {
			return err
		}
		if err := repos.Entries().Create(ctx, entry); err != nil {
			return err
		}
		if err := repos.ComponentBalances().ApplyDelta(ctx, tenantID, component.ID, req.LocationID, req.QuantityChange); err != nil {
			return err
		}

		response = ToEntryResponse(entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// PostTransfer moves component stock between two locations. The source side
// is guarded: the transfer fails rather than driving the source negative.
func (s *LedgerService) PostTransfer(ctx context.Context, tenantID uuid.UUID, req PostTransferRequest) (*EntryResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError(shared.FieldViolation{Field: "quantity", Message: "must be positive"})
	}
	if req.SourceLocationID == req.DestLocationID {
		return nil, shared.NewValidationError(shared.FieldViolation{Field: "dest_location_id", Message: "must differ from source location"})
	}

	var response EntryResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		component, err := repos.Components().FindByIDForTenant(ctx, tenantID, req.ComponentID)
		if err != nil {
			return err
		}
		source, err := repos.Locations().FindByIDForTenant(ctx, tenantID, req.SourceLocationID)
		if err != nil {
			return err
		}
		dest, err := repos.Locations().FindByIDForTenant(ctx, tenantID, req.DestLocationID)
		if err != nil {
			return err
		}
		if !dest.IsActive {
			return shared.NewValidationError(shared.FieldViolation{Field: "dest_location_id", Message: "location is inactive"})
		}

		entry, err := ledger.NewLedgerEntry(tenantID, ledger.EntryTypeTransfer, req.EntryDate)
		if err != nil {
			return err
		}
		entry.WithTransferEndpoints(source.ID, dest.ID)
		entry.WithNotes(req.Notes)
		if req.CreatedBy != nil {
			entry.WithCreatedBy(*req.CreatedBy)
		}

		srcID, dstID := source.ID, dest.ID
		if err := entry.AddLine(component.ID, nil, &srcID, req.Quantity.Neg(), component.CostPerUnit); err != nil {
			return err
		}
		if err := entry.AddLine(component.ID, nil, &dstID, req.Quantity, component.CostPerUnit); err != nil {
			return err
		}
		if err := repos.Entries().Create(ctx, entry); err != nil {
			return err
		}
		if err := repos.ComponentBalances().ApplyDelta(ctx, tenantID, component.ID, &srcID, req.Quantity.Neg()); err != nil {
			return err
		}
		if err := repos.ComponentBalances().ApplyDelta(ctx, tenantID, component.ID, &dstID, req.Quantity); err != nil {
			return err
		}

		response = ToEntryResponse(entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// PostOutbound records component stock leaving for shipment. Lots are drawn
// first-expired-first-out; components without lots consume from the pool.
// With AllowInsufficient set, whatever the lots can cover ships and the
// balance only drops by the shipped amount.
func (s *LedgerService) PostOutbound(ctx context.Context, tenantID uuid.UUID, req PostOutboundRequest) (*EntryResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError(shared.FieldViolation{Field: "quantity", Message: "must be positive"})
	}

	var response EntryResponse
	var depleted []shared.DomainEvent
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		component, err := repos.Components().FindByIDForTenant(ctx, tenantID, req.ComponentID)
		if err != nil {
			return err
		}

		lots, err := repos.Lots().FindAvailableByComponent(ctx, tenantID, component.ID)
		if err != nil {
			return err
		}
		allocations, err := ledger.SelectLotsForConsumption(component.ID, lots, req.Quantity, req.AllowInsufficient)
		if err != nil {
			return err
		}

		entry, err := ledger.NewLedgerEntry(tenantID, ledger.EntryTypeOutbound, req.EntryDate)
		if err != nil {
			return err
		}
		entry.WithNotes(req.Notes)
		if req.LocationID != nil {
			entry.WithLocation(*req.LocationID)
		}
		if req.CreatedBy != nil {
			entry.WithCreatedBy(*req.CreatedBy)
		}

		lotsByID := make(map[uuid.UUID]*ledger.Lot, len(lots))
		for i := range lots {
			lotsByID[lots[i].ID] = &lots[i]
		}
		shipped := decimal.Zero
		for _, alloc := range allocations {
			if err := entry.AddLine(component.ID, alloc.LotID, req.LocationID, alloc.Quantity.Neg(), component.CostPerUnit); err != nil {
				return err
			}
			shipped = shipped.Add(alloc.Quantity)
			if alloc.LotID == nil {
				continue
			}
			if err := repos.Lots().DeductQuantity(ctx, tenantID, *alloc.LotID, alloc.Quantity); err != nil {
				return err
			}
			if lot, ok := lotsByID[*alloc.LotID]; ok && lot.RemainingQuantity.Equal(alloc.Quantity) {
				depleted = append(depleted, ledger.NewLotDepletedEvent(tenantID, lot.ID, component.ID, lot.LotNumber))
			}
		}

		if err := repos.Entries().Create(ctx, entry); err != nil {
			return err
		}
		if err := repos.ComponentBalances().ApplyDelta(ctx, tenantID, component.ID, req.LocationID, shipped.Neg()); err != nil {
			return err
		}

		response = ToEntryResponse(entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, depleted...)
	return &response, nil
}

// ReverseEntry posts a compensating entry that negates every line of the
// original. History stays intact; the pair nets to zero.
func (s *LedgerService) ReverseEntry(ctx context.Context, tenantID uuid.UUID, req ReverseEntryRequest) (*EntryResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	var response EntryResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		original, err := repos.Entries().FindByIDForTenant(ctx, tenantID, req.EntryID)
		if err != nil {
			return err
		}
		if original.ReversalOfID != nil {
			return shared.NewDomainError("ALREADY_REVERSAL", "Cannot reverse a reversal entry")
		}
		if _, err := repos.Entries().FindReversalOf(ctx, tenantID, original.ID); err == nil {
			return shared.NewDomainError("ALREADY_REVERSED", "Entry has already been reversed")
		} else if !errors.Is(err, shared.ErrNotFound) {
			return err
		}

		reversal, err := ledger.NewLedgerEntry(tenantID, original.Type, time.Now())
		if err != nil {
			return err
		}
		reversal.WithReversalOf(original.ID)
		reversal.WithNotes(req.Reason)
		if req.CreatedBy != nil {
			reversal.WithCreatedBy(*req.CreatedBy)
		}
		if original.SKUID != nil {
			reversal.WithSKU(*original.SKUID)
		}
		if original.LocationID != nil {
			reversal.WithLocation(*original.LocationID)
		}

		for _, line := range original.Lines {
			negated := line.QuantityChange.Neg()
			if err := reversal.AddLine(line.ComponentID, line.LotID, line.LocationID, negated, line.CostPerUnit); err != nil {
				return err
			}
			if line.LotID != nil {
				if line.IsConsumption() {
					if err := repos.Lots().RestoreQuantity(ctx, tenantID, *line.LotID, line.QuantityChange.Neg()); err != nil {
						return err
					}
				} else {
					if err := repos.Lots().DeductQuantity(ctx, tenantID, *line.LotID, line.QuantityChange); err != nil {
						return err
					}
				}
			}
			if err := repos.ComponentBalances().ApplyDelta(ctx, tenantID, line.ComponentID, line.LocationID, negated); err != nil {
				return err
			}
		}
		for _, line := range original.FinishedLines {
			negated := line.QuantityChange.Neg()
			if err := reversal.AddFinishedLine(line.SKUID, line.LocationID, negated); err != nil {
				return err
			}
			if err := repos.FinishedGoodsBalances().ApplyDelta(ctx, tenantID, line.SKUID, line.LocationID, negated); err != nil {
				return err
			}
		}

		if err := repos.Entries().Create(ctx, reversal); err != nil {
			return err
		}
		response = ToEntryResponse(reversal)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// GetEntry retrieves a ledger entry with its lines
func (s *LedgerService) GetEntry(ctx context.Context, tenantID, entryID uuid.UUID) (*EntryResponse, error) {
	entry, err := s.entryRepo.FindByIDForTenant(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}
	response := ToEntryResponse(entry)
	return &response, nil
}

// ListEntries lists ledger entries for a tenant, newest first
func (s *LedgerService) ListEntries(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (shared.Paginated[EntryResponse], error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	entries, err := s.entryRepo.FindForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[EntryResponse]{}, err
	}
	total, err := s.entryRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[EntryResponse]{}, err
	}

	items := make([]EntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, ToEntryResponse(&entries[i]))
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// ComponentHistory lists the entries that moved a component, newest first
func (s *LedgerService) ComponentHistory(ctx context.Context, tenantID, componentID uuid.UUID, filter shared.Filter) ([]EntryResponse, error) {
	if _, err := s.componentRepo.FindByIDForTenant(ctx, tenantID, componentID); err != nil {
		return nil, err
	}
	entries, err := s.entryRepo.FindByComponent(ctx, tenantID, componentID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]EntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, ToEntryResponse(&entries[i]))
	}
	return items, nil
}

// GetAvailability reports the on-hand quantity for a component. A nil
// location sums across all locations including the pooled row.
func (s *LedgerService) GetAvailability(ctx context.Context, tenantID, componentID uuid.UUID, locationID *uuid.UUID) (*ComponentAvailabilityResponse, error) {
	if _, err := s.componentRepo.FindByIDForTenant(ctx, tenantID, componentID); err != nil {
		return nil, err
	}
	available, err := s.balanceRepo.AvailableQuantity(ctx, tenantID, componentID, locationID)
	if err != nil {
		return nil, err
	}
	return &ComponentAvailabilityResponse{
		ComponentID: componentID,
		LocationID:  locationID,
		Available:   available,
	}, nil
}

// ListBelowReorder lists components whose availability fell below their
// configured reorder point
func (s *LedgerService) ListBelowReorder(ctx context.Context, tenantID uuid.UUID) ([]ReorderAlertResponse, error) {
	components, err := s.componentRepo.FindAllForTenant(ctx, tenantID, shared.Filter{Page: 1, PageSize: 1000, OrderBy: "sku_code", OrderDir: "asc"})
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(components))
	for i := range components {
		if !components[i].Archived && components[i].ReorderPoint.GreaterThan(decimal.Zero) {
			ids = append(ids, components[i].ID)
		}
	}
	if len(ids) == 0 {
		return []ReorderAlertResponse{}, nil
	}
	availability, err := s.balanceRepo.AvailableQuantities(ctx, tenantID, ids, nil)
	if err != nil {
		return nil, err
	}

	alerts := make([]ReorderAlertResponse, 0)
	for i := range components {
		c := &components[i]
		available, ok := availability[c.ID]
		if !ok {
			continue
		}
		if c.IsBelowReorder(available) {
			alerts = append(alerts, ReorderAlertResponse{
				ComponentID:  c.ID,
				SKUCode:      c.SKUCode,
				Name:         c.Name,
				Available:    available,
				ReorderPoint: c.ReorderPoint,
				LeadTimeDays: c.LeadTimeDays,
			})
		}
	}
	return alerts, nil
}

// ListExpiringLots lists lots with remaining stock expiring within the window
func (s *LedgerService) ListExpiringLots(ctx context.Context, tenantID uuid.UUID, within time.Duration, filter shared.Filter) ([]LotResponse, error) {
	cutoff := time.Now().Add(within)
	lots, err := s.lotRepo.FindExpiringBefore(ctx, tenantID, cutoff, filter)
	if err != nil {
		return nil, err
	}
	items := make([]LotResponse, 0, len(lots))
	for i := range lots {
		items = append(items, ToLotResponse(&lots[i]))
	}
	return items, nil
}

// VerifyBalance recomputes a component's balance from ledger lines and
// compares it against the stored row. A mismatch indicates drift between the
// log and its derived state.
func (s *LedgerService) VerifyBalance(ctx context.Context, tenantID, componentID uuid.UUID, locationID *uuid.UUID) error {
	stored, err := s.balanceRepo.AvailableQuantity(ctx, tenantID, componentID, locationID)
	if err != nil {
		return err
	}
	derived, err := s.entryRepo.SumLineQuantity(ctx, tenantID, componentID, locationID)
	if err != nil {
		return err
	}
	if !stored.Equal(derived) {
		return shared.NewDomainError("BALANCE_DRIFT", "Stored balance does not match ledger history")
	}
	return nil
}
