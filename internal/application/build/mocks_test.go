package build

import (
	"context"
	"sync"
	"time"

	"github.com/craftstock/backend/internal/domain/catalog"
	"github.com/craftstock/backend/internal/domain/ledger"
	"github.com/craftstock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockEventPublisher collects published domain events
type MockEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{events: make([]shared.DomainEvent, 0)}
}

func (m *MockEventPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *MockEventPublisher) GetEventsByType(eventType string) []shared.DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]shared.DomainEvent, 0)
	for _, e := range m.events {
		if e.EventType() == eventType {
			result = append(result, e)
		}
	}
	return result
}

// MockDefectAlertService records defect alerts
type MockDefectAlertService struct {
	mu     sync.Mutex
	alerts []DefectAlert
	done   chan struct{}
}

func NewMockDefectAlertService() *MockDefectAlertService {
	return &MockDefectAlertService{done: make(chan struct{}, 8)}
}

func (m *MockDefectAlertService) NotifyDefects(_ context.Context, alert DefectAlert) error {
	m.mu.Lock()
	m.alerts = append(m.alerts, alert)
	m.mu.Unlock()
	m.done <- struct{}{}
	return nil
}

// WaitForAlert blocks until an alert arrives or the timeout elapses
func (m *MockDefectAlertService) WaitForAlert(timeout time.Duration) *DefectAlert {
	select {
	case <-m.done:
		m.mu.Lock()
		defer m.mu.Unlock()
		alert := m.alerts[len(m.alerts)-1]
		return &alert
	case <-time.After(timeout):
		return nil
	}
}

// MockComponentRepository is a mock implementation of catalog.ComponentRepository
type MockComponentRepository struct {
	mock.Mock
}

func (m *MockComponentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Component, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Component), args.Error(1)
}

func (m *MockComponentRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Component, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]catalog.Component), args.Error(1)
}

func (m *MockComponentRepository) FindBySKUCode(ctx context.Context, tenantID uuid.UUID, skuCode string) (*catalog.Component, error) {
	args := m.Called(ctx, tenantID, skuCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Component), args.Error(1)
}

func (m *MockComponentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Component, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]catalog.Component), args.Error(1)
}

func (m *MockComponentRepository) Save(ctx context.Context, component *catalog.Component) error {
	args := m.Called(ctx, component)
	return args.Error(0)
}

func (m *MockComponentRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockSKURepository is a mock implementation of catalog.SKURepository
type MockSKURepository struct {
	mock.Mock
}

func (m *MockSKURepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.SKU, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.SKU), args.Error(1)
}

func (m *MockSKURepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.SKU, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]catalog.SKU), args.Error(1)
}

func (m *MockSKURepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.SKU, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]catalog.SKU), args.Error(1)
}

func (m *MockSKURepository) Save(ctx context.Context, sku *catalog.SKU) error {
	args := m.Called(ctx, sku)
	return args.Error(0)
}

// MockBOMVersionRepository is a mock implementation of catalog.BOMVersionRepository
type MockBOMVersionRepository struct {
	mock.Mock
}

func (m *MockBOMVersionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.BOMVersion, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.BOMVersion), args.Error(1)
}

func (m *MockBOMVersionRepository) FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.BOMVersion, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]catalog.BOMVersion), args.Error(1)
}

func (m *MockBOMVersionRepository) FindActiveBySKU(ctx context.Context, tenantID, skuID uuid.UUID) (*catalog.BOMVersion, error) {
	args := m.Called(ctx, tenantID, skuID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.BOMVersion), args.Error(1)
}

func (m *MockBOMVersionRepository) FindActiveBySKUs(ctx context.Context, tenantID uuid.UUID, skuIDs []uuid.UUID) ([]catalog.BOMVersion, error) {
	args := m.Called(ctx, tenantID, skuIDs)
	return args.Get(0).([]catalog.BOMVersion), args.Error(1)
}

func (m *MockBOMVersionRepository) FindBySKU(ctx context.Context, tenantID, skuID uuid.UUID, filter shared.Filter) ([]catalog.BOMVersion, error) {
	args := m.Called(ctx, tenantID, skuID, filter)
	return args.Get(0).([]catalog.BOMVersion), args.Error(1)
}

func (m *MockBOMVersionRepository) DeactivateActiveForSKU(ctx context.Context, tenantID, skuID uuid.UUID, effectiveEnd time.Time) (int64, error) {
	args := m.Called(ctx, tenantID, skuID, effectiveEnd)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBOMVersionRepository) SaveWithLines(ctx context.Context, version *catalog.BOMVersion) error {
	args := m.Called(ctx, version)
	return args.Error(0)
}

func (m *MockBOMVersionRepository) ReplaceLines(ctx context.Context, version *catalog.BOMVersion) error {
	args := m.Called(ctx, version)
	return args.Error(0)
}

func (m *MockBOMVersionRepository) Save(ctx context.Context, version *catalog.BOMVersion) error {
	args := m.Called(ctx, version)
	return args.Error(0)
}

// MockLocationRepository is a mock implementation of catalog.LocationRepository
type MockLocationRepository struct {
	mock.Mock
}

func (m *MockLocationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Location, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Location), args.Error(1)
}

func (m *MockLocationRepository) FindDefaultForTenant(ctx context.Context, tenantID uuid.UUID) (*catalog.Location, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Location), args.Error(1)
}

func (m *MockLocationRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Location, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]catalog.Location), args.Error(1)
}

func (m *MockLocationRepository) Save(ctx context.Context, location *catalog.Location) error {
	args := m.Called(ctx, location)
	return args.Error(0)
}

// MockLotRepository is a mock implementation of ledger.LotRepository
type MockLotRepository struct {
	mock.Mock
}

func (m *MockLotRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.Lot, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Lot), args.Error(1)
}

func (m *MockLotRepository) FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]ledger.Lot, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]ledger.Lot), args.Error(1)
}

func (m *MockLotRepository) FindAvailableByComponent(ctx context.Context, tenantID, componentID uuid.UUID) ([]ledger.Lot, error) {
	args := m.Called(ctx, tenantID, componentID)
	return args.Get(0).([]ledger.Lot), args.Error(1)
}

func (m *MockLotRepository) FindAvailableByComponents(ctx context.Context, tenantID uuid.UUID, componentIDs []uuid.UUID) (map[uuid.UUID][]ledger.Lot, error) {
	args := m.Called(ctx, tenantID, componentIDs)
	return args.Get(0).(map[uuid.UUID][]ledger.Lot), args.Error(1)
}

func (m *MockLotRepository) FindExpiringBefore(ctx context.Context, tenantID uuid.UUID, cutoff time.Time, filter shared.Filter) ([]ledger.Lot, error) {
	args := m.Called(ctx, tenantID, cutoff, filter)
	return args.Get(0).([]ledger.Lot), args.Error(1)
}

func (m *MockLotRepository) FindByComponent(ctx context.Context, tenantID, componentID uuid.UUID, filter shared.Filter) ([]ledger.Lot, error) {
	args := m.Called(ctx, tenantID, componentID, filter)
	return args.Get(0).([]ledger.Lot), args.Error(1)
}

func (m *MockLotRepository) Save(ctx context.Context, lot *ledger.Lot) error {
	args := m.Called(ctx, lot)
	return args.Error(0)
}

func (m *MockLotRepository) DeductQuantity(ctx context.Context, tenantID, lotID uuid.UUID, quantity decimal.Decimal) error {
	args := m.Called(ctx, tenantID, lotID, quantity)
	return args.Error(0)
}

func (m *MockLotRepository) RestoreQuantity(ctx context.Context, tenantID, lotID uuid.UUID, quantity decimal.Decimal) error {
	args := m.Called(ctx, tenantID, lotID, quantity)
	return args.Error(0)
}

// MockEntryRepository is a mock implementation of ledger.LedgerEntryRepository
type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) Create(ctx context.Context, entry *ledger.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockEntryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ledger.LedgerEntry, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.LedgerEntry), args.Error(1)
}

func (m *MockEntryRepository) FindForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ledger.LedgerEntry, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]ledger.LedgerEntry), args.Error(1)
}

func (m *MockEntryRepository) FindByComponent(ctx context.Context, tenantID, componentID uuid.UUID, filter shared.Filter) ([]ledger.LedgerEntry, error) {
	args := m.Called(ctx, tenantID, componentID, filter)
	return args.Get(0).([]ledger.LedgerEntry), args.Error(1)
}

func (m *MockEntryRepository) FindReversalOf(ctx context.Context, tenantID, entryID uuid.UUID) (*ledger.LedgerEntry, error) {
	args := m.Called(ctx, tenantID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.LedgerEntry), args.Error(1)
}

func (m *MockEntryRepository) SumLineQuantity(ctx context.Context, tenantID, componentID uuid.UUID, locationID *uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, componentID, locationID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockEntryRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockComponentBalanceRepository is a mock implementation of ledger.ComponentBalanceRepository
type MockComponentBalanceRepository struct {
	mock.Mock
}

func (m *MockComponentBalanceRepository) Get(ctx context.Context, tenantID, componentID uuid.UUID, locationID *uuid.UUID) (*ledger.ComponentBalance, error) {
	args := m.Called(ctx, tenantID, componentID, locationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.ComponentBalance), args.Error(1)
}

func (m *MockComponentBalanceRepository) AvailableQuantity(ctx context.Context, tenantID, componentID uuid.UUID, locationID *uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, componentID, locationID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockComponentBalanceRepository) AvailableQuantities(ctx context.Context, tenantID uuid.UUID, componentIDs []uuid.UUID, locationID *uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, componentIDs, locationID)
	return args.Get(0).(map[uuid.UUID]decimal.Decimal), args.Error(1)
}

func (m *MockComponentBalanceRepository) PooledQuantities(ctx context.Context, tenantID uuid.UUID, componentIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, componentIDs)
	return args.Get(0).(map[uuid.UUID]decimal.Decimal), args.Error(1)
}

func (m *MockComponentBalanceRepository) ApplyDelta(ctx context.Context, tenantID, componentID uuid.UUID, locationID *uuid.UUID, delta decimal.Decimal) error {
	args := m.Called(ctx, tenantID, componentID, locationID, delta)
	return args.Error(0)
}

func (m *MockComponentBalanceRepository) ListForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ledger.ComponentBalance, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]ledger.ComponentBalance), args.Error(1)
}

// MockFinishedGoodsBalanceRepository is a mock implementation of ledger.FinishedGoodsBalanceRepository
type MockFinishedGoodsBalanceRepository struct {
	mock.Mock
}

func (m *MockFinishedGoodsBalanceRepository) Get(ctx context.Context, tenantID, skuID, locationID uuid.UUID) (*ledger.FinishedGoodsBalance, error) {
	args := m.Called(ctx, tenantID, skuID, locationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.FinishedGoodsBalance), args.Error(1)
}

func (m *MockFinishedGoodsBalanceRepository) ListForSKU(ctx context.Context, tenantID, skuID uuid.UUID) ([]ledger.FinishedGoodsBalance, error) {
	args := m.Called(ctx, tenantID, skuID)
	return args.Get(0).([]ledger.FinishedGoodsBalance), args.Error(1)
}

func (m *MockFinishedGoodsBalanceRepository) ApplyDelta(ctx context.Context, tenantID, skuID, locationID uuid.UUID, delta decimal.Decimal) error {
	args := m.Called(ctx, tenantID, skuID, locationID, delta)
	return args.Error(0)
}
