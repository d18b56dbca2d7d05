package bom

import (
	"context"
	"time"

	"github.com/craftstock/backend/internal/domain/catalog"
	"github.com/craftstock/backend/internal/domain/ledger"
	"github.com/craftstock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

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
