package bom

import (
	"context"
	"testing"
	"time"

	"github.com/craftstock/backend/internal/domain/catalog"
	"github.com/craftstock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type buildabilityFixture struct {
	service    *BuildabilityService
	bomRepo    *MockBOMVersionRepository
	components *MockComponentRepository
	balances   *MockComponentBalanceRepository
}

func newBuildabilityFixture() *buildabilityFixture {
	f := &buildabilityFixture{
		bomRepo:    new(MockBOMVersionRepository),
		components: new(MockComponentRepository),
		balances:   new(MockComponentBalanceRepository),
	}
	f.service = NewBuildabilityService(f.bomRepo, f.components, f.balances)
	return f
}

func TestMaxBuildableUnits_FloorOfMinimum(t *testing.T) {
	f := newBuildabilityFixture()
	tenantID := uuid.New()
	skuID := uuid.New()
	frame := newComponent(t, tenantID, "Frame", "10.0000")
	screws := newComponent(t, tenantID, "Screws", "0.1200")

	version, err := catalog.NewBOMVersion(tenantID, skuID, "v1", time.Now())
	require.NoError(t, err)
	require.NoError(t, version.AddLine(frame.ID, decimal.NewFromInt(1), ""))
	require.NoError(t, version.AddLine(screws.ID, decimal.NewFromInt(8), ""))

	f.bomRepo.On("FindActiveBySKU", mock.Anything, tenantID, skuID).Return(version, nil)
	f.balances.On("AvailableQuantities", mock.Anything, tenantID, mock.Anything, (*uuid.UUID)(nil)).
		Return(map[uuid.UUID]decimal.Decimal{
			frame.ID:  decimal.NewFromInt(12),
			screws.ID: decimal.NewFromInt(90), // supports 11 units
		}, nil)
	f.components.On("FindByIDForTenant", mock.Anything, tenantID, screws.ID).Return(screws, nil)

	resp, err := f.service.MaxBuildableUnits(context.Background(), tenantID, skuID, nil)
	require.NoError(t, err)
	require.NotNil(t, resp.MaxUnits)
	assert.Equal(t, int64(11), *resp.MaxUnits)
}

func TestMaxBuildableUnits_NilWhenNoActiveBOM(t *testing.T) {
	f := newBuildabilityFixture()
	tenantID := uuid.New()
	skuID := uuid.New()

	f.bomRepo.On("FindActiveBySKU", mock.Anything, tenantID, skuID).Return(nil, shared.ErrNotFound)

	resp, err := f.service.MaxBuildableUnits(context.Background(), tenantID, skuID, nil)
	require.NoError(t, err)
	assert.Nil(t, resp.MaxUnits)
	assert.Nil(t, resp.BOMVersionID)
}

func TestMaxBuildableUnits_NilWhenOnlyZeroQuantityLines(t *testing.T) {
	f := newBuildabilityFixture()
	tenantID := uuid.New()
	skuID := uuid.New()

	version, err := catalog.NewBOMVersion(tenantID, skuID, "v1", time.Now())
	require.NoError(t, err)
	require.NoError(t, version.AddLine(uuid.New(), decimal.Zero, "optional trim"))

	f.bomRepo.On("FindActiveBySKU", mock.Anything, tenantID, skuID).Return(version, nil)

	resp, err := f.service.MaxBuildableUnits(context.Background(), tenantID, skuID, nil)
	require.NoError(t, err)
	assert.Nil(t, resp.MaxUnits)
	f.balances.AssertNotCalled(t, "AvailableQuantities", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMaxBuildableUnits_ZeroWhenComponentMissing(t *testing.T) {
	f := newBuildabilityFixture()
	tenantID := uuid.New()
	skuID := uuid.New()
	frame := newComponent(t, tenantID, "Frame", "10.0000")

	version, err := catalog.NewBOMVersion(tenantID, skuID, "v1", time.Now())
	require.NoError(t, err)
	require.NoError(t, version.AddLine(frame.ID, decimal.NewFromInt(2), ""))

	f.bomRepo.On("FindActiveBySKU", mock.Anything, tenantID, skuID).Return(version, nil)
	f.balances.On("AvailableQuantities", mock.Anything, tenantID, mock.Anything, (*uuid.UUID)(nil)).
		Return(map[uuid.UUID]decimal.Decimal{}, nil)
	f.components.On("FindByIDForTenant", mock.Anything, tenantID, frame.ID).Return(frame, nil)

	resp, err := f.service.MaxBuildableUnits(context.Background(), tenantID, skuID, nil)
	require.NoError(t, err)
	require.NotNil(t, resp.MaxUnits)
	assert.Equal(t, int64(0), *resp.MaxUnits)
}

func TestMaxBuildableUnits_FractionalRequirement(t *testing.T) {
	f := newBuildabilityFixture()
	tenantID := uuid.New()
	skuID := uuid.New()
	resin := newComponent(t, tenantID, "Resin", "0.3333")

	version, err := catalog.NewBOMVersion(tenantID, skuID, "v1", time.Now())
	require.NoError(t, err)
	require.NoError(t, version.AddLine(resin.ID, decimal.RequireFromString("0.75"), ""))

	f.bomRepo.On("FindActiveBySKU", mock.Anything, tenantID, skuID).Return(version, nil)
	f.balances.On("AvailableQuantities", mock.Anything, tenantID, mock.Anything, (*uuid.UUID)(nil)).
		Return(map[uuid.UUID]decimal.Decimal{resin.ID: decimal.NewFromInt(10)}, nil)
	f.components.On("FindByIDForTenant", mock.Anything, tenantID, resin.ID).Return(resin, nil)

	resp, err := f.service.MaxBuildableUnits(context.Background(), tenantID, skuID, nil)
	require.NoError(t, err)
	require.NotNil(t, resp.MaxUnits)
	// 10 / 0.75 = 13.33..., floored
	assert.Equal(t, int64(13), *resp.MaxUnits)
}

func TestConstraint_NamesLimitingComponent(t *testing.T) {
	f := newBuildabilityFixture()
	tenantID := uuid.New()
	skuID := uuid.New()
	frame := newComponent(t, tenantID, "Frame", "10.0000")
	screws := newComponent(t, tenantID, "Screws", "0.1200")

	version, err := catalog.NewBOMVersion(tenantID, skuID, "v1", time.Now())
	require.NoError(t, err)
	require.NoError(t, version.AddLine(frame.ID, decimal.NewFromInt(1), ""))
	require.NoError(t, version.AddLine(screws.ID, decimal.NewFromInt(8), ""))

	f.bomRepo.On("FindActiveBySKU", mock.Anything, tenantID, skuID).Return(version, nil)
	f.balances.On("AvailableQuantities", mock.Anything, tenantID, mock.Anything, (*uuid.UUID)(nil)).
		Return(map[uuid.UUID]decimal.Decimal{
			frame.ID:  decimal.NewFromInt(100),
			screws.ID: decimal.NewFromInt(40),
		}, nil)
	f.components.On("FindByIDForTenant", mock.Anything, tenantID, screws.ID).Return(screws, nil)

	constraint, err := f.service.Constraint(context.Background(), tenantID, skuID, nil)
	require.NoError(t, err)
	require.NotNil(t, constraint)
	assert.Equal(t, screws.ID, constraint.ComponentID)
	assert.Equal(t, "Screws", constraint.ComponentName)
	assert.Equal(t, int64(5), constraint.UnitsSupported)
}

func TestMaxBuildableForSKUs_Batch(t *testing.T) {
	f := newBuildabilityFixture()
	tenantID := uuid.New()
	frame := newComponent(t, tenantID, "Frame", "10.0000")

	skuWithBOM := uuid.New()
	skuWithout := uuid.New()
	version, err := catalog.NewBOMVersion(tenantID, skuWithBOM, "v1", time.Now())
	require.NoError(t, err)
	require.NoError(t, version.AddLine(frame.ID, decimal.NewFromInt(4), ""))

	f.bomRepo.On("FindActiveBySKUs", mock.Anything, tenantID, []uuid.UUID{skuWithBOM, skuWithout}).
		Return([]catalog.BOMVersion{*version}, nil)
	f.balances.On("AvailableQuantities", mock.Anything, tenantID, mock.Anything, (*uuid.UUID)(nil)).
		Return(map[uuid.UUID]decimal.Decimal{frame.ID: decimal.NewFromInt(9)}, nil)

	results, err := f.service.MaxBuildableForSKUs(context.Background(), tenantID, []uuid.UUID{skuWithBOM, skuWithout}, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.NotNil(t, results[0].MaxUnits)
	assert.Equal(t, int64(2), *results[0].MaxUnits)
	assert.Nil(t, results[1].MaxUnits)
}
