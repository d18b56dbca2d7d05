package persistence

import (
	"context"

	appledger "github.com/craftstock/backend/internal/application/ledger"
	"github.com/craftstock/backend/internal/domain/catalog"
	"github.com/craftstock/backend/internal/domain/ledger"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// Every repository handed to the callback shares the same transaction, so a
// build's lot deductions, balance deltas, and entry insert commit or roll
// back as one unit.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appledger.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Components returns the component repository scoped to the current transaction
func (r *gormTransactionalRepositories) Components() catalog.ComponentRepository {
	return NewGormComponentRepository(r.tx)
}

// SKUs returns the SKU repository scoped to the current transaction
func (r *gormTransactionalRepositories) SKUs() catalog.SKURepository {
	return NewGormSKURepository(r.tx)
}

// BOMVersions returns the BOM version repository scoped to the current transaction
func (r *gormTransactionalRepositories) BOMVersions() catalog.BOMVersionRepository {
	return NewGormBOMVersionRepository(r.tx)
}

// Locations returns the location repository scoped to the current transaction
func (r *gormTransactionalRepositories) Locations() catalog.LocationRepository {
	return NewGormLocationRepository(r.tx)
}

// Lots returns the lot repository scoped to the current transaction
func (r *gormTransactionalRepositories) Lots() ledger.LotRepository {
	return NewGormLotRepository(r.tx)
}

// Entries returns the ledger entry repository scoped to the current transaction
func (r *gormTransactionalRepositories) Entries() ledger.LedgerEntryRepository {
	return NewGormLedgerEntryRepository(r.tx)
}

// ComponentBalances returns the component balance repository scoped to the current transaction
func (r *gormTransactionalRepositories) ComponentBalances() ledger.ComponentBalanceRepository {
	return NewGormComponentBalanceRepository(r.tx)
}

// FinishedGoodsBalances returns the finished goods balance repository scoped to the current transaction
func (r *gormTransactionalRepositories) FinishedGoodsBalances() ledger.FinishedGoodsBalanceRepository {
	return NewGormFinishedGoodsBalanceRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appledger.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appledger.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
