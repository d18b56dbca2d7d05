package ledger

import (
	"context"

	"github.com/craftstock/backend/internal/domain/catalog"
	"github.com/craftstock/backend/internal/domain/ledger"
)

// TransactionScope provides transactional access to the ledger and catalog
// repositories. When a function is executed within a transaction scope, all
// repository operations are part of the same database transaction and are
// committed or rolled back atomically.
//
// Every posting operation writes through a scope: the entry header, its
// lines, lot deductions and balance deltas either all land or none do.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to every repository a posting
// operation touches. All repositories returned share the same underlying
// database transaction.
type TransactionalRepositories interface {
	// Components returns the component repository scoped to the current transaction
	Components() catalog.ComponentRepository
	// SKUs returns the SKU repository scoped to the current transaction
	SKUs() catalog.SKURepository
	// BOMVersions returns the BOM version repository scoped to the current transaction
	BOMVersions() catalog.BOMVersionRepository
	// Locations returns the location repository scoped to the current transaction
	Locations() catalog.LocationRepository
	// Lots returns the lot repository scoped to the current transaction
	Lots() ledger.LotRepository
	// Entries returns the ledger entry repository scoped to the current transaction
	Entries() ledger.LedgerEntryRepository
	// ComponentBalances returns the component balance repository scoped to the current transaction
	ComponentBalances() ledger.ComponentBalanceRepository
	// FinishedGoodsBalances returns the finished-goods balance repository scoped to the current transaction
	FinishedGoodsBalances() ledger.FinishedGoodsBalanceRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing or when transaction support is
// not required.
type NoOpTransactionScope struct {
	components        catalog.ComponentRepository
	skus              catalog.SKURepository
	bomVersions       catalog.BOMVersionRepository
	locations         catalog.LocationRepository
	lots              ledger.LotRepository
	entries           ledger.LedgerEntryRepository
	componentBalances ledger.ComponentBalanceRepository
	fgBalances        ledger.FinishedGoodsBalanceRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	components catalog.ComponentRepository,
	skus catalog.SKURepository,
	bomVersions catalog.BOMVersionRepository,
	locations catalog.LocationRepository,
	lots ledger.LotRepository,
	entries ledger.LedgerEntryRepository,
	componentBalances ledger.ComponentBalanceRepository,
	fgBalances ledger.FinishedGoodsBalanceRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		components:        components,
		skus:              skus,
		bomVersions:       bomVersions,
		locations:         locations,
		lots:              lots,
		entries:           entries,
		componentBalances: componentBalances,
		fgBalances:        fgBalances,
	}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Components returns the component repository.
func (s *NoOpTransactionScope) Components() catalog.ComponentRepository { return s.components }

// SKUs returns the SKU repository.
func (s *NoOpTransactionScope) SKUs() catalog.SKURepository { return s.skus }

// BOMVersions returns the BOM version repository.
func (s *NoOpTransactionScope) BOMVersions() catalog.BOMVersionRepository { return s.bomVersions }

// Locations returns the location repository.
func (s *NoOpTransactionScope) Locations() catalog.LocationRepository { return s.locations }

// Lots returns the lot repository.
func (s *NoOpTransactionScope) Lots() ledger.LotRepository { return s.lots }

// Entries returns the ledger entry repository.
func (s *NoOpTransactionScope) Entries() ledger.LedgerEntryRepository { return s.entries }

// ComponentBalances returns the component balance repository.
func (s *NoOpTransactionScope) ComponentBalances() ledger.ComponentBalanceRepository {
	return s.componentBalances
}

// FinishedGoodsBalances returns the finished-goods balance repository.
func (s *NoOpTransactionScope) FinishedGoodsBalances() ledger.FinishedGoodsBalanceRepository {
	return s.fgBalances
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
