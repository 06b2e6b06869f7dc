package inventory

import (
	"context"

	"github.com/Rajak13/Vyapar-sub001/internal/domain/catalog"
	"github.com/Rajak13/Vyapar-sub001/internal/domain/inventory"
	"github.com/Rajak13/Vyapar-sub001/internal/domain/trade"
)

// TransactionalRepositories exposes the repositories participating in one
// database transaction. Everything obtained through it shares the same
// underlying transaction handle.
type TransactionalRepositories interface {
	Products() catalog.ProductRepository
	Transactions() inventory.TransactionRepository
	Sales() trade.SaleRepository
	Returns() trade.ReturnExchangeRepository
}

// TransactionScope runs a unit of work atomically. If fn returns an error
// the whole transaction rolls back; otherwise it commits. Ledger appends
// and the stock projection refresh always run inside one scope, as does a
// return completion with its resulting appends.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// NoOpTransactionScope executes the unit of work against a fixed set of
// repositories without transactional guarantees. Intended for unit tests.
type NoOpTransactionScope struct {
	Repos TransactionalRepositories
}

// NewNoOpTransactionScope creates a scope that simply invokes fn
func NewNoOpTransactionScope(repos TransactionalRepositories) *NoOpTransactionScope {
	return &NoOpTransactionScope{Repos: repos}
}

// Execute runs fn directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s.Repos)
}

// StaticRepositories is a plain TransactionalRepositories implementation
// backed by fixed repository instances
type StaticRepositories struct {
	ProductRepo     catalog.ProductRepository
	TransactionRepo inventory.TransactionRepository
	SaleRepo        trade.SaleRepository
	ReturnRepo      trade.ReturnExchangeRepository
}

// Products returns the product repository
func (r *StaticRepositories) Products() catalog.ProductRepository { return r.ProductRepo }

// Transactions returns the ledger repository
func (r *StaticRepositories) Transactions() inventory.TransactionRepository {
	return r.TransactionRepo
}

// Sales returns the sale repository
func (r *StaticRepositories) Sales() trade.SaleRepository { return r.SaleRepo }

// Returns returns the return/exchange repository
func (r *StaticRepositories) Returns() trade.ReturnExchangeRepository { return r.ReturnRepo }

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*StaticRepositories)(nil)
)
