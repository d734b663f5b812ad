package uow

import (
	"context"

	"loanledger/internal/domain/balance"
	"loanledger/internal/domain/loan"
)

type Repos struct {
	Loans    loan.Repository
	Balances balance.Repository
}

// UnitOfWork wraps validation, transfers and the state commit of one
// operation into a single transaction. Operations on the same loan or the
// same account serialize on the locked row; everything else runs in
// parallel.
type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock loan first, then pass it in
	WithinLoanTx(ctx context.Context, loanID uint64, fn func(r Repos, l *loan.Loan) error) error
	// convenience: lock (or create, on first deposit) the balance row
	WithinBalanceTx(ctx context.Context, account string, fn func(r Repos, b *balance.Balance) error) error
}
