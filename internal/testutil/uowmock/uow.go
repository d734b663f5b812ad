package uowmock

import (
	"context"
	"errors"

	"loanledger/internal/domain/balance"
	"loanledger/internal/domain/loan"
	"loanledger/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn        func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinLoanTxFn    func(ctx context.Context, loanID uint64, fn func(r uow.Repos, l *loan.Loan) error) error
	WithinBalanceTxFn func(ctx context.Context, account string, fn func(r uow.Repos, b *balance.Balance) error) error
}

func New() *UoW { return &UoW{} }

func (m *UoW) Reset() { *m = UoW{} }

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinLoanTx(ctx context.Context, loanID uint64, fn func(r uow.Repos, l *loan.Loan) error) error {
	if m.WithinLoanTxFn != nil {
		return m.WithinLoanTxFn(ctx, loanID, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinBalanceTx(ctx context.Context, account string, fn func(r uow.Repos, b *balance.Balance) error) error {
	if m.WithinBalanceTxFn != nil {
		return m.WithinBalanceTxFn(ctx, account, fn)
	}
	return errUnimplemented
}

// Passthrough builds a UoW whose closures run immediately against the given
// repos, with loans looked up from the provided map. It mimics the real
// transaction flow minus the transaction, which is what most usecase tests
// want.
func Passthrough(r uow.Repos, loans map[uint64]*loan.Loan, balances map[string]*balance.Balance) *UoW {
	return &UoW{
		WithinTxFn: func(ctx context.Context, fn func(uow.Repos) error) error {
			return fn(r)
		},
		WithinLoanTxFn: func(ctx context.Context, loanID uint64, fn func(uow.Repos, *loan.Loan) error) error {
			l, ok := loans[loanID]
			if !ok {
				return loan.ErrNotFound
			}
			return fn(r, l)
		},
		WithinBalanceTxFn: func(ctx context.Context, account string, fn func(uow.Repos, *balance.Balance) error) error {
			b, ok := balances[account]
			if !ok {
				b = &balance.Balance{Account: account}
				balances[account] = b
			}
			return fn(r, b)
		},
	}
}
