package gormrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"loanledger/internal/domain/balance"
	"loanledger/internal/domain/loan"
	"loanledger/internal/domain/uow"
)

type GormUoW struct{ db *gorm.DB }

var _ uow.UnitOfWork = (*GormUoW)(nil)

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func reposFor(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Loans:    &LoanRepository{db: tx},
		Balances: &BalanceRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func (u *GormUoW) WithinLoanTx(ctx context.Context, loanID uint64, fn func(r uow.Repos, l *loan.Loan) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		// lock the loan row up-front to prevent races
		l, err := r.Loans.GetByIDForUpdate(ctx, loanID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return loan.ErrNotFound
			}
			return err
		}
		return fn(r, l)
	})
}

func (u *GormUoW) WithinBalanceTx(ctx context.Context, account string, fn func(r uow.Repos, b *balance.Balance) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		b, err := r.Balances.GetByAccountForUpdate(ctx, account)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// First touch of this account: create the row inside the same
			// transaction. Concurrent first deposits contend on the primary
			// key; the loser aborts and the caller reissues.
			b = &balance.Balance{Account: account, Amount: 0}
			if err := r.Balances.Create(ctx, b); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		return fn(r, b)
	})
}
