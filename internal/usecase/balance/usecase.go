package balance

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gorm.io/gorm"

	domainBalance "loanledger/internal/domain/balance"
	"loanledger/internal/domain/uow"
	"loanledger/internal/transfer"
)

// Usecase is the deposited-funds ledger. It is deliberately separate from
// loan escrow: deposits never fund principal or collateral.
type Usecase struct {
	repo      domainBalance.Repository
	uow       uow.UnitOfWork
	transfers transfer.Service

	custody         string
	settlementAsset string
}

func NewUsecase(repo domainBalance.Repository, u uow.UnitOfWork, transfers transfer.Service, custody, settlementAsset string) *Usecase {
	return &Usecase{
		repo:            repo,
		uow:             u,
		transfers:       transfers,
		custody:         custody,
		settlementAsset: settlementAsset,
	}
}

// Deposit moves amount from the account's external wallet into custody and
// credits the balance. Returns the credited amount.
func (u *Usecase) Deposit(ctx context.Context, account string, amount uint64) (uint64, error) {
	if len(account) != 32 {
		return 0, domainBalance.ErrInvalidAmount
	}
	if amount == 0 {
		return 0, domainBalance.ErrInvalidAmount
	}
	err := u.uow.WithinBalanceTx(ctx, account, func(r uow.Repos, b *domainBalance.Balance) error {
		if amount > math.MaxUint64-b.Amount {
			return domainBalance.ErrBalanceOverflow
		}
		plan := []transfer.Instruction{{
			Asset:  u.settlementAsset,
			Amount: amount,
			From:   account,
			To:     u.custody,
		}}
		if err := u.transfers.Execute(ctx, plan); err != nil {
			return err
		}
		b.Amount += amount
		if err := r.Balances.Save(ctx, b); err != nil {
			if rerr := u.transfers.Reverse(ctx, plan); rerr != nil {
				return fmt.Errorf("commit failed: %w (transfer reversal also failed: %v)", err, rerr)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return amount, nil
}

// Withdraw moves amount out of custody back to the account and debits the
// balance. Never exceeds the recorded balance.
func (u *Usecase) Withdraw(ctx context.Context, account string, amount uint64) error {
	if len(account) != 32 {
		return domainBalance.ErrInvalidAmount
	}
	if amount == 0 {
		return domainBalance.ErrInvalidAmount
	}
	return u.uow.WithinBalanceTx(ctx, account, func(r uow.Repos, b *domainBalance.Balance) error {
		if amount > b.Amount {
			return domainBalance.ErrInsufficientBalance
		}
		plan := []transfer.Instruction{{
			Asset:  u.settlementAsset,
			Amount: amount,
			From:   u.custody,
			To:     account,
		}}
		if err := u.transfers.Execute(ctx, plan); err != nil {
			return err
		}
		b.Amount -= amount
		if err := r.Balances.Save(ctx, b); err != nil {
			if rerr := u.transfers.Reverse(ctx, plan); rerr != nil {
				return fmt.Errorf("commit failed: %w (transfer reversal also failed: %v)", err, rerr)
			}
			return err
		}
		return nil
	})
}

// Get returns the recorded balance; unknown accounts are simply 0.
func (u *Usecase) Get(ctx context.Context, account string) (uint64, error) {
	b, err := u.repo.GetByAccount(ctx, account)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return b.Amount, nil
}
