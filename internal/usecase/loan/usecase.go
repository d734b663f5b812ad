package loan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"loanledger/internal/chain"
	domainLoan "loanledger/internal/domain/loan"
	"loanledger/internal/domain/uow"
	"loanledger/internal/tier"
	"loanledger/internal/transfer"
)

// Engine drives the loan lifecycle state machine:
//
//	open -> active -> {repaid, defaulted}
//
// Every mutation runs inside a unit-of-work transaction with the loan row
// locked, so concurrent operations on one loan serialize. Validation always
// precedes transfers; transfers precede the commit; a failed commit reverses
// the transfers that already ran.
type Engine struct {
	repo       domainLoan.Repository
	uow        uow.UnitOfWork
	rates      tier.Table
	collateral tier.Table
	transfers  transfer.Service
	ticks      chain.TickSource

	custody         string
	settlementAsset string
}

type Params struct {
	Repo       domainLoan.Repository
	UoW        uow.UnitOfWork
	Rates      tier.Table
	Collateral tier.Table
	Transfers  transfer.Service
	Ticks      chain.TickSource

	CustodyAccount  string
	SettlementAsset string
}

func NewEngine(p Params) *Engine {
	return &Engine{
		repo:            p.Repo,
		uow:             p.UoW,
		rates:           p.Rates,
		collateral:      p.Collateral,
		transfers:       p.Transfers,
		ticks:           p.Ticks,
		custody:         p.CustodyAccount,
		settlementAsset: p.SettlementAsset,
	}
}

func validAccount(a string) bool { return len(a) == 32 }

// saveOrReverse commits the loan; if the commit fails after plan already
// moved funds, the plan is reversed so the operation stays all-or-nothing.
func (e *Engine) saveOrReverse(ctx context.Context, r uow.Repos, l *domainLoan.Loan, plan []transfer.Instruction) error {
	if err := r.Loans.Save(ctx, l); err != nil {
		if rerr := e.transfers.Reverse(ctx, plan); rerr != nil {
			return fmt.Errorf("commit failed: %w (transfer reversal also failed: %v)", err, rerr)
		}
		return err
	}
	return nil
}

// Create validates the request, locks the collateral into custody and
// inserts the loan with status open. Any failure leaves no record and no
// funds moved.
func (e *Engine) Create(ctx context.Context, caller string, in CreateLoanInput) (uint64, error) {
	if !validAccount(caller) {
		return 0, domainLoan.ErrUnauthorized
	}
	if in.Principal == 0 || in.DurationTicks == 0 || in.CollateralAmount == 0 {
		return 0, domainLoan.ErrInvalidAmount
	}
	rate, ok := e.rates.Lookup(in.RateTier)
	if !ok {
		return 0, fmt.Errorf("%w: rate tier %q", domainLoan.ErrUnknownTier, in.RateTier)
	}
	multiplier, ok := e.collateral.Lookup(in.CollateralType)
	if !ok {
		return 0, fmt.Errorf("%w: collateral type %q", domainLoan.ErrUnknownTier, in.CollateralType)
	}
	if !collateralCovers(in.CollateralAmount, multiplier, in.Principal) {
		return 0, domainLoan.ErrInsufficientCollateral
	}
	if _, ok := totalRepayment(in.Principal, rate, in.DurationTicks); !ok {
		return 0, domainLoan.ErrInvalidAmount
	}

	var id uint64
	err := e.uow.WithinTx(ctx, func(r uow.Repos) error {
		plan := []transfer.Instruction{{
			Asset:  in.CollateralType,
			Amount: in.CollateralAmount,
			From:   caller,
			To:     e.custody,
		}}
		if err := e.transfers.Execute(ctx, plan); err != nil {
			return err
		}

		l := &domainLoan.Loan{
			Borrower:         caller,
			Principal:        in.Principal,
			CollateralType:   in.CollateralType,
			CollateralAmount: in.CollateralAmount,
			AnnualRate:       rate,
			DurationTicks:    in.DurationTicks,
			RepaidAmount:     0,
			Status:           domainLoan.StatusOpen,
			StatusUpdatedAt:  time.Now().UTC(),
		}
		if err := r.Loans.Create(ctx, l); err != nil {
			if rerr := e.transfers.Reverse(ctx, plan); rerr != nil {
				return fmt.Errorf("insert failed: %w (transfer reversal also failed: %v)", err, rerr)
			}
			return err
		}
		id = l.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Fund moves the principal from the caller to the borrower and activates
// the loan. The caller becomes the lender; start_tick comes from the tick
// source, never from the caller.
func (e *Engine) Fund(ctx context.Context, caller string, loanID uint64) error {
	if !validAccount(caller) {
		return domainLoan.ErrUnauthorized
	}
	return e.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if l.Status != domainLoan.StatusOpen {
			return domainLoan.ErrInvalidState
		}
		tick, err := e.ticks.CurrentTick(ctx)
		if err != nil {
			return fmt.Errorf("read tick: %w", err)
		}

		plan := []transfer.Instruction{{
			Asset:  e.settlementAsset,
			Amount: l.Principal,
			From:   caller,
			To:     l.Borrower,
		}}
		if err := e.transfers.Execute(ctx, plan); err != nil {
			return err
		}

		l.Lender = &caller
		l.StartTick = &tick
		l.Status = domainLoan.StatusActive
		l.StatusUpdatedAt = time.Now().UTC()
		return e.saveOrReverse(ctx, r, l, plan)
	})
}

// Repay moves amount from the borrower to the lender. Crossing the total due
// flips the loan to repaid and returns the collateral in the same plan, so
// both legs commit or neither does.
func (e *Engine) Repay(ctx context.Context, caller string, loanID uint64, amount uint64) error {
	if !validAccount(caller) {
		return domainLoan.ErrUnauthorized
	}
	if amount == 0 {
		return domainLoan.ErrInvalidAmount
	}
	return e.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if l.Status != domainLoan.StatusActive {
			return domainLoan.ErrInvalidState
		}
		if l.Borrower != caller {
			return domainLoan.ErrUnauthorized
		}
		total, ok := totalRepayment(l.Principal, l.AnnualRate, l.DurationTicks)
		if !ok {
			return domainLoan.ErrInvalidAmount
		}
		if amount > total-l.RepaidAmount {
			return domainLoan.ErrRepaymentExceedsTotal
		}
		newRepaid := l.RepaidAmount + amount

		plan := []transfer.Instruction{{
			Asset:  e.settlementAsset,
			Amount: amount,
			From:   caller,
			To:     *l.Lender,
		}}
		fullyRepaid := newRepaid >= total
		if fullyRepaid {
			plan = append(plan, transfer.Instruction{
				Asset:  l.CollateralType,
				Amount: l.CollateralAmount,
				From:   e.custody,
				To:     l.Borrower,
			})
		}
		if err := e.transfers.Execute(ctx, plan); err != nil {
			return err
		}

		l.RepaidAmount = newRepaid
		if fullyRepaid {
			l.Status = domainLoan.StatusRepaid
			l.StatusUpdatedAt = time.Now().UTC()
		}
		return e.saveOrReverse(ctx, r, l, plan)
	})
}

// Liquidate hands the collateral to the lender once the loan matured without
// full repayment. There is no deadline past maturity.
func (e *Engine) Liquidate(ctx context.Context, caller string, loanID uint64) error {
	if !validAccount(caller) {
		return domainLoan.ErrUnauthorized
	}
	return e.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if l.Status != domainLoan.StatusActive {
			return domainLoan.ErrInvalidState
		}
		if l.Lender == nil || *l.Lender != caller {
			return domainLoan.ErrUnauthorized
		}
		tick, err := e.ticks.CurrentTick(ctx)
		if err != nil {
			return fmt.Errorf("read tick: %w", err)
		}
		maturity, ok := l.Maturity()
		if !ok {
			return domainLoan.ErrInvalidState
		}
		if tick < maturity {
			return domainLoan.ErrMaturityNotReached
		}

		plan := []transfer.Instruction{{
			Asset:  l.CollateralType,
			Amount: l.CollateralAmount,
			From:   e.custody,
			To:     caller,
		}}
		if err := e.transfers.Execute(ctx, plan); err != nil {
			return err
		}

		l.Status = domainLoan.StatusDefaulted
		l.StatusUpdatedAt = time.Now().UTC()
		return e.saveOrReverse(ctx, r, l, plan)
	})
}

// Refinance lowers the rate and appends the new duration after the
// remaining term. A loan already past maturity is rejected rather than
// letting the remaining-term subtraction wrap: an overdue loan is the
// lender's to liquidate.
func (e *Engine) Refinance(ctx context.Context, caller string, loanID uint64, in RefinanceInput) error {
	if !validAccount(caller) {
		return domainLoan.ErrUnauthorized
	}
	if in.DurationTicks == 0 {
		return domainLoan.ErrInvalidAmount
	}
	newRate, ok := e.rates.Lookup(in.RateTier)
	if !ok {
		return fmt.Errorf("%w: rate tier %q", domainLoan.ErrUnknownTier, in.RateTier)
	}
	return e.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domainLoan.Loan) error {
		if l.Status != domainLoan.StatusActive {
			return domainLoan.ErrInvalidState
		}
		if l.Borrower != caller {
			return domainLoan.ErrUnauthorized
		}
		if newRate >= l.AnnualRate {
			return domainLoan.ErrRateNotLower
		}
		tick, err := e.ticks.CurrentTick(ctx)
		if err != nil {
			return fmt.Errorf("read tick: %w", err)
		}

		var elapsed uint64
		if l.StartTick != nil && tick > *l.StartTick {
			elapsed = tick - *l.StartTick
		}
		if elapsed >= l.DurationTicks {
			return domainLoan.ErrLoanMatured
		}
		remaining := l.DurationTicks - elapsed
		newTerm := in.DurationTicks + remaining
		if newTerm < in.DurationTicks {
			return domainLoan.ErrInvalidAmount
		}
		total, ok := totalRepayment(l.Principal, newRate, newTerm)
		if !ok {
			return domainLoan.ErrInvalidAmount
		}
		// The recomputed total must still cover what was already repaid,
		// otherwise repaid_amount would exceed the total due.
		if total < l.RepaidAmount {
			return domainLoan.ErrRepaymentExceedsTotal
		}

		l.AnnualRate = newRate
		l.DurationTicks = newTerm
		return r.Loans.Save(ctx, l)
	})
}

// Get is read-only and never mutates state.
func (e *Engine) Get(ctx context.Context, loanID uint64) (*LoanDTO, error) {
	l, err := e.repo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainLoan.ErrNotFound
		}
		return nil, err
	}
	return toDTO(l), nil
}

// TotalRepayment is read-only: principal plus pro-rated simple interest for
// the loan's current terms.
func (e *Engine) TotalRepayment(ctx context.Context, loanID uint64) (uint64, error) {
	l, err := e.repo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, domainLoan.ErrNotFound
		}
		return 0, err
	}
	total, ok := totalRepayment(l.Principal, l.AnnualRate, l.DurationTicks)
	if !ok {
		return 0, domainLoan.ErrInvalidAmount
	}
	return total, nil
}

func toDTO(l *domainLoan.Loan) *LoanDTO {
	return &LoanDTO{
		ID:               l.ID,
		Borrower:         l.Borrower,
		Lender:           l.Lender,
		Principal:        l.Principal,
		CollateralType:   l.CollateralType,
		CollateralAmount: l.CollateralAmount,
		AnnualRate:       l.AnnualRate,
		DurationTicks:    l.DurationTicks,
		StartTick:        l.StartTick,
		RepaidAmount:     l.RepaidAmount,
		Status:           string(l.Status),
		CreatedAt:        l.CreatedAt,
	}
}
