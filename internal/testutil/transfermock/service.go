package transfermock

import (
	"context"

	"loanledger/internal/transfer"
)

var _ transfer.Service = (*Service)(nil)

// Service records every dispatched instruction and can be told to fail.
type Service struct {
	// Dispatched accumulates all moves in call order, including reversals.
	Dispatched []transfer.Instruction

	DispatchFn func(ctx context.Context, asset string, amount uint64, from, to string) error
	ExecuteFn  func(ctx context.Context, plan []transfer.Instruction) error
	ReverseFn  func(ctx context.Context, plan []transfer.Instruction) error
}

func (m *Service) Dispatch(ctx context.Context, asset string, amount uint64, from, to string) error {
	if m.DispatchFn != nil {
		if err := m.DispatchFn(ctx, asset, amount, from, to); err != nil {
			return err
		}
	}
	m.Dispatched = append(m.Dispatched, transfer.Instruction{Asset: asset, Amount: amount, From: from, To: to})
	return nil
}

func (m *Service) Execute(ctx context.Context, plan []transfer.Instruction) error {
	if m.ExecuteFn != nil {
		if err := m.ExecuteFn(ctx, plan); err != nil {
			return err
		}
	}
	m.Dispatched = append(m.Dispatched, plan...)
	return nil
}

func (m *Service) Reverse(ctx context.Context, plan []transfer.Instruction) error {
	if m.ReverseFn != nil {
		if err := m.ReverseFn(ctx, plan); err != nil {
			return err
		}
	}
	for i := len(plan) - 1; i >= 0; i-- {
		ins := plan[i]
		m.Dispatched = append(m.Dispatched, transfer.Instruction{Asset: ins.Asset, Amount: ins.Amount, From: ins.To, To: ins.From})
	}
	return nil
}
