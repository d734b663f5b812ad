package transfer

import (
	"context"
	"errors"
	"fmt"
)

var ErrUnknownAsset = errors.New("transfer: unknown asset type")

// Transferer atomically moves an amount of one asset between two accounts.
// The native settlement asset and each wrapped collateral asset register
// their own implementation.
type Transferer interface {
	Transfer(ctx context.Context, amount uint64, from, to string) error
}

// Instruction is one leg of a transfer plan.
type Instruction struct {
	Asset  string
	Amount uint64
	From   string
	To     string
}

// Service is what the lifecycle engines depend on.
type Service interface {
	Dispatch(ctx context.Context, asset string, amount uint64, from, to string) error
	Execute(ctx context.Context, plan []Instruction) error
	Reverse(ctx context.Context, plan []Instruction) error
}

// Dispatcher routes transfers to the transferer registered for the asset
// type. Unknown asset types are rejected before any transfer is attempted.
type Dispatcher struct {
	routes map[string]Transferer
}

var _ Service = (*Dispatcher)(nil)

func NewDispatcher() *Dispatcher {
	return &Dispatcher{routes: make(map[string]Transferer)}
}

// Register binds an asset type to its transfer mechanism. Registration
// happens once at startup; the dispatcher is read-only afterwards.
func (d *Dispatcher) Register(asset string, t Transferer) {
	d.routes[asset] = t
}

func (d *Dispatcher) route(asset string) (Transferer, error) {
	t, ok := d.routes[asset]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAsset, asset)
	}
	return t, nil
}

func (d *Dispatcher) Dispatch(ctx context.Context, asset string, amount uint64, from, to string) error {
	t, err := d.route(asset)
	if err != nil {
		return err
	}
	return t.Transfer(ctx, amount, from, to)
}

// Execute runs the plan in order. All asset routes are resolved up front so
// an unknown asset fails before any leg moves funds. If a leg fails, the
// already-completed legs are reversed before the error is returned, making
// the plan all-or-nothing.
func (d *Dispatcher) Execute(ctx context.Context, plan []Instruction) error {
	for _, ins := range plan {
		if _, err := d.route(ins.Asset); err != nil {
			return err
		}
	}
	for i, ins := range plan {
		t, _ := d.route(ins.Asset)
		if err := t.Transfer(ctx, ins.Amount, ins.From, ins.To); err != nil {
			if rerr := d.Reverse(ctx, plan[:i]); rerr != nil {
				return fmt.Errorf("leg %d failed: %w (reversal also failed: %v)", i, err, rerr)
			}
			return fmt.Errorf("leg %d failed: %w", i, err)
		}
	}
	return nil
}

// Reverse undoes completed legs in reverse order (to -> from). Used both by
// Execute and by callers whose state commit failed after the plan ran.
func (d *Dispatcher) Reverse(ctx context.Context, plan []Instruction) error {
	for i := len(plan) - 1; i >= 0; i-- {
		ins := plan[i]
		t, err := d.route(ins.Asset)
		if err != nil {
			return err
		}
		if err := t.Transfer(ctx, ins.Amount, ins.To, ins.From); err != nil {
			return fmt.Errorf("reverse leg %d: %w", i, err)
		}
	}
	return nil
}
