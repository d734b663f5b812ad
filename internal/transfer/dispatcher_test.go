package transfer

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type move struct {
	amount   uint64
	from, to string
}

// recorder is a Transferer that records moves and can fail on demand.
type recorder struct {
	moves  []move
	failOn func(m move) error
}

func (r *recorder) Transfer(_ context.Context, amount uint64, from, to string) error {
	m := move{amount: amount, from: from, to: to}
	if r.failOn != nil {
		if err := r.failOn(m); err != nil {
			return err
		}
	}
	r.moves = append(r.moves, m)
	return nil
}

func TestDispatch_UnknownAsset(t *testing.T) {
	d := NewDispatcher()
	err := d.Dispatch(context.Background(), "wbtc", 1, "a", "b")
	if !errors.Is(err, ErrUnknownAsset) {
		t.Fatalf("err = %v", err)
	}
}

func TestDispatch_RoutesByAsset(t *testing.T) {
	native := &recorder{}
	wbtc := &recorder{}
	d := NewDispatcher()
	d.Register("native", native)
	d.Register("wbtc", wbtc)

	if err := d.Dispatch(context.Background(), "wbtc", 42, "a", "b"); err != nil {
		t.Fatalf("Dispatch err: %v", err)
	}
	if len(native.moves) != 0 || len(wbtc.moves) != 1 {
		t.Fatalf("native=%v wbtc=%v", native.moves, wbtc.moves)
	}
	if wbtc.moves[0] != (move{42, "a", "b"}) {
		t.Fatalf("move = %+v", wbtc.moves[0])
	}
}

func TestExecute_UnknownAssetMovesNothing(t *testing.T) {
	native := &recorder{}
	d := NewDispatcher()
	d.Register("native", native)

	plan := []Instruction{
		{Asset: "native", Amount: 10, From: "a", To: "b"},
		{Asset: "missing", Amount: 5, From: "b", To: "c"},
	}
	if err := d.Execute(context.Background(), plan); !errors.Is(err, ErrUnknownAsset) {
		t.Fatalf("err = %v", err)
	}
	if len(native.moves) != 0 {
		t.Fatalf("funds moved despite unknown asset: %v", native.moves)
	}
}

func TestExecute_ReversesCompletedLegsOnFailure(t *testing.T) {
	boom := errors.New("insufficient funds")
	native := &recorder{
		failOn: func(m move) error {
			if m.from == "b" && m.to == "c" {
				return boom
			}
			return nil
		},
	}
	d := NewDispatcher()
	d.Register("native", native)

	plan := []Instruction{
		{Asset: "native", Amount: 10, From: "a", To: "custody"},
		{Asset: "native", Amount: 5, From: "b", To: "c"},
	}
	err := d.Execute(context.Background(), plan)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	// first leg executed, then reversed
	want := []move{{10, "a", "custody"}, {10, "custody", "a"}}
	if fmt.Sprint(native.moves) != fmt.Sprint(want) {
		t.Fatalf("moves = %v, want %v", native.moves, want)
	}
}

func TestExecute_AllLegsInOrder(t *testing.T) {
	native := &recorder{}
	wbtc := &recorder{}
	d := NewDispatcher()
	d.Register("native", native)
	d.Register("wbtc", wbtc)

	plan := []Instruction{
		{Asset: "native", Amount: 500273, From: "borrower", To: "lender"},
		{Asset: "wbtc", Amount: 1500000, From: "custody", To: "borrower"},
	}
	if err := d.Execute(context.Background(), plan); err != nil {
		t.Fatalf("Execute err: %v", err)
	}
	if len(native.moves) != 1 || len(wbtc.moves) != 1 {
		t.Fatalf("native=%v wbtc=%v", native.moves, wbtc.moves)
	}
}

func TestReverse_RunsInReverseOrder(t *testing.T) {
	native := &recorder{}
	d := NewDispatcher()
	d.Register("native", native)

	plan := []Instruction{
		{Asset: "native", Amount: 1, From: "a", To: "b"},
		{Asset: "native", Amount: 2, From: "c", To: "d"},
	}
	if err := d.Reverse(context.Background(), plan); err != nil {
		t.Fatalf("Reverse err: %v", err)
	}
	want := []move{{2, "d", "c"}, {1, "b", "a"}}
	if fmt.Sprint(native.moves) != fmt.Sprint(want) {
		t.Fatalf("moves = %v, want %v", native.moves, want)
	}
}
