package chain

import "context"

// TickSource reports the chain's monotonically increasing progress counter.
// Loan start and maturity are stamped from it; callers never supply ticks.
type TickSource interface {
	CurrentTick(ctx context.Context) (uint64, error)
}
