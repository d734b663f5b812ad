package tickmock

import (
	"context"

	"loanledger/internal/chain"
)

var _ chain.TickSource = (*Source)(nil)

// Source is a settable tick source for tests.
type Source struct {
	Tick uint64
	Err  error
}

func (s *Source) CurrentTick(context.Context) (uint64, error) {
	return s.Tick, s.Err
}
