package balancemock

import (
	"context"

	domain "loanledger/internal/domain/balance"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn                func(ctx context.Context, b *domain.Balance) error
	GetByAccountFn          func(ctx context.Context, account string) (*domain.Balance, error)
	GetByAccountForUpdateFn func(ctx context.Context, account string) (*domain.Balance, error)
	SaveFn                  func(ctx context.Context, b *domain.Balance) error
}

var _ domain.Repository = (*Repo)(nil)

func (m *Repo) Create(ctx context.Context, b *domain.Balance) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, b)
	}
	return nil
}

func (m *Repo) GetByAccount(ctx context.Context, account string) (*domain.Balance, error) {
	if m.GetByAccountFn != nil {
		return m.GetByAccountFn(ctx, account)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByAccountForUpdate(ctx context.Context, account string) (*domain.Balance, error) {
	if m.GetByAccountForUpdateFn != nil {
		return m.GetByAccountForUpdateFn(ctx, account)
	}
	return nil, context.Canceled
}

func (m *Repo) Save(ctx context.Context, b *domain.Balance) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, b)
	}
	return nil
}
