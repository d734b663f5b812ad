package balance

import "context"

type Repository interface {
	Create(ctx context.Context, b *Balance) error
	GetByAccount(ctx context.Context, account string) (*Balance, error)
	// GetByAccountForUpdate locks the row for the rest of the surrounding
	// transaction, serializing operations on the same account.
	GetByAccountForUpdate(ctx context.Context, account string) (*Balance, error)
	Save(ctx context.Context, b *Balance) error
}
