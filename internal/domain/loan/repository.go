package loan

import "context"

type Repository interface {
	// Create inserts the loan and assigns its sequential id; id assignment
	// is atomic with insertion (auto-increment key).
	Create(ctx context.Context, l *Loan) error
	GetByID(ctx context.Context, id uint64) (*Loan, error)
	// GetByIDForUpdate locks the row for the rest of the surrounding
	// transaction, serializing operations on the same loan.
	GetByIDForUpdate(ctx context.Context, id uint64) (*Loan, error)
	Save(ctx context.Context, l *Loan) error
}
