package gormrepo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	balanceDomain "loanledger/internal/domain/balance"
)

type BalanceRepository struct{ db *gorm.DB }

func NewBalanceRepository(db *gorm.DB) *BalanceRepository { return &BalanceRepository{db: db} }

func (r *BalanceRepository) Create(ctx context.Context, b *balanceDomain.Balance) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BalanceRepository) Save(ctx context.Context, b *balanceDomain.Balance) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *BalanceRepository) GetByAccount(ctx context.Context, account string) (*balanceDomain.Balance, error) {
	var out balanceDomain.Balance
	res := r.db.WithContext(ctx).Where("account = ?", account).First(&out)
	return &out, res.Error
}

func (r *BalanceRepository) GetByAccountForUpdate(ctx context.Context, account string) (*balanceDomain.Balance, error) {
	var out balanceDomain.Balance
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("account = ?", account).
		First(&out)
	return &out, res.Error
}
