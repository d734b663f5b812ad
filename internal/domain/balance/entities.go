package balance

import (
	"errors"
	"time"
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInsufficientBalance = errors.New("withdrawal exceeds recorded balance")
	ErrBalanceOverflow     = errors.New("deposit overflows balance range")
)

// Balance is the deposited-funds ledger entry for one account. It is
// independent of loan escrow: loan principal and collateral never touch it.
// Created implicitly on first deposit, never deleted (may reach zero).
type Balance struct {
	Account   string    `gorm:"primaryKey;size:32;column:account" json:"account"`
	Amount    uint64    `json:"amount"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Balance) TableName() string { return "balances" }
