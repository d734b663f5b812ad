package loan

import (
	"time"
)

type Status string

const (
	StatusOpen      Status = "open"
	StatusActive    Status = "active"
	StatusRepaid    Status = "repaid"
	StatusDefaulted Status = "defaulted"
)

// Terminal reports whether no further lifecycle operation is legal.
func (s Status) Terminal() bool {
	return s == StatusRepaid || s == StatusDefaulted
}

// Loan rows are never deleted; the auto-increment primary key doubles as the
// public loan id (sequential from 1, never reused).
type Loan struct {
	ID               uint64    `gorm:"primaryKey;column:id" json:"id"`
	Borrower         string    `gorm:"size:32;index:idx_loans_borrower" json:"borrower"`
	Lender           *string   `gorm:"size:32" json:"lender,omitempty"`
	Principal        uint64    `json:"principal"`
	CollateralType   string    `gorm:"size:32" json:"collateral_type"`
	CollateralAmount uint64    `json:"collateral_amount"`
	AnnualRate       uint64    `json:"annual_rate"`
	DurationTicks    uint64    `json:"duration_ticks"`
	StartTick        *uint64   `json:"start_tick,omitempty"`
	RepaidAmount     uint64    `json:"repaid_amount"`
	Status           Status    `gorm:"type:varchar(16);default:'open';index" json:"status"`
	StatusUpdatedAt  time.Time `gorm:"autoCreateTime" json:"status_updated_at"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string { return "loans" }

// Maturity is only meaningful once the loan has been funded.
func (l *Loan) Maturity() (uint64, bool) {
	if l.StartTick == nil {
		return 0, false
	}
	return *l.StartTick + l.DurationTicks, true
}
