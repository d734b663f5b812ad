package loan

import "time"

type CreateLoanInput struct {
	Principal        uint64 `json:"principal"`
	CollateralType   string `json:"collateral_type"`
	CollateralAmount uint64 `json:"collateral_amount"`
	RateTier         string `json:"rate_tier"`
	DurationTicks    uint64 `json:"duration_ticks"`
}

type RefinanceInput struct {
	RateTier      string `json:"rate_tier"`
	DurationTicks uint64 `json:"duration_ticks"`
}

type LoanDTO struct {
	ID               uint64    `json:"id"`
	Borrower         string    `json:"borrower"`
	Lender           *string   `json:"lender,omitempty"`
	Principal        uint64    `json:"principal"`
	CollateralType   string    `json:"collateral_type"`
	CollateralAmount uint64    `json:"collateral_amount"`
	AnnualRate       uint64    `json:"annual_rate"`
	DurationTicks    uint64    `json:"duration_ticks"`
	StartTick        *uint64   `json:"start_tick,omitempty"`
	RepaidAmount     uint64    `json:"repaid_amount"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}
