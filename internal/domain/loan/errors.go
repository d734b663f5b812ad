package loan

import "errors"

var (
	ErrNotFound               = errors.New("loan not found")
	ErrUnauthorized           = errors.New("caller not authorized for this operation")
	ErrInvalidAmount          = errors.New("invalid amount or parameter")
	ErrUnknownTier            = errors.New("unknown tier name")
	ErrInsufficientCollateral = errors.New("collateral does not cover principal")
	ErrInvalidState           = errors.New("operation not allowed in current loan state")
	ErrMaturityNotReached     = errors.New("loan has not reached maturity")
	ErrLoanMatured            = errors.New("loan term has already elapsed")
	ErrRepaymentExceedsTotal  = errors.New("repayment would exceed total due")
	ErrRateNotLower           = errors.New("refinance rate must be strictly lower than current rate")
)
