package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	balanceDomain "loanledger/internal/domain/balance"
	loanDomain "loanledger/internal/domain/loan"
	"loanledger/internal/transfer"
)

// writeDomainError maps the domain error taxonomy onto HTTP status codes.
func writeDomainError(c echo.Context, err error) error {
	var code int
	switch {
	case errors.Is(err, loanDomain.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, loanDomain.ErrUnauthorized):
		code = http.StatusForbidden
	case errors.Is(err, loanDomain.ErrInvalidAmount),
		errors.Is(err, loanDomain.ErrUnknownTier),
		errors.Is(err, loanDomain.ErrInsufficientCollateral),
		errors.Is(err, loanDomain.ErrRateNotLower),
		errors.Is(err, balanceDomain.ErrInvalidAmount),
		errors.Is(err, transfer.ErrUnknownAsset):
		code = http.StatusBadRequest
	case errors.Is(err, loanDomain.ErrInvalidState),
		errors.Is(err, loanDomain.ErrMaturityNotReached),
		errors.Is(err, loanDomain.ErrLoanMatured),
		errors.Is(err, loanDomain.ErrRepaymentExceedsTotal):
		code = http.StatusConflict
	case errors.Is(err, balanceDomain.ErrInsufficientBalance),
		errors.Is(err, balanceDomain.ErrBalanceOverflow):
		code = http.StatusUnprocessableEntity
	default:
		// transfer-service or storage failure: nothing was committed
		code = http.StatusBadGateway
	}
	return c.JSON(code, ErrorResponse{Error: err.Error()})
}

func parseLoanID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("loan_id"), 10, 64)
}
