package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"loanledger/internal/adapter/middleware"
	"loanledger/internal/usecase/loan"
)

type LoanHandler struct{ eng *loan.Engine }

func NewLoanHandler(eng *loan.Engine) *LoanHandler { return &LoanHandler{eng: eng} }

type createLoanReq struct {
	Principal        uint64 `json:"principal" validate:"required,gt=0"`
	CollateralType   string `json:"collateral_type" validate:"required,tiername"`
	CollateralAmount uint64 `json:"collateral_amount" validate:"required,gt=0"`
	RateTier         string `json:"rate_tier" validate:"required,tiername"`
	DurationTicks    uint64 `json:"duration_ticks" validate:"required,gt=0"`
}

type repayReq struct {
	Amount uint64 `json:"amount" validate:"required,gt=0"`
}

type refinanceReq struct {
	RateTier      string `json:"rate_tier" validate:"required,tiername"`
	DurationTicks uint64 `json:"duration_ticks" validate:"required,gt=0"`
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req createLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}

	id, err := h.eng.Create(c.Request().Context(), middleware.CallerID(c), loan.CreateLoanInput{
		Principal:        req.Principal,
		CollateralType:   req.CollateralType,
		CollateralAmount: req.CollateralAmount,
		RateTier:         req.RateTier,
		DurationTicks:    req.DurationTicks,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"loan_id": id})
}

func (h *LoanHandler) FundLoan(c echo.Context) error {
	id, err := parseLoanID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan id"})
	}
	if err := h.eng.Fund(c.Request().Context(), middleware.CallerID(c), id); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"loan_id": id, "status": "active"})
}

func (h *LoanHandler) RepayLoan(c echo.Context) error {
	id, err := parseLoanID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan id"})
	}
	var req repayReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	if err := h.eng.Repay(c.Request().Context(), middleware.CallerID(c), id, req.Amount); err != nil {
		return writeDomainError(c, err)
	}
	dto, err := h.eng.Get(c.Request().Context(), id)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) LiquidateLoan(c echo.Context) error {
	id, err := parseLoanID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan id"})
	}
	if err := h.eng.Liquidate(c.Request().Context(), middleware.CallerID(c), id); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"loan_id": id, "status": "defaulted"})
}

func (h *LoanHandler) RefinanceLoan(c echo.Context) error {
	id, err := parseLoanID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan id"})
	}
	var req refinanceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	if err := h.eng.Refinance(c.Request().Context(), middleware.CallerID(c), id, loan.RefinanceInput{
		RateTier:      req.RateTier,
		DurationTicks: req.DurationTicks,
	}); err != nil {
		return writeDomainError(c, err)
	}
	dto, err := h.eng.Get(c.Request().Context(), id)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	id, err := parseLoanID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan id"})
	}
	dto, err := h.eng.Get(c.Request().Context(), id)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) GetTotalRepayment(c echo.Context) error {
	id, err := parseLoanID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan id"})
	}
	total, err := h.eng.TotalRepayment(c.Request().Context(), id)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"loan_id": id, "total_repayment": total})
}
