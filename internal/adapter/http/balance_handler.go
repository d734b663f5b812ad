package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"loanledger/internal/adapter/middleware"
	"loanledger/internal/usecase/balance"
)

type BalanceHandler struct{ uc *balance.Usecase }

func NewBalanceHandler(uc *balance.Usecase) *BalanceHandler { return &BalanceHandler{uc: uc} }

type amountReq struct {
	Amount uint64 `json:"amount" validate:"required,gt=0"`
}

func (h *BalanceHandler) Deposit(c echo.Context) error {
	var req amountReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	caller := middleware.CallerID(c)
	credited, err := h.uc.Deposit(c.Request().Context(), caller, req.Amount)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"account": caller, "credited": credited})
}

func (h *BalanceHandler) Withdraw(c echo.Context) error {
	var req amountReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	caller := middleware.CallerID(c)
	if err := h.uc.Withdraw(c.Request().Context(), caller, req.Amount); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"account": caller, "withdrawn": req.Amount})
}

func (h *BalanceHandler) GetBalance(c echo.Context) error {
	account := c.Param("account")
	if !reHex32.MatchString(account) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid account id"})
	}
	amount, err := h.uc.Get(c.Request().Context(), account)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"account": account, "balance": amount})
}
