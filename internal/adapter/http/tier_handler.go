package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"loanledger/internal/tier"
)

// TierHandler serves the read-only tier accessors. Unknown tiers read as 0
// here; lifecycle operations reject them instead.
type TierHandler struct {
	rates      tier.Table
	collateral tier.Table
}

func NewTierHandler(rates, collateral tier.Table) *TierHandler {
	return &TierHandler{rates: rates, collateral: collateral}
}

func (h *TierHandler) GetRate(c echo.Context) error {
	name := c.Param("tier")
	return c.JSON(http.StatusOK, map[string]any{"tier": name, "rate": h.rates.Param(name)})
}

func (h *TierHandler) GetCollateralRatio(c echo.Context) error {
	name := c.Param("tier")
	return c.JSON(http.StatusOK, map[string]any{"tier": name, "collateral_ratio": h.collateral.Param(name)})
}
