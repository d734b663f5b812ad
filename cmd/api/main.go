package main

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	httpadp "loanledger/internal/adapter/http"
	"loanledger/internal/adapter/middleware"
	"loanledger/internal/adapter/repository/gormrepo"
	"loanledger/internal/chain"
	"loanledger/internal/config"
	domainBalance "loanledger/internal/domain/balance"
	domainLoan "loanledger/internal/domain/loan"
	"loanledger/internal/infrastructure/cache"
	"loanledger/internal/infrastructure/db"
	"loanledger/internal/tier"
	"loanledger/internal/transfer"
	ucBalance "loanledger/internal/usecase/balance"
	ucLoan "loanledger/internal/usecase/loan"
	"loanledger/pkg/logger"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zlog.Sync()

	rates, err := tier.Parse(cfg.RateTiers)
	if err != nil {
		zlog.Fatal("parse RATE_TIERS", zap.Error(err))
	}
	collateral, err := tier.Parse(cfg.CollateralTiers)
	if err != nil {
		zlog.Fatal("parse COLLATERAL_TIERS", zap.Error(err))
	}

	dsn := cfg.SQLitePath
	if cfg.DBDriver == "mysql" {
		dsn = cfg.MySQLDSN()
	}
	gdb, err := db.OpenGorm(cfg.DBDriver, dsn)
	if err != nil {
		zlog.Fatal("open db", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	if cfg.DBDriver == "sqlite" {
		// local/dev mode; mysql schemas are managed by migrations
		if err := gdb.AutoMigrate(&domainLoan.Loan{}, &domainBalance.Balance{}); err != nil {
			zlog.Fatal("automigrate", zap.Error(err))
		}
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		zlog.Fatal("open redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}

	node, err := chain.NewClient(chain.Config{
		BaseURL:     cfg.ChainRPCURL,
		BearerToken: cfg.ChainRPCToken,
	}, zlog)
	if err != nil {
		zlog.Fatal("chain client", zap.Error(err))
	}

	// Every asset the ledger can move gets a route: the settlement asset for
	// principal/repayments/balances, each collateral tier for escrow. Tiers
	// named in WRAPPED_ASSETS go through the wrapped-asset RPC method.
	wrapped := map[string]bool{}
	for _, name := range cfg.WrappedAssetList() {
		if _, ok := collateral.Lookup(name); !ok {
			zlog.Fatal("WRAPPED_ASSETS names an unknown collateral tier", zap.String("tier", name))
		}
		wrapped[name] = true
	}
	dispatcher := transfer.NewDispatcher()
	dispatcher.Register(cfg.SettlementAsset, node.Asset(cfg.SettlementAsset))
	for _, name := range collateral.Names() {
		if wrapped[name] {
			dispatcher.Register(name, node.WrappedAsset(name))
		} else {
			dispatcher.Register(name, node.Asset(name))
		}
	}

	loanRepo := gormrepo.NewLoanRepository(gdb)
	balanceRepo := gormrepo.NewBalanceRepository(gdb)
	unit := gormrepo.NewGormUoW(gdb)

	loanEngine := ucLoan.NewEngine(ucLoan.Params{
		Repo:            loanRepo,
		UoW:             unit,
		Rates:           rates,
		Collateral:      collateral,
		Transfers:       dispatcher,
		Ticks:           node,
		CustodyAccount:  cfg.CustodyAccount,
		SettlementAsset: cfg.SettlementAsset,
	})
	balanceUC := ucBalance.NewUsecase(balanceRepo, unit, dispatcher, cfg.CustodyAccount, cfg.SettlementAsset)

	h := httpadp.NewHandler()
	loanH := httpadp.NewLoanHandler(loanEngine)
	balanceH := httpadp.NewBalanceHandler(balanceUC)
	tierH := httpadp.NewTierHandler(rates, collateral)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	e.GET("/health", h.Health)
	e.GET("/tiers/rates/:tier", tierH.GetRate)
	e.GET("/tiers/collateral/:tier", tierH.GetCollateralRatio)

	idempTTL := time.Duration(cfg.IdempTTLSecs) * time.Second
	auth := e.Group("", middleware.CallerExtractor(), middleware.Idempotency(rdb, idempTTL, zlog))

	auth.POST("/loans", loanH.CreateLoan)
	auth.GET("/loans/:loan_id", loanH.GetLoan)
	auth.GET("/loans/:loan_id/total-repayment", loanH.GetTotalRepayment)
	auth.POST("/loans/:loan_id/fund", loanH.FundLoan)
	auth.POST("/loans/:loan_id/repay", loanH.RepayLoan)
	auth.POST("/loans/:loan_id/liquidate", loanH.LiquidateLoan)
	auth.POST("/loans/:loan_id/refinance", loanH.RefinanceLoan)

	auth.POST("/balances/deposit", balanceH.Deposit)
	auth.POST("/balances/withdraw", balanceH.Withdraw)
	auth.GET("/balances/:account", balanceH.GetBalance)

	addr := ":" + cfg.AppPort
	zlog.Info("listening", zap.String("addr", addr))
	if err := e.Start(addr); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
