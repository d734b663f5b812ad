package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort  string
	LogLevel string

	// "mysql" or "sqlite"
	DBDriver string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	SQLitePath string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	ChainRPCURL   string
	ChainRPCToken string

	// CustodyAccount holds locked collateral and deposited balances.
	CustodyAccount string
	// SettlementAsset moves principal, repayments and ledger balances.
	SettlementAsset string

	// "name:value,..." strings parsed by the tier package at startup.
	RateTiers       string
	CollateralTiers string

	// Comma list of collateral tier names whose transfers go through the
	// node's wrapped-asset RPC method instead of the native one.
	WrappedAssets string

	// Malformed numeric env values, reported by Validate.
	parseErrs []error
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func Load() *Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	c := &Config{
		AppPort:  getenv("APP_PORT", "8080"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		DBDriver:  getenv("DB_DRIVER", "sqlite"),
		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "loanledger"),
		MySQLUser: getenv("MYSQL_USER", "loanledger"),
		MySQLPass: getenv("MYSQL_PASS", "loanledger"),

		SQLitePath: getenv("SQLITE_PATH", "loanledger.db"),

		RedisAddr:    getenv("REDIS_ADDR", "redis:6379"),
		IdempTTLSecs: 300,

		ChainRPCURL:   getenv("CHAIN_RPC_URL", "http://localhost:8645"),
		ChainRPCToken: os.Getenv("CHAIN_RPC_TOKEN"),

		CustodyAccount:  getenv("CUSTODY_ACCOUNT", "00000000000000000000000000000001"),
		SettlementAsset: getenv("SETTLEMENT_ASSET", "native"),

		RateTiers:       getenv("RATE_TIERS", "standard:10,gold:8,platinum:5"),
		CollateralTiers: getenv("COLLATERAL_TIERS", "native:100,wbtc:150,wsteth:130"),

		WrappedAssets: getenv("WRAPPED_ASSETS", "wbtc,wsteth"),
	}
	c.RedisDB = c.intenv("REDIS_DB", c.RedisDB)
	c.IdempTTLSecs = c.intenv("IDEMPOTENCY_TTL_SECONDS", c.IdempTTLSecs)
	return c
}

// intenv parses an integer env value; a malformed value keeps the default
// and is rejected by Validate rather than silently ignored.
func (c *Config) intenv(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		c.parseErrs = append(c.parseErrs, fmt.Errorf("invalid %s %q: %w", k, v, err))
		return d
	}
	return n
}

// WrappedAssetList splits WRAPPED_ASSETS into tier names, dropping blanks.
func (c *Config) WrappedAssetList() []string {
	var out []string
	for _, name := range strings.Split(c.WrappedAssets, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func (c *Config) Validate() error {
	if len(c.parseErrs) > 0 {
		return errors.Join(c.parseErrs...)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.RedisDB < 0 {
		return fmt.Errorf("REDIS_DB must be >= 0, got %d", c.RedisDB)
	}
	if c.IdempTTLSecs <= 0 {
		return fmt.Errorf("IDEMPOTENCY_TTL_SECONDS must be > 0, got %d", c.IdempTTLSecs)
	}
	switch c.DBDriver {
	case "mysql":
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.ChainRPCURL == "" {
		return errors.New("missing CHAIN_RPC_URL")
	}
	if len(c.CustodyAccount) != 32 {
		return fmt.Errorf("CUSTODY_ACCOUNT must be a 32-char account id, got %q", c.CustodyAccount)
	}
	if c.SettlementAsset == "" {
		return errors.New("missing SETTLEMENT_ASSET")
	}
	if c.RateTiers == "" || c.CollateralTiers == "" {
		return errors.New("missing RATE_TIERS / COLLATERAL_TIERS")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
