package config

import (
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	c := Load()
	if c.AppPort != "8080" {
		t.Fatalf("AppPort=%s", c.AppPort)
	}
	if c.DBDriver != "sqlite" {
		t.Fatalf("DBDriver=%s", c.DBDriver)
	}
	if c.IdempTTLSecs != 300 {
		t.Fatalf("IdempTTLSecs=%d", c.IdempTTLSecs)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("MYSQL_HOST", "db.internal")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("IDEMPOTENCY_TTL_SECONDS", "60")

	c := Load()
	if c.DBDriver != "mysql" || c.MySQLHost != "db.internal" {
		t.Fatalf("mysql overrides not applied: %+v", c)
	}
	if c.RedisDB != 3 || c.IdempTTLSecs != 60 {
		t.Fatalf("redis/idemp overrides not applied: %+v", c)
	}
	if !strings.Contains(c.MySQLDSN(), "@tcp(db.internal:3306)/") {
		t.Fatalf("dsn: %s", c.MySQLDSN())
	}
}

func TestValidate_Rejects(t *testing.T) {
	base := func() *Config { c := Load(); return c }

	c := base()
	c.DBDriver = "postgres"
	if err := c.Validate(); err == nil {
		t.Fatal("unsupported driver accepted")
	}

	c = base()
	c.DBDriver = "mysql"
	c.MySQLPort = "not-a-port"
	if err := c.Validate(); err == nil {
		t.Fatal("bad mysql port accepted")
	}

	c = base()
	c.CustodyAccount = "short"
	if err := c.Validate(); err == nil {
		t.Fatal("bad custody account accepted")
	}

	c = base()
	c.RateTiers = ""
	if err := c.Validate(); err == nil {
		t.Fatal("empty rate tiers accepted")
	}

	c = base()
	c.IdempTTLSecs = 0
	if err := c.Validate(); err == nil {
		t.Fatal("zero idempotency TTL accepted")
	}

	c = base()
	c.RedisDB = -1
	if err := c.Validate(); err == nil {
		t.Fatal("negative redis db accepted")
	}
}

func TestValidate_RejectsMalformedIntEnv(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")

	c := Load()
	if c.RedisDB != 0 {
		t.Fatalf("RedisDB = %d, want default 0 on malformed input", c.RedisDB)
	}
	err := c.Validate()
	if err == nil {
		t.Fatal("malformed REDIS_DB accepted")
	}
	if !strings.Contains(err.Error(), "REDIS_DB") {
		t.Fatalf("error does not name the key: %v", err)
	}
}

func TestValidate_RejectsMalformedTTLEnv(t *testing.T) {
	t.Setenv("IDEMPOTENCY_TTL_SECONDS", "5s")

	c := Load()
	if c.IdempTTLSecs != 300 {
		t.Fatalf("IdempTTLSecs = %d, want default 300 on malformed input", c.IdempTTLSecs)
	}
	if err := c.Validate(); err == nil {
		t.Fatal("malformed IDEMPOTENCY_TTL_SECONDS accepted")
	}
}

func TestWrappedAssetList(t *testing.T) {
	c := Load()
	got := c.WrappedAssetList()
	if len(got) != 2 || got[0] != "wbtc" || got[1] != "wsteth" {
		t.Fatalf("default wrapped assets = %v", got)
	}

	c.WrappedAssets = " wbtc , , wsteth ,"
	got = c.WrappedAssetList()
	if len(got) != 2 || got[0] != "wbtc" || got[1] != "wsteth" {
		t.Fatalf("trimmed wrapped assets = %v", got)
	}

	c.WrappedAssets = ""
	if got = c.WrappedAssetList(); len(got) != 0 {
		t.Fatalf("empty WRAPPED_ASSETS should yield no names, got %v", got)
	}
}
