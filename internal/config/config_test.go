package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("CONSOLE_API_BASE_URL", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("NOTIFY_TTL_MS", "")
	t.Setenv("SNOWFLAKE_NODE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.API.BaseURL != DefaultAPIBaseURL {
		t.Fatalf("unexpected base url: %s", cfg.API.BaseURL)
	}
	if cfg.Storage.Driver != "file" {
		t.Fatalf("expected file driver, got %s", cfg.Storage.Driver)
	}
	if cfg.Console.NotifyTTL != 4500*time.Millisecond {
		t.Fatalf("unexpected notify ttl: %s", cfg.Console.NotifyTTL)
	}
	if cfg.Server.AddrOr(":8080") != ":8080" {
		t.Fatalf("expected fallback address, got %s", cfg.Server.AddrOr(":8080"))
	}
	if cfg.Console.SnowflakeNode != 1 {
		t.Fatalf("expected snowflake node 1, got %d", cfg.Console.SnowflakeNode)
	}
}

func TestLoadTrimsBaseURL(t *testing.T) {
	t.Setenv("CONSOLE_API_BASE_URL", "http://localhost:8000/")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:8000" {
		t.Fatalf("expected trailing slash trimmed, got %s", cfg.API.BaseURL)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"CONSOLE_API_BASE_URL": "ftp://example.com",
		"STORAGE_DRIVER":       "etcd",
		"NOTIFY_TTL_MS":        "soon",
		"SNOWFLAKE_NODE":       "2048",
		"PORT":                 "80 80",
		"ARK_TEMPERATURE":      "warm",
		"REDIS_DB":             "zero",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, value)
			}
		})
	}
}

func TestServerAddrAcceptsHostPort(t *testing.T) {
	t.Setenv("PORT", "127.0.0.1:9000")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Fatalf("unexpected addr: %s", cfg.Server.Addr)
	}

	t.Setenv("PORT", "9001")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Addr != ":9001" {
		t.Fatalf("unexpected addr: %s", cfg.Server.Addr)
	}
}

func TestAIConfigEnabled(t *testing.T) {
	if (AIConfig{Model: "m"}).Enabled() {
		t.Fatal("expected disabled without credentials")
	}
	if !(AIConfig{Model: "m", APIKey: "k"}).Enabled() {
		t.Fatal("expected enabled with api key")
	}
	if !(AIConfig{Model: "m", AccessKey: "a", SecretKey: "s"}).Enabled() {
		t.Fatal("expected enabled with AK/SK")
	}
}

func TestStorageOptions(t *testing.T) {
	opts := StorageConfig{Driver: "redis", RedisAddr: "r:6379", RedisDB: 2, RedisPrefix: "p:"}.Options()
	if opts.Driver != "redis" || opts.Redis.Addr != "r:6379" || opts.Redis.DB != 2 || opts.Redis.Prefix != "p:" {
		t.Fatalf("unexpected options: %+v", opts)
	}
}
