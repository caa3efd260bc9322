package config

import (
	"testing"
	"time"
)

func TestParseHelpers(t *testing.T) {
	if got := parseInt("250", 100); got != 250 {
		t.Fatalf("parseInt(250) = %d", got)
	}
	if got := parseInt("junk", 100); got != 100 {
		t.Fatalf("parseInt fallback = %d", got)
	}
	if got := parseDuration("90s", time.Hour); got != 90*time.Second {
		t.Fatalf("parseDuration(90s) = %v", got)
	}
	if got := parseDuration("", time.Hour); got != time.Hour {
		t.Fatalf("parseDuration fallback = %v", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	// Pin to empty so host environment variables cannot leak in.
	for _, key := range []string{
		"EXPIRE_BATCH_SIZE", "EXPIRE_INTERVAL", "NOTIFY_DRIVER",
		"AUDIT_RETENTION_DAYS", "LOG_RETENTION_DAYS",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.ExpireBatchSize != 100 {
		t.Fatalf("ExpireBatchSize = %d", cfg.ExpireBatchSize)
	}
	if cfg.ExpireInterval != 24*time.Hour {
		t.Fatalf("ExpireInterval = %v", cfg.ExpireInterval)
	}
	if cfg.NotifyDriver != "amqp" {
		t.Fatalf("NotifyDriver = %q", cfg.NotifyDriver)
	}
	if cfg.AuditRetentionDays != 365 || cfg.LogRetentionDays != 30 {
		t.Fatalf("retention defaults = %d/%d", cfg.AuditRetentionDays, cfg.LogRetentionDays)
	}
}

func TestDSN(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_USER", "kervan")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "kervan_db")
	t.Setenv("DB_SSLMODE", "require")

	want := "host=db.internal user=kervan password=secret dbname=kervan_db port=5433 sslmode=require TimeZone=UTC"
	if got := Load().DSN(); got != want {
		t.Fatalf("DSN = %q, want %q", got, want)
	}
}
