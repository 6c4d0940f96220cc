package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.HTTP.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr() = %s", cfg.HTTP.Addr())
	}
	if cfg.Wallet.PIN != "1111" {
		t.Errorf("default PIN = %q", cfg.Wallet.PIN)
	}
	if cfg.Session.TTLSeconds != 3600 {
		t.Errorf("session TTL = %d", cfg.Session.TTLSeconds)
	}
	if cfg.Wallet.RecordDailyCloses {
		t.Error("daily close recording should default off")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_HOST", "127.0.0.1")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("WALLET_PIN", "4321")
	t.Setenv("SQLITE_PATH", "/tmp/history.db")
	t.Setenv("RECORD_DAILY_CLOSES", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.HTTP.Addr() != "127.0.0.1:9090" {
		t.Errorf("Addr() = %s", cfg.HTTP.Addr())
	}
	if cfg.Wallet.PIN != "4321" {
		t.Errorf("PIN = %q", cfg.Wallet.PIN)
	}
	if cfg.SQLite.Path != "/tmp/history.db" {
		t.Errorf("sqlite path = %q", cfg.SQLite.Path)
	}
	if !cfg.Wallet.RecordDailyCloses {
		t.Error("RECORD_DAILY_CLOSES=true not applied")
	}
}

func TestLoadRejectsBadInts(t *testing.T) {
	t.Setenv("HTTP_PORT", "not-a-port")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed HTTP_PORT")
	}
}
