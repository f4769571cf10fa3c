package infra

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleConfig = `
app:
  name: "batch-auction"
  version: "0.1.0"
engine:
  min_deposit: "0.01"
  slash_rate_bps: 5000
  commit_window_sec: 60
  reveal_window_sec: 120
gateway:
  enabled: true
  listen_addr: "localhost:8787"
logging:
  level: "info"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Engine.SlashRateBps != 5000 {
		t.Errorf("slash rate = %d, want 5000", cfg.Engine.SlashRateBps)
	}
	if cfg.Engine.MinDeposit.String() != "0.01" {
		t.Errorf("min deposit = %s, want 0.01", cfg.Engine.MinDeposit)
	}
	if cfg.Engine.CommitWindowSec != 60 {
		t.Errorf("commit window = %d, want 60", cfg.Engine.CommitWindowSec)
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("AUCTION_DB_PATH", "/tmp/override.db")

	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Storage.Path != "/tmp/override.db" {
		t.Errorf("storage path = %s, want override", cfg.Storage.Path)
	}
}

func TestConfig_Validate(t *testing.T) {
	cases := map[string]string{
		"negative min deposit": `
engine: {min_deposit: "-1", slash_rate_bps: 5000, commit_window_sec: 60, reveal_window_sec: 120}
`,
		"slash rate above 10000": `
engine: {min_deposit: "0.01", slash_rate_bps: 10001, commit_window_sec: 60, reveal_window_sec: 120}
`,
		"zero commit window": `
engine: {min_deposit: "0.01", slash_rate_bps: 5000, commit_window_sec: 0, reveal_window_sec: 120}
`,
		"bad gateway addr": `
engine: {min_deposit: "0.01", slash_rate_bps: 5000, commit_window_sec: 60, reveal_window_sec: 120}
gateway: {enabled: true, listen_addr: "nocolon"}
`,
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, content)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
