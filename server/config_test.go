package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseJSONConfigSuccessServer(t *testing.T) {
	path := writeTempServerConfig(t, `{"listen":":29900","target":"127.0.0.1:12948","key":"secret","wnd":32768,"tcp":true,"closewait":5}`)

	var cfg Config
	if err := parseJSONConfig(&cfg, path); err != nil {
		t.Fatalf("parseJSONConfig returned error: %v", err)
	}

	if cfg.Listen != ":29900" || cfg.Target != "127.0.0.1:12948" {
		t.Fatalf("unexpected addresses: %+v", cfg)
	}

	if cfg.Key != "secret" || cfg.Wnd != 32768 || !cfg.TCP || cfg.CloseWait != 5 {
		t.Fatalf("unexpected field values: %+v", cfg)
	}
}

func TestParseJSONConfigMissingFileServer(t *testing.T) {
	var cfg Config
	missing := filepath.Join(t.TempDir(), "missing.json")
	if err := parseJSONConfig(&cfg, missing); err == nil {
		t.Fatalf("parseJSONConfig expected error for missing file")
	}
}

func writeTempServerConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}
