package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadAppliesDefaultsForOmittedFields(t *testing.T) {
	path := writeTempConfig(t, `
[server]
name = "my-shmup"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Name != "my-shmup" {
		t.Fatalf("Server.Name = %q, want %q", cfg.Server.Name, "my-shmup")
	}
	if cfg.Network.TCPPort != 4242 {
		t.Fatalf("Network.TCPPort = %d, want default 4242", cfg.Network.TCPPort)
	}
	if cfg.Game.Difficulty != 1 {
		t.Fatalf("Game.Difficulty = %d, want default 1", cfg.Game.Difficulty)
	}
	if cfg.Database.DSN != "" {
		t.Fatalf("Database.DSN should default to empty (persistence disabled), got %q", cfg.Database.DSN)
	}
	if cfg.Server.StartTime == 0 {
		t.Fatalf("Load should stamp Server.StartTime")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeTempConfig(t, `
[network]
tcp_port = 9000
udp_port = 9001

[game]
difficulty = 3
wave_script = "waves/custom.lua"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Network.TCPPort != 9000 || cfg.Network.UDPPort != 9001 {
		t.Fatalf("ports not overridden: %+v", cfg.Network)
	}
	if cfg.Game.Difficulty != 3 || cfg.Game.WaveScript != "waves/custom.lua" {
		t.Fatalf("game config not overridden: %+v", cfg.Game)
	}
}

func TestLoadRejectsOutOfRangeDifficulty(t *testing.T) {
	path := writeTempConfig(t, `
[game]
difficulty = 9
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("Load should reject a difficulty outside 1..5")
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml")); err == nil {
		t.Fatalf("Load should error on a missing config file")
	}
}
