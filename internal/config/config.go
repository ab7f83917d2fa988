package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Network  NetworkConfig  `toml:"network"`
	Database DatabaseConfig `toml:"database"`
	Game     GameConfig     `toml:"game"`
	Logging  LoggingConfig  `toml:"logging"`
}

type ServerConfig struct {
	Name      string `toml:"name"`
	StartTime int64  // set at boot, not from config
}

type NetworkConfig struct {
	BindHost          string        `toml:"bind_host"`
	TCPPort           int           `toml:"tcp_port"`
	UDPPort           int           `toml:"udp_port"`
	TickRate          time.Duration `toml:"tick_rate"`
	InQueueSize       int           `toml:"in_queue_size"`
	OutQueueSize      int           `toml:"out_queue_size"`
	RetransmitMs      int           `toml:"retransmit_ms"`
	MaxRetries        int           `toml:"max_retries"`
	UDPPeerTimeoutSec int           `toml:"udp_peer_timeout_sec"`
}

// DatabaseConfig is optional: an empty DSN disables persistence entirely
// (spec.md §6: "absence is tolerated and disables persistence").
type DatabaseConfig struct {
	DSN             string        `toml:"dsn"`
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
}

type GameConfig struct {
	Difficulty   int    `toml:"difficulty"` // 1..5, default 1
	WaveScript   string `toml:"wave_script"` // optional Lua file; empty uses the built-in campaign
	MaxLobbySize int    `toml:"max_lobby_size"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Game.validate(); err != nil {
		return nil, err
	}
	cfg.Server.StartTime = time.Now().Unix()
	return cfg, nil
}

func (g GameConfig) validate() error {
	if g.Difficulty < 1 || g.Difficulty > 5 {
		return fmt.Errorf("config: game.difficulty must be 1..5, got %d", g.Difficulty)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{Name: "shmup-server"},
		Network: NetworkConfig{
			BindHost:          "0.0.0.0",
			TCPPort:           4242,
			UDPPort:           4243,
			TickRate:          time.Second / 60,
			InQueueSize:       256,
			OutQueueSize:      256,
			RetransmitMs:      100,
			MaxRetries:        15,
			UDPPeerTimeoutSec: 10,
		},
		Database: DatabaseConfig{
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Game: GameConfig{
			Difficulty:   1,
			MaxLobbySize: 4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
