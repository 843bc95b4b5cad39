package client

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the complete client configuration.
type Config struct {
	Server ServerConfig `hcl:"server,block"`
	Player PlayerConfig `hcl:"player,block"`
	UI     UIConfig     `hcl:"ui,block"`
}

// ServerConfig contains connection settings.
type ServerConfig struct {
	URL            string `hcl:"url"`
	ConnectTimeout int    `hcl:"connect_timeout,optional"`
	PingInterval   int    `hcl:"ping_interval,optional"`
}

// PlayerConfig carries the resolved identity. Login/token exchange
// happens elsewhere; the engine only ever sees the result.
type PlayerConfig struct {
	ID           int    `hcl:"id,optional"`
	Username     string `hcl:"username,optional"`
	Bankroll     int    `hcl:"bankroll,optional"`
	DefaultBuyIn int    `hcl:"default_buy_in,optional"`
}

// UIConfig contains presentation settings.
type UIConfig struct {
	LogLevel string `hcl:"log_level,optional"`
	LogFile  string `hcl:"log_file,optional"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			URL:            "ws://localhost:3000/ws",
			ConnectTimeout: 10,
			PingInterval:   30,
		},
		Player: PlayerConfig{
			Bankroll:     1000,
			DefaultBuyIn: 100,
		},
		UI: UIConfig{
			LogLevel: "warn",
			LogFile:  "lobby-client.log",
		},
	}
}

// LoadConfig loads configuration from an HCL file, falling back to
// defaults for a missing file and for any unset values.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	defaults := DefaultConfig()

	if config.Server.URL == "" {
		config.Server.URL = defaults.Server.URL
	}
	if config.Server.ConnectTimeout == 0 {
		config.Server.ConnectTimeout = defaults.Server.ConnectTimeout
	}
	if config.Server.PingInterval == 0 {
		config.Server.PingInterval = defaults.Server.PingInterval
	}
	if config.Player.Bankroll == 0 {
		config.Player.Bankroll = defaults.Player.Bankroll
	}
	if config.Player.DefaultBuyIn == 0 {
		config.Player.DefaultBuyIn = defaults.Player.DefaultBuyIn
	}
	if config.UI.LogLevel == "" {
		config.UI.LogLevel = defaults.UI.LogLevel
	}
	if config.UI.LogFile == "" {
		config.UI.LogFile = defaults.UI.LogFile
	}

	return &config, nil
}
