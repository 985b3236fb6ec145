package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/andy6609/terminal-chat/internal/logging"
)

const (
	DefaultPort     = 8888
	DefaultNickname = "Host"
)

// Config holds the server/client settings. Keys absent from a YAML file keep
// the defaults from Default.
type Config struct {
	Nickname    string `yaml:"nickname"`
	BindIP      string `yaml:"bind_ip"` // empty binds all interfaces
	Port        int    `yaml:"port"`
	MetricsAddr string `yaml:"metrics_addr"` // empty disables /metrics
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
}

func Default() Config {
	return Config{
		Nickname:  DefaultNickname,
		Port:      DefaultPort,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path) //nolint:gosec // path from operator flag
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if err := logging.Validate(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}

// ListenAddr returns the host:port the server binds.
func (c Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.BindIP, c.Port)
}
