package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var ErrMissingToken = errors.New("bot token is required (set DISCORD_TOKEN or TOKEN)")

type Config struct {
	Bot     BotConfig     `json:"bot"`
	Logging LoggingConfig `json:"logging"`
	Runtime RuntimeConfig `json:"runtime"`
	Network NetworkConfig `json:"network"`
}

type BotConfig struct {
	Token  string `json:"token"`
	Prefix string `json:"prefix"`
	// MessageCacheSize is discordgo's per-channel state cache; without it
	// deletes and edits arrive with no prior content.
	MessageCacheSize int `json:"message_cache_size"`
}

type LoggingConfig struct {
	Level     string `json:"level"`
	Format    string `json:"format"`
	File      string `json:"file"`
	MaxSizeMB int    `json:"max_size_mb"`
}

type RuntimeConfig struct {
	QueueSize       int `json:"queue_size"`
	StatsIntervalS  int `json:"stats_interval_s"`
	ShutdownTimeout int `json:"shutdown_timeout_s"`
	// StallThresholdS is how long the consumer may sit on one event while
	// others wait before the watchdog reports it.
	StallThresholdS int `json:"stall_threshold_s"`
}

type NetworkConfig struct {
	HTTPPoolSize       int `json:"http_pool_size"`
	ReadTimeoutMS      int `json:"read_timeout_ms"`
	WriteTimeoutMS     int `json:"write_timeout_ms"`
	MaxAttachmentBytes int `json:"max_attachment_bytes"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cfg.ApplyEnv()
	return cfg, nil
}

// LoadOrDefault falls back to defaults (with environment applied) when the
// file is missing or unreadable. The load error is returned for logging.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		cfg = DefaultConfig()
		cfg.ApplyEnv()
		return cfg, err
	}
	return cfg, nil
}

// LoadEnvFile reads KEY=VALUE pairs into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides file values with environment variables if present
func (c *Config) ApplyEnv() {
	if token := os.Getenv("DISCORD_TOKEN"); token != "" {
		c.Bot.Token = token
	} else if token := os.Getenv("TOKEN"); token != "" {
		c.Bot.Token = token
	}
	if prefix := os.Getenv("COMMAND_PREFIX"); prefix != "" {
		c.Bot.Prefix = prefix
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if file, ok := os.LookupEnv("LOG_FILE"); ok {
		c.Logging.File = file
	}
	if size, err := strconv.Atoi(os.Getenv("MESSAGE_CACHE_SIZE")); err == nil && size >= 0 {
		c.Bot.MessageCacheSize = size
	}
}

func (c *Config) Validate() error {
	if c.Bot.Token == "" {
		return ErrMissingToken
	}
	if c.Bot.Prefix == "" {
		return errors.New("bot prefix must not be empty")
	}
	if c.Runtime.QueueSize <= 0 {
		return fmt.Errorf("runtime queue_size must be positive, got %d", c.Runtime.QueueSize)
	}
	if c.Network.HTTPPoolSize <= 0 {
		return fmt.Errorf("network http_pool_size must be positive, got %d", c.Network.HTTPPoolSize)
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		Bot: BotConfig{
			Prefix:           "~ ",
			MessageCacheSize: 200,
		},
		Logging: LoggingConfig{
			Level:     "info",
			Format:    "text",
			File:      "yob.log",
			MaxSizeMB: 50,
		},
		Runtime: RuntimeConfig{
			QueueSize:       1024,
			StatsIntervalS:  300,
			ShutdownTimeout: 10,
			StallThresholdS: 60,
		},
		Network: NetworkConfig{
			HTTPPoolSize:       4,
			ReadTimeoutMS:      10000,
			WriteTimeoutMS:     5000,
			MaxAttachmentBytes: 25 * 1024 * 1024,
		},
	}
}
