package config

import (
	"fmt"
	"strings"
	"time"

	"wasel/pkg/logx"
)

// Config is the full process configuration loaded from a YAML file.
//
// All durations are Go duration strings (e.g. "500ms", "10s", "1m").
type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Logging  logx.Config    `yaml:"logging"`
	Storage  StorageConfig  `yaml:"storage"`
	Queue    QueueConfig    `yaml:"queue"`
	Ticker   TickerConfig   `yaml:"ticker"`
	Content  ContentConfig  `yaml:"content"`
}

type TelegramConfig struct {
	Token string `yaml:"token"`
	// PollTimeout is the long-poll timeout. Default "10s".
	PollTimeout string `yaml:"poll_timeout,omitempty"`
}

type StorageConfig struct {
	// Path is the sqlite database file. Required.
	Path string `yaml:"path"`
	// BusyTimeout passed to sqlite. Default "5s".
	BusyTimeout string `yaml:"busy_timeout,omitempty"`
}

// QueueConfig controls the outbound delivery queue.
type QueueConfig struct {
	// Size is the enqueue buffer. Default 512.
	Size int `yaml:"size,omitempty"`
	// RatePerSec caps outbound dispatches per second. Default 1.
	RatePerSec int `yaml:"rate_per_sec,omitempty"`
}

// TickerConfig controls the minute evaluation loop.
type TickerConfig struct {
	Enabled bool `yaml:"enabled"`
}

// ContentConfig controls content sourcing.
type ContentConfig struct {
	// RefillFloor is the cached-hadith count below which the refill worker
	// fetches a new batch. Default 50.
	RefillFloor int `yaml:"refill_floor,omitempty"`
	// RefillEvery is the refill check interval. Default "6h".
	RefillEvery string `yaml:"refill_every,omitempty"`
	// SeedLibrary seeds the content library with the built-in set when the
	// library is empty. Default true (set explicitly in the file).
	SeedLibrary bool `yaml:"seed_library"`
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Telegram.Token) == "" {
		return fmt.Errorf("telegram.token is required")
	}
	if strings.TrimSpace(c.Storage.Path) == "" {
		return fmt.Errorf("storage.path is required")
	}
	if c.Queue.RatePerSec < 0 {
		return fmt.Errorf("queue.rate_per_sec must be >= 0")
	}
	if _, err := ParseDurationField("storage.busy_timeout", c.Storage.BusyTimeout); err != nil {
		return err
	}
	if _, err := ParseDurationField("telegram.poll_timeout", c.Telegram.PollTimeout); err != nil {
		return err
	}
	if _, err := ParseDurationField("content.refill_every", c.Content.RefillEvery); err != nil {
		return err
	}
	return nil
}

func ParseDurationField(path, raw string) (time.Duration, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", path, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: duration must be >= 0", path)
	}
	return d, nil
}

func ParseDurationOrDefault(path, raw string, def time.Duration) (time.Duration, error) {
	d, err := ParseDurationField(path, raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return def, nil
	}
	return d, nil
}
