package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const validYAML = `
telegram:
  token: "123:abc"
  poll_timeout: "10s"
logging:
  level: "info"
  console: true
storage:
  path: "/tmp/wasel.db"
  busy_timeout: "5s"
queue:
  size: 128
  rate_per_sec: 2
ticker:
  enabled: true
content:
  refill_floor: 25
  refill_every: "6h"
  seed_library: true
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestManagerLoad(t *testing.T) {
	t.Parallel()

	m := NewManager(writeConfig(t, validYAML))
	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Telegram.Token != "123:abc" {
		t.Fatalf("token = %q", cfg.Telegram.Token)
	}
	if cfg.Queue.Size != 128 || cfg.Queue.RatePerSec != 2 {
		t.Fatalf("queue = %+v", cfg.Queue)
	}
	if !cfg.Ticker.Enabled || !cfg.Content.SeedLibrary {
		t.Fatalf("flags = ticker:%v seed:%v", cfg.Ticker.Enabled, cfg.Content.SeedLibrary)
	}
	if got := m.Get(); got != cfg {
		t.Fatalf("Get returned a different config")
	}
}

func TestManagerRejectsInvalid(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
	}{
		{"missing token", "telegram:\n  token: \"\"\nstorage:\n  path: \"/tmp/x.db\"\n"},
		{"missing storage path", "telegram:\n  token: \"t\"\nstorage:\n  path: \"\"\n"},
		{"negative rate", "telegram:\n  token: \"t\"\nstorage:\n  path: \"/tmp/x.db\"\nqueue:\n  rate_per_sec: -1\n"},
		{"bad duration", "telegram:\n  token: \"t\"\nstorage:\n  path: \"/tmp/x.db\"\n  busy_timeout: \"soon\"\n"},
		{"unknown field", "telegram:\n  token: \"t\"\n  shard: 3\nstorage:\n  path: \"/tmp/x.db\"\n"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			m := NewManager(writeConfig(t, tc.body))
			if _, err := m.Load(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestParseDurationOrDefault(t *testing.T) {
	t.Parallel()

	d, err := ParseDurationOrDefault("x", "", 5*time.Second)
	if err != nil || d != 5*time.Second {
		t.Fatalf("empty: %v %v", d, err)
	}
	d, err = ParseDurationOrDefault("x", "250ms", 5*time.Second)
	if err != nil || d != 250*time.Millisecond {
		t.Fatalf("set: %v %v", d, err)
	}
	if _, err := ParseDurationOrDefault("x", "-1s", 0); err == nil {
		t.Fatalf("negative accepted")
	}
}

func TestSubscribePublish(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, validYAML)
	m := NewManager(path)
	if _, err := m.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}

	ch := m.Subscribe(1)
	defer m.Unsubscribe(ch)

	cfg := m.Get()
	m.publish(cfg)
	select {
	case got := <-ch:
		if got != cfg {
			t.Fatalf("wrong config published")
		}
	default:
		t.Fatalf("nothing published")
	}

	// A full buffer drops the oldest pending update, never the newest.
	m.publish(cfg)
	next, err := m.Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	m.publish(next)
	select {
	case got := <-ch:
		if got != next {
			t.Fatalf("stale config survived")
		}
	default:
		t.Fatalf("nothing published after overflow")
	}
}
