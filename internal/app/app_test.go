package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"wasel/internal/config"
	"wasel/internal/queue"
	"wasel/pkg/logx"
)

func writeAppConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "telegram:\n  token: \"123:abc\"\nstorage:\n  path: \"" +
		filepath.Join(t.TempDir(), "wasel.db") + "\"\ncontent:\n  seed_library: false\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// Stop must be able to clear the watcher fields while the reload loop is
// still draining; the loop only ever touches the channels it was handed.
func TestStopShutsDownConfigWatcher(t *testing.T) {
	t.Parallel()

	cfgm := config.NewManager(writeAppConfig(t))
	cfg, err := cfgm.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	a := &App{
		cfgm: cfgm,
		log:  logx.Nop(),
		q:    queue.New(queue.Config{}, nil, logx.Nop()),
	}

	// Mirror the watcher setup Start performs.
	watchCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	reloads := cfgm.Subscribe(1)
	a.mu.Lock()
	a.stopWatch = cancel
	a.watchDone = done
	a.reloads = reloads
	a.mu.Unlock()
	go a.watchConfig(watchCtx, done, reloads)

	reloads <- cfg
	deadline := time.Now().Add(2 * time.Second)
	for len(reloads) > 0 {
		if time.Now().After(deadline) {
			t.Fatalf("reload never consumed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	a.Stop(stopCtx)

	select {
	case <-done:
	default:
		t.Fatalf("watch loop still running after Stop")
	}
	a.mu.Lock()
	cleared := a.stopWatch == nil && a.watchDone == nil && a.reloads == nil
	a.mu.Unlock()
	if !cleared {
		t.Fatalf("watcher fields not cleared")
	}

	// Second Stop is a no-op.
	a.Stop(stopCtx)
}
