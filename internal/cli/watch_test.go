package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// waitFor polls until cond holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestWatchRebuildsOnChange(t *testing.T) {
	root := crate(t, nil)
	var stdout, stderr lockedBuffer

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cmd := New(io.Discard, LogInfo).RootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"watch", root, "--preset", "minimal", "--debounce", "20ms"})

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	waitFor(t, "initial render", func() bool { return strings.Contains(stdout.String(), "    add\n") })

	src := "pub fn add(a: i32, b: i32) -> i32 { a + b }\npub fn sub(a: i32, b: i32) -> i32 { a - b }\n"
	if err := os.WriteFile(filepath.Join(root, "src", "util.rs"), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "rebuild after edit", func() bool { return strings.Contains(stdout.String(), "    sub\n") })

	// New modules in new directories are picked up.
	if err := os.MkdirAll(filepath.Join(root, "src", "net"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "src", "net", "mod.rs"), []byte("pub fn connect() {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "rebuild after new module", func() bool { return strings.Contains(stdout.String(), "  crate::net\n    connect\n") })

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("watch returned %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
	if !strings.Contains(stderr.String(), "Watching") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestWatchRejectsBadFlags(t *testing.T) {
	root := crate(t, nil)
	if _, _, err := execute(t, "watch", root, "--layout", "spiral"); err == nil {
		t.Error("bad layout accepted")
	}
}

func TestWatcherRelevant(t *testing.T) {
	root := t.TempDir()
	w, err := newWatcher(root, []string{"generated"}, time.Millisecond, log.New(io.Discard))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	at := func(rel string) string { return filepath.Join(root, filepath.FromSlash(rel)) }
	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"source write", fsnotify.Event{Name: at("src/lib.rs"), Op: fsnotify.Write}, true},
		{"manifest", fsnotify.Event{Name: at("Cargo.toml"), Op: fsnotify.Write}, true},
		{"config", fsnotify.Event{Name: at(".furnacerc.toml"), Op: fsnotify.Write}, true},
		{"chmod only", fsnotify.Event{Name: at("src/lib.rs"), Op: fsnotify.Chmod}, false},
		{"other extension", fsnotify.Event{Name: at("README.md"), Op: fsnotify.Write}, false},
		{"build output", fsnotify.Event{Name: at("target/debug/x.rs"), Op: fsnotify.Write}, false},
		{"ignored", fsnotify.Event{Name: at("src/generated/x.rs"), Op: fsnotify.Write}, false},
		{"hidden", fsnotify.Event{Name: at(".git/x.rs"), Op: fsnotify.Write}, false},
		{"removed module dir", fsnotify.Event{Name: at("src/net"), Op: fsnotify.Remove}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.relevant(tt.ev); got != tt.want {
				t.Errorf("relevant(%s) = %v, want %v", tt.ev, got, tt.want)
			}
		})
	}
}
