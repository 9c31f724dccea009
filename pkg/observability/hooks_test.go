package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	s := NoopScanHooks{}
	s.OnBuildStart(ctx, "/tmp/project")
	s.OnBuildComplete(ctx, "/tmp/project", 2, 10, time.Second, nil)
	s.OnFileExtracted(ctx, "src/lib.rs", 3, nil)

	r := NoopRenderHooks{}
	r.OnRenderStart(ctx, "text")
	r.OnRenderComplete(ctx, "text", 1024, time.Second)

	h := NoopServerHooks{}
	h.OnRequest(ctx, "id", "GET", "/render")
	h.OnResponse(ctx, "id", "GET", "/render", 200, time.Second)
}

func TestWithDefaults(t *testing.T) {
	h := Hooks{}.WithDefaults()
	if _, ok := h.Scan.(NoopScanHooks); !ok {
		t.Error("Scan should default to NoopScanHooks")
	}
	if _, ok := h.Render.(NoopRenderHooks); !ok {
		t.Error("Render should default to NoopRenderHooks")
	}
	if _, ok := h.Server.(NoopServerHooks); !ok {
		t.Error("Server should default to NoopServerHooks")
	}

	custom := &testScanHooks{}
	h = Hooks{Scan: custom}.WithDefaults()
	if h.Scan != custom {
		t.Error("WithDefaults should keep explicit hooks")
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	h := NewLogHooks(logger).All()
	ctx := context.Background()

	h.Scan.OnBuildStart(ctx, "/p")
	h.Scan.OnFileExtracted(ctx, "src/bad.rs", 0, errors.New("syntax error"))
	h.Scan.OnBuildComplete(ctx, "/p", 1, 4, time.Millisecond, nil)
	h.Render.OnRenderComplete(ctx, "json", 99, time.Millisecond)
	h.Server.OnResponse(ctx, "abc", "GET", "/graph", 200, time.Millisecond)

	out := buf.String()
	for _, want := range []string{"build started", "file skipped", "syntax error", "build complete", "render complete", "status=200"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

type testScanHooks struct{ NoopScanHooks }
