package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing structured debug
// records to a charm logger.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log through logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

// All returns a [Hooks] value using h for every category.
func (h *LogHooks) All() Hooks {
	return Hooks{Scan: h, Render: h, Server: h}
}

func (h *LogHooks) OnBuildStart(_ context.Context, root string) {
	h.logger.Debug("build started", "root", root)
}

func (h *LogHooks) OnBuildComplete(_ context.Context, root string, units, files int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("build failed", "root", root, "duration", d, "error", err)
		return
	}
	h.logger.Debug("build complete", "root", root, "units", units, "files", files, "duration", d)
}

func (h *LogHooks) OnFileExtracted(_ context.Context, path string, decls int, err error) {
	if err != nil {
		h.logger.Debug("file skipped", "path", path, "error", err)
		return
	}
	h.logger.Debug("file extracted", "path", path, "decls", decls)
}

func (h *LogHooks) OnRenderStart(_ context.Context, format string) {
	h.logger.Debug("render started", "format", format)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, format string, size int, d time.Duration) {
	h.logger.Debug("render complete", "format", format, "bytes", size, "duration", d)
}

func (h *LogHooks) OnRequest(_ context.Context, id, method, path string) {
	h.logger.Debug("request", "id", id, "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, id, method, path string, status int, d time.Duration) {
	h.logger.Info("response", "id", id, "method", method, "path", path, "status", status, "duration", d)
}
