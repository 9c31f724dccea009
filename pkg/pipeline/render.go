package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/furnace/pkg/errors"
	furnaceio "github.com/matzehuels/furnace/pkg/io"
	"github.com/matzehuels/furnace/pkg/observability"
	"github.com/matzehuels/furnace/pkg/project"
	"github.com/matzehuels/furnace/pkg/render"
	"github.com/matzehuels/furnace/pkg/render/nodelink"
	"github.com/matzehuels/furnace/pkg/style"
)

// Render produces the artifact for g in format. Text rendering never
// fails; serialization and diagram errors are INTERNAL.
func Render(ctx context.Context, g *project.Graph, sel style.Selection, format string) ([]byte, error) {
	switch format {
	case FormatText:
		return render.Render(g, sel), nil
	case FormatJSON:
		return marshal(g, furnaceio.JSON)
	case FormatYAML:
		return marshal(g, furnaceio.YAML)
	case FormatDOT:
		return []byte(nodelink.ToDOT(g, dotOptions(sel))), nil
	case FormatSVG:
		svg, err := nodelink.RenderSVG(ctx, nodelink.ToDOT(g, dotOptions(sel)))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render svg")
		}
		return svg, nil
	}
	return nil, ValidateFormat(format)
}

// renderWithHooks wraps [Render] with render start/complete hooks.
func renderWithHooks(ctx context.Context, hooks observability.RenderHooks, g *project.Graph, sel style.Selection, format string) ([]byte, time.Duration, error) {
	hooks.OnRenderStart(ctx, format)
	start := time.Now()
	data, err := Render(ctx, g, sel, format)
	dur := time.Since(start)
	if err == nil {
		hooks.OnRenderComplete(ctx, format, len(data), dur)
	}
	return data, dur, err
}

// dotOptions maps the detail axis onto diagram labels.
func dotOptions(sel style.Selection) nodelink.Options {
	return nodelink.Options{Detailed: sel.Detail == style.DetailVerbose}
}

func marshal(g *project.Graph, f furnaceio.Format) ([]byte, error) {
	data, err := furnaceio.Marshal(g, f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "serialize %s", f)
	}
	return data, nil
}

// ContentType returns the MIME type of an artifact format.
func ContentType(format string) string {
	switch format {
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	case FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	case FormatSVG:
		return "image/svg+xml"
	}
	return "text/plain; charset=utf-8"
}

// Extension returns the conventional file extension for a format.
func Extension(format string) string {
	if format == FormatText {
		return ".txt"
	}
	return fmt.Sprintf(".%s", format)
}
