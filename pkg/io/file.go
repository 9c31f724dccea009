package io

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/furnace/pkg/errors"
	"github.com/matzehuels/furnace/pkg/project"
)

// Format names a serialization format.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" and "yml", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return "", errors.New(errors.ErrCodeConfig, "unknown serialization format %q (valid: json, yaml)", s)
}

// FormatOf infers the format from a file extension.
func FormatOf(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", errors.New(errors.ErrCodeInvalidInput, "cannot infer format of %s: no extension", path)
	}
	f, err := ParseFormat(ext)
	if err != nil {
		return "", errors.New(errors.ErrCodeInvalidInput, "cannot infer format of %s: want .json, .yaml or .yml", path)
	}
	return f, nil
}

// Write encodes g in format f.
func Write(g *project.Graph, f Format, w io.Writer) error {
	switch f {
	case JSON:
		return WriteJSON(g, w)
	case YAML:
		return WriteYAML(g, w)
	}
	return errors.New(errors.ErrCodeConfig, "unknown serialization format %q", f)
}

// Read decodes a graph in format f.
func Read(r io.Reader, f Format) (*project.Graph, error) {
	switch f {
	case JSON:
		return ReadJSON(r)
	case YAML:
		return ReadYAML(r)
	}
	return nil, errors.New(errors.ErrCodeConfig, "unknown serialization format %q", f)
}

// Marshal returns the encoding of g in format f.
func Marshal(g *project.Graph, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(g, f, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Export writes g to path, choosing the format from the extension.
func Export(g *project.Graph, path string) error {
	f, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := Marshal(g, f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	return nil
}

// Import reads the graph stored at path, choosing the format from the
// extension.
func Import(path string) (*project.Graph, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open %s", path)
	}
	defer file.Close()

	g, err := Read(file, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}
