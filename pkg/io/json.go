package io

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/furnace/pkg/errors"
	"github.com/matzehuels/furnace/pkg/project"
)

// WriteJSON encodes a graph as indented JSON and writes it to w.
// The output can be read back with [ReadJSON].
func WriteJSON(g *project.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toDocument(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes a JSON document from r and rebuilds the frozen graph.
//
// ReadJSON returns an INVALID_INPUT error if the JSON is malformed, has an
// unsupported version, contains unknown fields, or describes an
// inconsistent graph (see [project.Restore]). ReadJSON does not close r.
func ReadJSON(r io.Reader) (*project.Graph, error) {
	var doc document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode json")
	}
	return restore(doc)
}

func restore(doc document) (*project.Graph, error) {
	if doc.Version != FormatVersion {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unsupported document version %d (want %d)", doc.Version, FormatVersion)
	}
	g, err := doc.graph()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "restore graph")
	}
	return g, nil
}
