package server

import (
	"github.com/matzehuels/furnace/pkg/errors"
	"github.com/matzehuels/furnace/pkg/project"
)

// lookupNamespace finds a namespace by unit name and qualified name. The
// unit may be omitted when the graph has exactly one.
func lookupNamespace(snap *snapshot, unit, qualified string) (project.NamespaceID, error) {
	g := snap.graph
	idx := -1
	switch {
	case unit != "":
		for i, u := range g.Units() {
			if u.Name == unit {
				idx = i
				break
			}
		}
		if idx < 0 {
			return 0, errors.New(errors.ErrCodeInvalidInput, "unknown unit %q", unit)
		}
	case g.UnitCount() == 1:
		idx = 0
	default:
		return 0, errors.New(errors.ErrCodeInvalidInput, "unit is required when the graph has %d units", g.UnitCount())
	}

	ns, ok := g.Lookup(idx, qualified)
	if !ok {
		return 0, errors.New(errors.ErrCodeInvalidInput, "unknown namespace %q in unit %q", qualified, g.Unit(idx).Name)
	}
	return ns.ID, nil
}
