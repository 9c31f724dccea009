// Package io serializes frozen project graphs to JSON and YAML.
//
// # Overview
//
// A document is a field-for-field dump of the graph arena: units,
// namespaces with their ids and parent/child links, files with content
// hashes, declarations in order, and recorded issues. Reading a document
// back goes through [project.Restore], so the result is validated and
// frozen exactly like a freshly built graph. Rendering a restored graph
// produces the same bytes as rendering the original.
//
// # JSON Format
//
//	{
//	  "version": 1,
//	  "name": "demo",
//	  "root": "/src/demo",
//	  "units": [
//	    {"name": "demo", "version": "0.1.0", "root": ".", "manifest": "Cargo.toml", "roots": [0]}
//	  ],
//	  "namespaces": [
//	    {
//	      "id": 0, "unit": 0, "name": "crate", "qualified_name": "crate", "parent": -1,
//	      "files": [{"path": "src/lib.rs", "hash": "af13..."}],
//	      "declarations": [
//	        {"name": "add", "kind": "function", "file": "src/lib.rs", "start": 1, "end": 3,
//	         "params": ["a", "b"], "public": true, "lines": 3}
//	      ]
//	    }
//	  ]
//	}
//
// Declarations carry only the payload fields of their kind: params, public
// and lines for functions; fields and methods for aggregates; signatures
// for contracts; cases and methods for variants.
//
// YAML documents use the same field names.
//
// # Errors
//
// Malformed input, unknown fields, an unsupported version and inconsistent
// arenas are INVALID_INPUT errors from [github.com/matzehuels/furnace/pkg/errors].
package io
