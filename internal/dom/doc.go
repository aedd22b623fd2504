// Package dom provides a lightweight XML document tree for project files.
//
// It supports two read strategies:
//   - Scan: a streaming well-formedness check that never builds a tree,
//     used by the validator before any expensive processing runs
//   - Parse: a full tree parse producing Nodes that can be searched by
//     tag name, used by the document reader
//
// Parse errors carry the underlying decoder message; ErrorContext can
// recover an excerpt of the surrounding content for diagnostics.
package dom
