// Package hdt provides a pure Go reader and query engine for the HDT
// (Header-Dictionary-Triples) binary RDF format.
//
// HDT is a compact, self-indexed encoding of an RDF graph: a front-coded
// string dictionary maps every term to a numeric identifier, and a
// bitmap-encoded triple table stores the graph as adjacency lists over
// those identifiers. This package loads a file in full and answers queries
// without decompressing it.
//
// The package supports:
//   - Enumerating all triples in storage order
//   - Enumerating triples with a fixed subject, predicate, or object
//   - Translating terms to identifiers and back through the dictionary
//
// Basic usage:
//
//	graph, err := hdt.Read(reader)
//	it := graph.TriplesWith(hdt.IdKindSubject, "http://example.org/s")
//	for it.Next() {
//		t := it.Triple()
//		...
//	}
//
// Loading consumes the input in full; afterwards every structure is
// immutable and safe for concurrent queries. Iterators are forward-only and
// single-pass, and must not outlive the graph they borrow.
package hdt
