// Package oassync reconciles two versions of an OpenAPI document by
// computing a structural diff between them and translating that diff into a
// minimal, ordered sequence of typed mutation commands against a normalized
// entity store.
//
// The store holds the document decomposed into addressable entities
// (collection, requests, servers, tags, security schemes) rather than as one
// nested tree; oassync is the bridge between "the document changed" and
// "apply these specific edits to these specific entities".
//
// # Overview
//
// The library consists of these primary packages:
//
//   - structdiff: structural diff entries and the generic tree diff
//   - shape: value-shape descriptions, path resolution, and validation
//   - docshape: concrete shapes for each document entity kind
//   - entity: entity snapshots, lookup tables, and mutation commands
//   - reconcile: the diff reconciliation engine (rename combining, diff
//     parsing, and the per-entity payload builders)
//   - store: an in-memory mutation command sink
//   - remote: fetching and hashing of remote documents
//   - watch: polling and file-watching wrappers around the pipeline
//
// # Quick Start
//
// Plan the mutations that bring a store in line with a revised document:
//
//	import (
//		"github.com/erraggy/oassync/entity"
//		"github.com/erraggy/oassync/reconcile"
//		"github.com/erraggy/oassync/structdiff"
//	)
//
//	tables := entity.FromDocument(baseDoc)
//	rec := reconcile.New(tables)
//	result := rec.Plan(structdiff.Diff(baseDoc, revisedDoc))
//	for _, cmd := range result.Commands {
//		fmt.Println(cmd)
//	}
//
// Data flow: raw document pair -> structural diff -> rename combining ->
// per-entity routing -> payload builders -> ordered mutation commands,
// applied by the store in order.
package oassync
