// Package pkg provides the core libraries for Layerforge design re-layout.
//
// # Overview
//
// Layerforge procedurally remaps hierarchical visual designs into new target
// rectangles. The pkg directory is organized into four main areas:
//
//  1. [design] - Domain types (documents, layers, strategies, payloads)
//  2. [remap] - The re-layout engine (geometry, overrides, physics)
//  3. [reconcile], [store] - Generation lifecycle and persistence
//  4. [compositor], [pipeline] - Rasterization and orchestration
//
// # Architecture
//
// The typical data flow through Layerforge:
//
//	Design Document + Strategy
//	         ↓
//	    [remap] package (map geometry, resolve overrides, solve physics)
//	         ↓
//	    [reconcile] package (merge generation state against the stored slot)
//	         ↓
//	    [compositor] package (painter's-algorithm rasterization)
//	         ↓
//	    PNG/JSON output
//
// # Quick Start
//
// Run the full pipeline for a document:
//
//	import (
//	    "context"
//	    "github.com/dzazaleo/layerforge/pkg/design"
//	    "github.com/dzazaleo/layerforge/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, nil, nil, nil)
//	result, err := runner.Execute(context.Background(), pipeline.Options{
//	    Document: doc,
//	    Target:   design.Rect{W: 300, H: 600},
//	})
//
// Supporting packages: [cache] for transform and composite caching, [generate]
// for generative fill, [source] for document and pixel-buffer loading,
// [inspect] for layer-tree diagrams, and [observability] for hooks.
package pkg
