// Package design defines the data model shared across layerforge: source
// documents (layer trees captured inside a source container), re-layout
// strategies and reviewer feedback, and the transformed payloads produced by
// the remap pipeline.
//
// The types in this package are the canonical serialization format. They
// carry both JSON tags (caching, API responses, file import/export) and BSON
// tags (payload persistence), and are designed for round-trip fidelity:
// export → re-import produces identical values.
//
// A Document and its Layers are created once per source parse and treated as
// read-only afterwards. Strategies are replaced wholesale on re-analysis,
// Feedback persists until explicitly reset, and Payloads are recomputed
// deterministically on every input change.
package design
