// Package reconcile merges a freshly computed payload against the previously
// persisted one for the same output slot.
//
// Geometry is recomputed from scratch on every input change, but the
// generation lifecycle (preview URL, confirmation, generation id) has memory:
// a geometry-only recomputation must not disturb an already-confirmed
// generation, and a stale async generation result must never clobber a newer
// one. Reconcile is the single authority over that lifecycle. It is a pure
// function: both inputs are treated as immutable and the result is always a
// fresh value.
package reconcile
