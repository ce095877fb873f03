// Package source loads design inputs from disk: the serialized layer tree,
// strategy and feedback documents, and the per-layer pixel buffers exported
// alongside them.
package source
