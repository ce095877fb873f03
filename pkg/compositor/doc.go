// Package compositor rasterizes a transformed payload.
//
// The layer tree is painted bottom-to-top (painter's algorithm: index 0 is
// the bottom-most visual layer), each pixel leaf from its original pixel
// buffer scaled and rotated into target space, each generative leaf from the
// payload's shared generated image or a labeled placeholder. Missing pixel
// buffers are skipped and surfaced as diagnostics, never errors. Output is
// lossless PNG so transparency survives export.
package compositor
