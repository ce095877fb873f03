// Package generate produces preview images for generative layers.
//
// Generation is an opaque async collaborator: the pipeline asks for exactly
// one attempt per changed prompt and the reconciler guards against results
// landing out of order. This package only knows how to turn a prompt into an
// image; retry policy and staleness live elsewhere.
package generate
