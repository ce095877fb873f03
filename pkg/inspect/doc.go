// Package inspect renders a design document's layer tree as a diagram, for
// debugging strategies: the containment hierarchy as a tree, overlay layers
// linked to their anchors with dashed edges.
package inspect
