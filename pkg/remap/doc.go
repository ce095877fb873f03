// Package remap computes target-relative geometry for a source layer tree.
//
// The pipeline has three passes, run in a fixed order by [Transform]:
//
//  1. Mapping: every layer's position is mapped independently into the target
//     rectangle, preserving its relative position inside the source container
//     regardless of nesting. Sizes scale only by the scalar scale factor.
//  2. Override application: effective overrides (see [ResolveOverrides])
//     replace mapped positions with target-origin-relative placements and may
//     adjust per-layer scale and rotation.
//  3. Physics solving: role-based rules rewrite root-level positions: grid
//     distribution, collision sweep, overlay anchoring, boundary clamping.
//     Nested groups inherit their parent's translation delta; they are never
//     independently re-solved.
//
// All passes are pure with respect to their inputs: the same document,
// target, and overrides always produce an identical payload.
package remap
